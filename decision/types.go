package decision

import (
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

// Result is the output of one Compute call.
type Result struct {
	Features               features.FeatureSet  `json:"features"`
	Differential           []Candidate          `json:"differential"`
	Urgency                Banner               `json:"urgency"`
	TestingRecommendations []TestRecommendation `json:"testingRecommendations"`
}

// Candidate is one scored differential diagnosis.
type Candidate struct {
	Name      string   `json:"name"`
	Score     int      `json:"score"`
	Evidence  []string `json:"evidence"`
	NextSteps []string `json:"nextSteps"`
	Category  string   `json:"category"`
}

// TestRecommendation is one suggested investigation. Name is unique within
// a result.
type TestRecommendation struct {
	Name      string         `json:"name"`
	Priority  rules.Priority `json:"priority"`
	Rationale string         `json:"rationale"`
	Technique string         `json:"technique,omitempty"`
}

// Banner is the overall urgency of a result.
type Banner struct {
	Level   rules.Level `json:"level"`
	Message string      `json:"message"`
}
