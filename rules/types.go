package rules

import (
	"strconv"
	"time"
)

// Criterion is one weighted condition of a scoring rule. When is a CEL
// expression over feature names; a negative weight is a penalty.
type Criterion struct {
	When     string `json:"when" yaml:"when"`
	Weight   int    `json:"weight" yaml:"weight"`
	Evidence string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Step is a next-step suggestion. An empty When always applies.
type Step struct {
	When string `json:"when,omitempty" yaml:"when,omitempty"`
	Text string `json:"text" yaml:"text"`
}

// ScoringRule scores one candidate diagnosis.
//
// MinScore is the rule's own surfacing threshold. Zero means any positive
// score is reported.
type ScoringRule struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Category  string      `json:"category" yaml:"category"`
	MinScore  int         `json:"minScore,omitempty" yaml:"minScore,omitempty"`
	Criteria  []Criterion `json:"criteria" yaml:"criteria"`
	NextSteps []Step      `json:"nextSteps,omitempty" yaml:"nextSteps,omitempty"`
}

// Priority orders test recommendations.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityModerate Priority = "moderate"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityModerate: 2,
	PriorityLow:      3,
}

// Rank is 0 for critical through 3 for low; unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// TestRule recommends one investigation when its condition holds.
type TestRule struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Rationale string   `json:"rationale" yaml:"rationale"`
	Technique string   `json:"technique,omitempty" yaml:"technique,omitempty"`
	When      string   `json:"when" yaml:"when"`
}

// Concern is the aggregate rule evaluated after every TestRule. It sums the
// weights of its true criteria and recommends Test when the sum reaches
// Threshold. Test.When is ignored.
type Concern struct {
	Criteria  []Criterion `json:"criteria" yaml:"criteria"`
	Threshold int         `json:"threshold" yaml:"threshold"`
	Test      TestRule    `json:"test" yaml:"test"`
}

// Level is an urgency severity.
type Level string

const (
	LevelNone     Level = "none"
	LevelInfo     Level = "info"
	LevelWarn     Level = "warn"
	LevelDanger   Level = "danger"
	LevelCritical Level = "critical"
)

var levelRank = map[Level]int{
	LevelNone:     0,
	LevelInfo:     1,
	LevelWarn:     2,
	LevelDanger:   3,
	LevelCritical: 4,
}

// Severity is 0 for none through 4 for critical, -1 for unknown levels.
func (l Level) Severity() int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return -1
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// Guard is one step of the urgency cascade.
type Guard struct {
	ID      string `json:"id" yaml:"id"`
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
	When    string `json:"when" yaml:"when"`
}

// Catalog is a complete, named rule set. Diagnoses, Tests and Guards are
// evaluated in slice order.
type Catalog struct {
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description,omitempty" yaml:"description,omitempty"`
	MaxCandidates int           `json:"maxCandidates" yaml:"maxCandidates"`
	Diagnoses     []ScoringRule `json:"diagnoses" yaml:"diagnoses"`
	Tests         []TestRule    `json:"tests" yaml:"tests"`
	Concern       *Concern      `json:"concern,omitempty" yaml:"concern,omitempty"`
	Guards        []Guard       `json:"guards" yaml:"guards"`
}

// Expressions returns every condition in the catalog keyed by a path that
// names where it came from, e.g. "diagnoses[horner].criteria[0]".
func (c *Catalog) Expressions() []Expression {
	var out []Expression
	for _, d := range c.Diagnoses {
		for i, cr := range d.Criteria {
			out = append(out, Expression{Path: path("diagnoses", d.ID, "criteria", i), Source: cr.When})
		}
		for i, st := range d.NextSteps {
			if st.When != "" {
				out = append(out, Expression{Path: path("diagnoses", d.ID, "nextSteps", i), Source: st.When})
			}
		}
	}
	for _, t := range c.Tests {
		out = append(out, Expression{Path: path("tests", t.ID, "", -1), Source: t.When})
	}
	if c.Concern != nil {
		for i, cr := range c.Concern.Criteria {
			out = append(out, Expression{Path: path("concern", "", "criteria", i), Source: cr.When})
		}
	}
	for _, g := range c.Guards {
		out = append(out, Expression{Path: path("guards", g.ID, "", -1), Source: g.When})
	}
	return out
}

// Expression is a located condition source.
type Expression struct {
	Path   string
	Source string
}

// StoredCatalog is a catalog as persisted by a CatalogStore.
type StoredCatalog struct {
	ID        string
	Catalog   *Catalog
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EvaluationResult contains the outcome of evaluating one expression
type EvaluationResult struct {
	Expression string
	Matched    bool
	Error      error
}

func path(section, id, sub string, i int) string {
	p := section
	if id != "" {
		p += "[" + id + "]"
	}
	if sub != "" {
		p += "." + sub + "[" + strconv.Itoa(i) + "]"
	}
	return p
}
