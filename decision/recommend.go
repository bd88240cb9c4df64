package decision

import (
	"sort"

	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

// Recommend evaluates the catalog's test rules and the concern rule against
// fs. The first rule to recommend a test name decides its priority,
// rationale and technique.
func (e *Engine) Recommend(fs features.FeatureSet) []TestRecommendation {
	return e.recommend(fs.Facts())
}

func (e *Engine) recommend(facts map[string]any) []TestRecommendation {
	recs := []TestRecommendation{}
	seen := make(map[string]bool)

	add := func(t rules.TestRule) {
		if seen[t.Name] {
			return
		}
		seen[t.Name] = true
		recs = append(recs, TestRecommendation{
			Name:      t.Name,
			Priority:  t.Priority,
			Rationale: t.Rationale,
			Technique: t.Technique,
		})
	}

	for i, t := range e.catalog.Tests {
		if e.conds.tests[i].Match(facts) {
			add(t)
		}
	}

	if concern := e.catalog.Concern; concern != nil {
		if e.concernScore(concern, facts) >= concern.Threshold {
			add(concern.Test)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}

func (e *Engine) concernScore(c *rules.Concern, facts map[string]any) int {
	total := 0
	for i, cr := range c.Criteria {
		if e.conds.concern[i].Match(facts) {
			total += cr.Weight
		}
	}
	return total
}
