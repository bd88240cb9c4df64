package decision

import (
	"sort"

	"github.com/liamcoop/neurocds/features"
)

// Score evaluates every diagnosis rule against fs and returns the ranked,
// capped differential. It does not apply readiness gating; Compute does.
func (e *Engine) Score(fs features.FeatureSet) []Candidate {
	return e.score(fs.Facts())
}

func (e *Engine) score(facts map[string]any) []Candidate {
	candidates := []Candidate{}

	for i, rule := range e.catalog.Diagnoses {
		dc := e.conds.diagnoses[i]
		c := Candidate{
			Name:      rule.Name,
			Category:  rule.Category,
			Evidence:  []string{},
			NextSteps: []string{},
		}

		for j, cr := range rule.Criteria {
			if !dc.criteria[j].Match(facts) {
				continue
			}
			c.Score += cr.Weight
			if cr.Evidence != "" {
				c.Evidence = append(c.Evidence, cr.Evidence)
			}
		}

		if c.Score <= 0 || c.Score < rule.MinScore {
			continue
		}

		for j, step := range rule.NextSteps {
			if dc.steps[j].Match(facts) {
				c.NextSteps = append(c.NextSteps, step.Text)
			}
		}

		candidates = append(candidates, c)
	}

	// Ties keep catalog order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if limit := e.catalog.MaxCandidates; limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
