package decision

import (
	"fmt"

	"github.com/liamcoop/neurocds/rules"
)

// conditions holds every catalog expression resolved to its program,
// index-aligned with the catalog it was built from.
type conditions struct {
	diagnoses []diagnosisConditions
	tests     []rules.Condition
	concern   []rules.Condition
	guards    []rules.Condition
}

type diagnosisConditions struct {
	criteria []rules.Condition
	steps    []rules.Condition
}

func prepareConditions(re *rules.Engine, c *rules.Catalog) (*conditions, error) {
	var err error
	prepare := func(where, expr string) rules.Condition {
		if err != nil {
			return rules.Condition{}
		}
		cond, cerr := re.Prepare(expr)
		if cerr != nil {
			err = fmt.Errorf("%s: %w", where, cerr)
		}
		return cond
	}

	conds := &conditions{
		diagnoses: make([]diagnosisConditions, len(c.Diagnoses)),
		tests:     make([]rules.Condition, len(c.Tests)),
		guards:    make([]rules.Condition, len(c.Guards)),
	}

	for i, d := range c.Diagnoses {
		dc := diagnosisConditions{
			criteria: make([]rules.Condition, len(d.Criteria)),
			steps:    make([]rules.Condition, len(d.NextSteps)),
		}
		for j, cr := range d.Criteria {
			dc.criteria[j] = prepare(fmt.Sprintf("diagnoses[%s].criteria[%d]", d.ID, j), cr.When)
		}
		for j, st := range d.NextSteps {
			dc.steps[j] = prepare(fmt.Sprintf("diagnoses[%s].nextSteps[%d]", d.ID, j), st.When)
		}
		conds.diagnoses[i] = dc
	}

	for i, t := range c.Tests {
		conds.tests[i] = prepare(fmt.Sprintf("tests[%s]", t.ID), t.When)
	}

	if c.Concern != nil {
		conds.concern = make([]rules.Condition, len(c.Concern.Criteria))
		for i, cr := range c.Concern.Criteria {
			conds.concern[i] = prepare(fmt.Sprintf("concern.criteria[%d]", i), cr.When)
		}
	}

	for i, g := range c.Guards {
		conds.guards[i] = prepare(fmt.Sprintf("guards[%s]", g.ID), g.When)
	}

	if err != nil {
		return nil, err
	}
	return conds, nil
}
