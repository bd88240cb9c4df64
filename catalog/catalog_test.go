package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamcoop/neurocds/catalog"
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/multicatalog"
	"github.com/liamcoop/neurocds/rules"
)

func TestBuiltinsAreValid(t *testing.T) {
	re, err := rules.NewEngine(features.Schema())
	require.NoError(t, err)

	for _, name := range catalog.Names() {
		t.Run(name, func(t *testing.T) {
			c, err := catalog.Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name)

			require.NoError(t, multicatalog.ValidateCatalog(c))
			require.NoError(t, re.CompileCatalog(c))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{catalog.NameFull, catalog.NameStarter}, catalog.Names())
	assert.True(t, catalog.IsBuiltin(catalog.NameStarter))
	assert.True(t, catalog.IsBuiltin(catalog.NameFull))
	assert.False(t, catalog.IsBuiltin("custom"))

	_, err := catalog.Builtin("custom")
	assert.ErrorIs(t, err, rules.ErrCatalogNotFound)
}

func TestStarterIsSubsetOfFull(t *testing.T) {
	full := catalog.Full()
	starter := catalog.Starter()

	assert.Less(t, len(starter.Diagnoses), len(full.Diagnoses))
	assert.Less(t, starter.MaxCandidates, full.MaxCandidates)

	diagnoses := make(map[string]rules.ScoringRule)
	for _, d := range full.Diagnoses {
		diagnoses[d.ID] = d
	}
	for _, d := range starter.Diagnoses {
		assert.Equal(t, diagnoses[d.ID], d, "diagnosis %s differs from full", d.ID)
	}

	tests := make(map[string]rules.TestRule)
	for _, tr := range full.Tests {
		tests[tr.ID] = tr
	}
	for _, tr := range starter.Tests {
		assert.Equal(t, tests[tr.ID], tr, "test %s differs from full", tr.ID)
	}

	guards := make(map[string]rules.Guard)
	for _, g := range full.Guards {
		guards[g.ID] = g
	}
	for _, g := range starter.Guards {
		assert.Equal(t, guards[g.ID], g, "guard %s differs from full", g.ID)
	}

	assert.Equal(t, full.Concern, starter.Concern)
}

func TestGuardsAreOrderedBySeverity(t *testing.T) {
	for _, name := range catalog.Names() {
		c, err := catalog.Builtin(name)
		require.NoError(t, err)

		for i := 1; i < len(c.Guards); i++ {
			assert.GreaterOrEqual(t, c.Guards[i-1].Level.Severity(), c.Guards[i].Level.Severity(),
				"%s: guard %s before %s", name, c.Guards[i-1].ID, c.Guards[i].ID)
		}
		assert.Equal(t, rules.LevelCritical, c.Guards[0].Level)
	}
}

func TestCategories(t *testing.T) {
	known := map[string]bool{
		catalog.CategoryPupil:         true,
		catalog.CategoryMotility:      true,
		catalog.CategoryNeuromuscular: true,
		catalog.CategoryOpticNerve:    true,
		catalog.CategoryVisualField:   true,
	}
	for _, d := range catalog.Full().Diagnoses {
		assert.True(t, known[d.Category], "diagnosis %s has category %q", d.ID, d.Category)
	}
}

func TestBuiltinReturnsFreshCopy(t *testing.T) {
	a := catalog.Full()
	a.Diagnoses[0].Criteria[0].Weight = 99
	a.Guards = nil

	b := catalog.Full()
	assert.NotEqual(t, 99, b.Diagnoses[0].Criteria[0].Weight)
	assert.NotEmpty(t, b.Guards)
}
