package decision

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamcoop/neurocds/catalog"
	"github.com/liamcoop/neurocds/exam"
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

func hornerSnapshot() exam.Snapshot {
	return exam.Snapshot{
		Pupils: exam.Pupils{
			ODLight:     exam.MM(3.5),
			OSLight:     exam.MM(2.5),
			ODDark:      exam.MM(6.0),
			OSDark:      exam.MM(4.0),
			DilationLag: true,
			Ptosis:      true,
		},
	}
}

func myastheniaSnapshot() exam.Snapshot {
	return exam.Snapshot{
		EOM: exam.EOM{Fatigable: true, Ptosis: true, Diplopia: true},
	}
}

func bitemporalSnapshot() exam.Snapshot {
	return exam.Snapshot{
		VisualFields: exam.VisualFields{Bitemporal: true, Reliability: exam.ReliabilityPoor},
	}
}

func traumaSnapshot() exam.Snapshot {
	return exam.Snapshot{
		Triage:     exam.Triage{Trauma: true},
		Pupils:     exam.Pupils{RAPDOD: exam.RAPD3},
		OpticNerve: exam.OpticNerve{DiscPallorOD: true},
	}
}

func newEngine(t *testing.T, c *rules.Catalog, opts ...Option) *Engine {
	t.Helper()
	e, err := New(c, opts...)
	require.NoError(t, err)
	return e
}

func findCandidate(t *testing.T, list []Candidate, name string) Candidate {
	t.Helper()
	for _, c := range list {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "candidate not found", "%q not in %v", name, list)
	return Candidate{}
}

func builtinEngines(t *testing.T) map[string]*Engine {
	t.Helper()
	engines := make(map[string]*Engine)
	for _, name := range catalog.Names() {
		c, err := catalog.Builtin(name)
		require.NoError(t, err)
		engines[name] = newEngine(t, c)
	}
	return engines
}

func TestScenarioHornerPattern(t *testing.T) {
	for name, e := range builtinEngines(t) {
		t.Run(name, func(t *testing.T) {
			result := e.Compute(hornerSnapshot())

			fs := result.Features
			require.NotNil(t, fs.AnisLight)
			require.NotNil(t, fs.AnisDark)
			assert.InDelta(t, 1.0, *fs.AnisLight, 1e-9)
			assert.InDelta(t, 2.0, *fs.AnisDark, 1e-9)
			assert.Equal(t, features.DominanceDark, fs.Dominance)

			horner := findCandidate(t, result.Differential, "Horner syndrome")
			assert.GreaterOrEqual(t, horner.Score, 9)
			assert.Equal(t, catalog.CategoryPupil, horner.Category)
			assert.Contains(t, horner.Evidence, "Anisocoria greater in dark")
			assert.Contains(t, horner.NextSteps, "Confirm with apraclonidine 0.5% (reversal of anisocoria)")
			assert.NotContains(t, horner.NextSteps, "Urgent CTA head and neck to exclude carotid dissection")

			assert.Less(t, result.Urgency.Level.Severity(), rules.LevelCritical.Severity())
			assert.Equal(t, rules.LevelWarn, result.Urgency.Level)
		})
	}
}

func TestScenarioMyasthenia(t *testing.T) {
	for name, e := range builtinEngines(t) {
		t.Run(name, func(t *testing.T) {
			result := e.Compute(myastheniaSnapshot())

			assert.False(t, result.Features.PupilDataAny)
			assert.True(t, result.Features.Readiness.EOM)
			require.NotEmpty(t, result.Differential)

			top := result.Differential[0]
			assert.Equal(t, "Myasthenia Gravis", top.Name)
			assert.Equal(t, 11, top.Score)
			assert.Contains(t, top.Evidence, "Pupils uninvolved")
		})
	}
}

func TestScenarioUnreliableBitemporal(t *testing.T) {
	for name, e := range builtinEngines(t) {
		t.Run(name, func(t *testing.T) {
			result := e.Compute(bitemporalSnapshot())

			chiasmal := findCandidate(t, result.Differential, "Chiasmal compression")
			assert.Equal(t, 6-2, chiasmal.Score)
			assert.Contains(t, chiasmal.Evidence, "Unreliable visual field")

			assert.NotEqual(t, rules.LevelInfo, result.Urgency.Level)
			assert.Equal(t, MessageNoPattern, result.Urgency.Message)
		})
	}
}

func TestScenarioTraumaticOpticNeuropathy(t *testing.T) {
	for name, e := range builtinEngines(t) {
		t.Run(name, func(t *testing.T) {
			result := e.Compute(traumaSnapshot())

			require.NotEmpty(t, result.Differential)
			assert.Equal(t, "Traumatic Optic Neuropathy", result.Differential[0].Name)
			assert.Equal(t, 12, result.Differential[0].Score)
			assert.Equal(t, rules.LevelCritical, result.Urgency.Level)
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	e := newEngine(t, catalog.Full())

	for _, s := range []exam.Snapshot{{}, hornerSnapshot(), myastheniaSnapshot(), bitemporalSnapshot(), traumaSnapshot()} {
		assert.Equal(t, e.Compute(s), e.Compute(s))
	}
}

func TestDifferentialIsRankedByScore(t *testing.T) {
	e := newEngine(t, catalog.Full())

	busy := traumaSnapshot()
	busy.Triage.ReducedAcuity = true
	busy.Triage.ColorDeficit = true
	busy.Triage.Headache = true
	busy.VisualFields.CentralScotoma = true
	busy.EOM.Diplopia = true
	busy.EOM.AbductionDeficit = exam.True

	for _, s := range []exam.Snapshot{hornerSnapshot(), busy} {
		list := e.Compute(s).Differential
		require.NotEmpty(t, list)
		assert.LessOrEqual(t, len(list), 12)
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1].Score, list[i].Score, "%s ranked above %s", list[i-1].Name, list[i].Name)
		}
	}
}

func TestGating(t *testing.T) {
	e := newEngine(t, catalog.Full())

	// Triage alone is enough for the scorer but no module is ready.
	s := exam.Snapshot{Triage: exam.Triage{Trauma: true, ReducedAcuity: true}}
	fs := features.Derive(s, e.Config())
	require.False(t, fs.Readiness.Any())
	assert.NotEmpty(t, e.Score(fs))

	result := e.Compute(s)
	assert.NotNil(t, result.Differential)
	assert.Empty(t, result.Differential)

	// Any ready module opens the gate.
	s.OpticNerve.DiscPallorOD = true
	assert.NotEmpty(t, e.Compute(s).Differential)
}

func TestDefaultBanner(t *testing.T) {
	e := newEngine(t, catalog.Full())

	testCases := []struct {
		name     string
		snapshot exam.Snapshot
		level    rules.Level
		message  string
	}{
		{"No data", exam.Snapshot{}, rules.LevelNone, MessageNoData},
		{"Partial pupils", exam.Snapshot{Pupils: exam.Pupils{ODLight: exam.MM(4)}}, rules.LevelInfo, MessagePupilsIncomplete},
		{"Unremarkable data", exam.Snapshot{Pupils: exam.Pupils{
			ODLight: exam.MM(3), OSLight: exam.MM(3), ODDark: exam.MM(6), OSDark: exam.MM(6),
		}}, rules.LevelNone, MessageNoPattern},
		{"Triage only", exam.Snapshot{Triage: exam.Triage{Headache: true}}, rules.LevelNone, MessageNoPattern},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			banner := e.Compute(tc.snapshot).Urgency
			assert.Equal(t, tc.level, banner.Level)
			assert.Equal(t, tc.message, banner.Message)
		})
	}
}

func TestUrgencyPrecedence(t *testing.T) {
	e := newEngine(t, catalog.Full())

	// Both the painful Horner guard and the plain Horner guard hold.
	s := hornerSnapshot()
	s.Triage.Acute = true
	s.Triage.Painful = true

	banner := e.Compute(s).Urgency
	assert.Equal(t, rules.LevelCritical, banner.Level)
	assert.Contains(t, banner.Message, "carotid dissection")

	// Trauma adds a second critical guard; the earlier one still wins.
	s.Triage.Trauma = true
	s.Pupils.RAPDOS = exam.RAPD2
	assert.Equal(t, banner, e.Compute(s).Urgency)
}

func TestGuardsFirstMatchWins(t *testing.T) {
	c := &rules.Catalog{
		Name: "guards",
		Guards: []rules.Guard{
			{ID: "a", Level: rules.LevelDanger, Message: "first", When: `acute`},
			{ID: "b", Level: rules.LevelDanger, Message: "second", When: `acute && painful`},
			{ID: "c", Level: rules.LevelInfo, Message: "third", When: `painful`},
		},
	}
	e := newEngine(t, c)

	s := exam.Snapshot{Triage: exam.Triage{Acute: true, Painful: true}}
	assert.Equal(t, "first", e.Compute(s).Urgency.Message)

	s.Triage.Acute = false
	assert.Equal(t, Banner{Level: rules.LevelInfo, Message: "third"}, e.Compute(s).Urgency)
}

func TestScoringRules(t *testing.T) {
	c := &rules.Catalog{
		Name:          "scoring",
		MaxCandidates: 2,
		Diagnoses: []rules.ScoringRule{
			{ID: "a", Name: "A", Criteria: []rules.Criterion{{When: `trauma`, Weight: 3, Evidence: "trauma"}}},
			{ID: "b", Name: "B", Criteria: []rules.Criterion{{When: `trauma`, Weight: 3}}},
			{ID: "c", Name: "C", Criteria: []rules.Criterion{{When: `trauma`, Weight: 4}}},
			{ID: "d", Name: "D", MinScore: 5, Criteria: []rules.Criterion{{When: `trauma`, Weight: 4}}},
			{ID: "e", Name: "E", Criteria: []rules.Criterion{
				{When: `trauma`, Weight: 2},
				{When: `acute`, Weight: -2, Evidence: "acute"},
			}},
		},
	}
	e := newEngine(t, c)

	s := exam.Snapshot{
		Triage:     exam.Triage{Trauma: true, Acute: true},
		OpticNerve: exam.OpticNerve{SVPAbsent: true},
	}
	list := e.Compute(s).Differential

	// C outranks; A and B tie and keep catalog order; the cap drops B.
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, []string{"trauma"}, list[1].Evidence)
	assert.Equal(t, []string{}, list[1].NextSteps)

	// Without the cap D stays below its minimum and E nets zero.
	c.MaxCandidates = 0
	names := []string{}
	for _, cand := range newEngine(t, c).Compute(s).Differential {
		names = append(names, cand.Name)
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestScoreMonotonicity(t *testing.T) {
	e := newEngine(t, catalog.Full())

	base := hornerSnapshot()
	before := findCandidate(t, e.Compute(base).Differential, "Horner syndrome").Score

	more := hornerSnapshot()
	more.Pupils.Anhidrosis = true
	after := findCandidate(t, e.Compute(more).Differential, "Horner syndrome").Score

	assert.Greater(t, after, before)
}

func TestNextStepConditions(t *testing.T) {
	e := newEngine(t, catalog.Full())

	s := hornerSnapshot()
	s.Triage.Acute = true
	horner := findCandidate(t, e.Compute(s).Differential, "Horner syndrome")

	assert.Equal(t, []string{
		"Confirm with apraclonidine 0.5% (reversal of anisocoria)",
		"Urgent CTA head and neck to exclude carotid dissection",
	}, horner.NextSteps)
}

func TestRecommendDeduplicatesFirstWins(t *testing.T) {
	c := &rules.Catalog{
		Name: "tests",
		Tests: []rules.TestRule{
			{ID: "low", Name: "Shared", Priority: rules.PriorityLow, Rationale: "first", When: `headache`},
			{ID: "crit", Name: "Shared", Priority: rules.PriorityCritical, Rationale: "second", When: `headache`},
			{ID: "mod", Name: "Other", Priority: rules.PriorityModerate, Rationale: "other", When: `headache`},
		},
	}
	e := newEngine(t, c)

	recs := e.Compute(exam.Snapshot{Triage: exam.Triage{Headache: true}}).TestingRecommendations
	require.Len(t, recs, 2)
	assert.Equal(t, TestRecommendation{Name: "Other", Priority: rules.PriorityModerate, Rationale: "other"}, recs[0])
	assert.Equal(t, TestRecommendation{Name: "Shared", Priority: rules.PriorityLow, Rationale: "first"}, recs[1])
}

func TestRecommendFullCatalog(t *testing.T) {
	e := newEngine(t, catalog.Full())

	s := exam.Snapshot{
		Triage:       exam.Triage{ReducedAcuity: true},
		Pupils:       exam.Pupils{RAPDOS: exam.RAPD2},
		EOM:          exam.EOM{PainOnMovement: true},
		VisualFields: exam.VisualFields{Homonymous: true, TestType: exam.TestAutomated},
	}
	recs := e.Compute(s).TestingRecommendations

	count := 0
	for _, r := range recs {
		if r.Name == "MRI brain and orbits with contrast" {
			count++
			assert.Contains(t, r.Rationale, "demyelinating")
		}
		assert.NotEqual(t, "Swinging flashlight test", r.Name, "RAPD already graded")
	}
	assert.Equal(t, 1, count)

	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
}

func TestConcernRule(t *testing.T) {
	e := newEngine(t, catalog.Full())
	const name = "Comprehensive neuro-ophthalmology evaluation"

	has := func(recs []TestRecommendation) bool {
		for _, r := range recs {
			if r.Name == name {
				return true
			}
		}
		return false
	}

	// hasRAPD 2 + discPallor 2 + trauma 2
	assert.True(t, has(e.Compute(traumaSnapshot()).TestingRecommendations))

	// hasRAPD 2 + reducedAcuity 1 + acute 1
	below := exam.Snapshot{
		Triage: exam.Triage{ReducedAcuity: true, Acute: true},
		Pupils: exam.Pupils{RAPDOD: exam.RAPD1},
	}
	assert.False(t, has(e.Compute(below).TestingRecommendations))

	// One more point reaches the threshold.
	below.Triage.Painful = true
	assert.True(t, has(e.Compute(below).TestingRecommendations))
}

func TestAnisocoriaThresholdOption(t *testing.T) {
	c := catalog.Full()

	loose := newEngine(t, c, WithAnisocoriaThreshold(1.5))
	assert.Equal(t, features.DominanceDark, loose.Compute(hornerSnapshot()).Features.Dominance)

	strict := newEngine(t, c, WithAnisocoriaThreshold(2.5))
	fs := strict.Compute(hornerSnapshot()).Features
	assert.Equal(t, features.DominanceNone, fs.Dominance)
	assert.True(t, fs.PupilSparing)

	fallback := newEngine(t, c, WithAnisocoriaThreshold(-1))
	assert.Equal(t, features.DominanceDark, fallback.Compute(hornerSnapshot()).Features.Dominance)
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	bad := &rules.Catalog{
		Name:   "bad",
		Guards: []rules.Guard{{ID: "g", Level: rules.LevelInfo, Message: "m", When: `noSuchFeature`}},
	}
	_, err = New(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guards[g]")
}

func TestSharedRulesEngine(t *testing.T) {
	re, err := rules.NewEngine(features.Schema())
	require.NoError(t, err)

	full := newEngine(t, catalog.Full(), WithRulesEngine(re))
	cached := re.CachedPrograms()
	starter := newEngine(t, catalog.Starter(), WithRulesEngine(re))

	// The starter catalog is a subset, so nothing new is compiled.
	assert.Equal(t, cached, re.CachedPrograms())
	assert.Equal(t, full.Compute(traumaSnapshot()).Urgency, starter.Compute(traumaSnapshot()).Urgency)
}

func TestComputeWithSmallProgramCache(t *testing.T) {
	re, err := rules.NewEngineWithCacheSize(features.Schema(), 4)
	require.NoError(t, err)

	small := newEngine(t, catalog.Full(), WithRulesEngine(re))
	require.Equal(t, 4, re.CachedPrograms())
	compiles := re.Compiles()

	for _, s := range []exam.Snapshot{traumaSnapshot(), hornerSnapshot(), myastheniaSnapshot(), {}} {
		small.Compute(s)
	}

	assert.Equal(t, 4, re.CachedPrograms())
	assert.Equal(t, compiles, re.Compiles())

	// Evicted programs still evaluate to the same result.
	full := newEngine(t, catalog.Full())
	assert.Equal(t, full.Compute(traumaSnapshot()), small.Compute(traumaSnapshot()))
	assert.Equal(t, full.Compute(hornerSnapshot()), small.Compute(hornerSnapshot()))
}

func TestComputeConcurrently(t *testing.T) {
	e := newEngine(t, catalog.Full())
	want := e.Compute(traumaSnapshot())

	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Compute(traumaSnapshot())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestResultJSON(t *testing.T) {
	e := newEngine(t, catalog.Full())

	data, err := json.Marshal(e.Compute(exam.Snapshot{}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["differential"])
	assert.Contains(t, decoded, "testingRecommendations")
	assert.Equal(t, map[string]any{"level": "none", "message": MessageNoData}, decoded["urgency"])

	fs := decoded["features"].(map[string]any)
	assert.Nil(t, fs["dominance"])
	assert.Nil(t, fs["anisLight"])
}

func TestResultJSONExtremeDiameters(t *testing.T) {
	e := newEngine(t, catalog.Full())

	testCases := []struct {
		name string
		raw  string
	}{
		{"Opposite extremes", `{"pupils": {"odLight": 1.7e308, "osLight": -1.7e308, "odDark": 4, "osDark": 4}}`},
		{"Negative", `{"pupils": {"odLight": -3, "osLight": 3, "odDark": -1e308, "osDark": 1e308}}`},
		{"Strings", `{"pupils": {"odLight": "1e308", "osLight": "-1e308"}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s exam.Snapshot
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &s))

			result := e.Compute(s)
			assert.Nil(t, result.Features.AnisLight)
			assert.Equal(t, features.DominanceNone, result.Features.Dominance)

			_, err := json.Marshal(result)
			require.NoError(t, err)
		})
	}
}

func TestCompleteSnapshotFromJSON(t *testing.T) {
	e := newEngine(t, catalog.Full())

	raw := `{
		"triage": {"acute": "yes", "painful": 1},
		"pupils": {"odLight": "3.5", "osLight": 2.5, "odDark": 6, "osDark": "4.0", "ptosis": true, "dilationLag": "true"},
		"eom": {"abductionDeficit": null, "comitant": "nonsense"},
		"visualFields": {"reliability": "POOR", "testType": 42}
	}`
	var s exam.Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	result := e.Compute(s)
	assert.Equal(t, features.DominanceDark, result.Features.Dominance)
	assert.Equal(t, rules.LevelCritical, result.Urgency.Level)
	findCandidate(t, result.Differential, "Horner syndrome")
}
