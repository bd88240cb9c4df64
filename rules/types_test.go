package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestPriorityRank verifies test priorities sort critical first
func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityCritical, PriorityHigh, PriorityModerate, PriorityLow, Priority("urgent")}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%q should rank before %q", order[i-1], order[i])
		}
	}
	if Priority("urgent").Valid() {
		t.Error("unknown priority should not be valid")
	}
	if !PriorityModerate.Valid() {
		t.Error("moderate should be valid")
	}
}

// TestLevelSeverity verifies urgency levels are totally ordered
func TestLevelSeverity(t *testing.T) {
	order := []Level{LevelNone, LevelInfo, LevelWarn, LevelDanger, LevelCritical}
	for i, l := range order {
		if l.Severity() != i {
			t.Errorf("%q.Severity() = %d, want %d", l, l.Severity(), i)
		}
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if Level("panic").Severity() != -1 {
		t.Error("unknown level should have severity -1")
	}
}

// TestCatalogExpressions verifies every condition is listed with its location
func TestCatalogExpressions(t *testing.T) {
	c := &Catalog{
		Name: "paths",
		Diagnoses: []ScoringRule{{
			ID:        "horner",
			Criteria:  []Criterion{{When: "a"}, {When: "b"}},
			NextSteps: []Step{{Text: "always"}, {When: "c", Text: "sometimes"}},
		}},
		Tests: []TestRule{{ID: "mri", When: "d"}},
		Concern: &Concern{
			Criteria: []Criterion{{When: "e"}},
		},
		Guards: []Guard{{ID: "g", When: "f"}},
	}

	got := c.Expressions()
	want := []Expression{
		{Path: "diagnoses[horner].criteria[0]", Source: "a"},
		{Path: "diagnoses[horner].criteria[1]", Source: "b"},
		{Path: "diagnoses[horner].nextSteps[1]", Source: "c"},
		{Path: "tests[mri]", Source: "d"},
		{Path: "concern.criteria[0]", Source: "e"},
		{Path: "guards[g]", Source: "f"},
	}

	if len(got) != len(want) {
		t.Fatalf("Expressions() returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expressions()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

const yamlCatalog = `
name: tiny
description: Two rules
maxCandidates: 3
diagnoses:
  - id: d1
    name: First
    category: pupil
    minScore: 2
    criteria:
      - when: flag
        weight: 2
        evidence: Flag set
    nextSteps:
      - text: Do something
tests:
  - id: t1
    name: A test
    priority: high
    rationale: Because
    when: other
guards:
  - id: g1
    level: warn
    message: Careful
    when: flag && other
`

// TestLoadCatalogFile verifies YAML and JSON catalog files load
func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "tiny.yaml")
	if err := os.WriteFile(yamlPath, []byte(yamlCatalog), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalogFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadCatalogFile(yaml) failed: %v", err)
	}
	if c.Name != "tiny" || c.MaxCandidates != 3 {
		t.Errorf("unexpected catalog header: %+v", c)
	}
	if len(c.Diagnoses) != 1 || c.Diagnoses[0].MinScore != 2 || c.Diagnoses[0].Criteria[0].Weight != 2 {
		t.Errorf("unexpected diagnoses: %+v", c.Diagnoses)
	}
	if len(c.Tests) != 1 || c.Tests[0].Priority != PriorityHigh {
		t.Errorf("unexpected tests: %+v", c.Tests)
	}
	if len(c.Guards) != 1 || c.Guards[0].Level != LevelWarn {
		t.Errorf("unexpected guards: %+v", c.Guards)
	}

	jsonPath := filepath.Join(dir, "tiny.json")
	jsonData := `{"name":"tiny","maxCandidates":2,"diagnoses":[],"tests":[],"guards":[{"id":"g","level":"info","message":"m","when":"flag"}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonData), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err = LoadCatalogFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadCatalogFile(json) failed: %v", err)
	}
	if c.MaxCandidates != 2 || len(c.Guards) != 1 {
		t.Errorf("unexpected catalog: %+v", c)
	}
}

// TestLoadCatalogFileErrors verifies malformed files are rejected
func TestLoadCatalogFileErrors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"Unknown YAML field", "a.yaml", "name: x\nbogus: 1\n", "invalid catalog YAML"},
		{"Unknown JSON field", "a.json", `{"name":"x","bogus":1}`, "invalid catalog JSON"},
		{"Broken JSON", "b.json", `{"name":`, "invalid catalog JSON"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := filepath.Join(dir, tc.file)
			if err := os.WriteFile(p, []byte(tc.content), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadCatalogFile(p)
			if err == nil {
				t.Fatal("LoadCatalogFile() should fail")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("error %q should contain %q", err, tc.errMsg)
			}
		})
	}

	if _, err := LoadCatalogFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
