package multicatalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/liamcoop/neurocds/rules"
)

const (
	maxDiagnoses     = 200
	maxTests         = 200
	maxGuards        = 100
	maxCriteria      = 50
	maxIdentifierLen = 100
	minWeight        = -10
	maxWeight        = 10
	maxCandidatesCap = 50
)

// identifierPattern allows lower-case words joined by hyphens or
// underscores, e.g. "cn3-compressive". Catalog names appear in URLs.
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateCatalog checks that a catalog is well-formed before it is
// compiled. Expression syntax and feature names are checked later by the
// CEL compiler.
func ValidateCatalog(c *rules.Catalog) error {
	if c == nil {
		return fmt.Errorf("catalog cannot be nil")
	}

	if err := validateIdentifier(c.Name); err != nil {
		return fmt.Errorf("invalid catalog name: %w", err)
	}

	if c.MaxCandidates < 1 || c.MaxCandidates > maxCandidatesCap {
		return fmt.Errorf("maxCandidates must be between 1 and %d, got %d", maxCandidatesCap, c.MaxCandidates)
	}

	if len(c.Diagnoses) == 0 && len(c.Tests) == 0 && len(c.Guards) == 0 {
		return fmt.Errorf("catalog cannot be empty")
	}

	if len(c.Diagnoses) > maxDiagnoses {
		return fmt.Errorf("catalog has %d diagnoses, maximum is %d", len(c.Diagnoses), maxDiagnoses)
	}
	if len(c.Tests) > maxTests {
		return fmt.Errorf("catalog has %d tests, maximum is %d", len(c.Tests), maxTests)
	}
	if len(c.Guards) > maxGuards {
		return fmt.Errorf("catalog has %d guards, maximum is %d", len(c.Guards), maxGuards)
	}

	if err := validateDiagnoses(c.Diagnoses); err != nil {
		return err
	}
	if err := validateTests(c.Tests); err != nil {
		return err
	}
	if c.Concern != nil {
		if err := validateConcern(c.Concern); err != nil {
			return fmt.Errorf("concern: %w", err)
		}
	}
	return validateGuards(c.Guards)
}

func validateDiagnoses(diagnoses []rules.ScoringRule) error {
	seen := make(map[string]bool, len(diagnoses))
	for _, d := range diagnoses {
		if err := validateIdentifier(d.ID); err != nil {
			return fmt.Errorf("invalid diagnosis id %q: %w", d.ID, err)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate diagnosis id %q", d.ID)
		}
		seen[d.ID] = true

		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("diagnoses[%s]: name cannot be empty", d.ID)
		}
		if d.MinScore < 0 {
			return fmt.Errorf("diagnoses[%s]: minScore cannot be negative", d.ID)
		}
		if err := validateCriteria(d.Criteria); err != nil {
			return fmt.Errorf("diagnoses[%s]: %w", d.ID, err)
		}
		for i, st := range d.NextSteps {
			if strings.TrimSpace(st.Text) == "" {
				return fmt.Errorf("diagnoses[%s].nextSteps[%d]: text cannot be empty", d.ID, i)
			}
		}
	}
	return nil
}

func validateCriteria(criteria []rules.Criterion) error {
	if len(criteria) == 0 {
		return fmt.Errorf("at least one criterion is required")
	}
	if len(criteria) > maxCriteria {
		return fmt.Errorf("%d criteria, maximum is %d", len(criteria), maxCriteria)
	}
	for i, cr := range criteria {
		if strings.TrimSpace(cr.When) == "" {
			return fmt.Errorf("criteria[%d]: when cannot be empty", i)
		}
		if cr.Weight == 0 {
			return fmt.Errorf("criteria[%d]: weight cannot be zero", i)
		}
		if cr.Weight < minWeight || cr.Weight > maxWeight {
			return fmt.Errorf("criteria[%d]: weight %d outside [%d, %d]", i, cr.Weight, minWeight, maxWeight)
		}
	}
	return nil
}

func validateTests(tests []rules.TestRule) error {
	seen := make(map[string]bool, len(tests))
	for _, t := range tests {
		if err := validateIdentifier(t.ID); err != nil {
			return fmt.Errorf("invalid test id %q: %w", t.ID, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate test id %q", t.ID)
		}
		seen[t.ID] = true

		if err := validateTest(t); err != nil {
			return fmt.Errorf("tests[%s]: %w", t.ID, err)
		}
		if strings.TrimSpace(t.When) == "" {
			return fmt.Errorf("tests[%s]: when cannot be empty", t.ID)
		}
	}
	return nil
}

func validateTest(t rules.TestRule) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", t.Priority)
	}
	return nil
}

func validateConcern(c *rules.Concern) error {
	if err := validateCriteria(c.Criteria); err != nil {
		return err
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %d", c.Threshold)
	}
	return validateTest(c.Test)
}

// validateGuards also requires guards to be listed most severe first. The
// cascade stops at the first match, so a milder guard listed earlier would
// hide a more severe one.
func validateGuards(guards []rules.Guard) error {
	seen := make(map[string]bool, len(guards))
	prev := rules.LevelCritical.Severity()
	for _, g := range guards {
		if err := validateIdentifier(g.ID); err != nil {
			return fmt.Errorf("invalid guard id %q: %w", g.ID, err)
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate guard id %q", g.ID)
		}
		seen[g.ID] = true

		if !g.Level.Valid() {
			return fmt.Errorf("guards[%s]: unknown level %q", g.ID, g.Level)
		}
		if strings.TrimSpace(g.Message) == "" {
			return fmt.Errorf("guards[%s]: message cannot be empty", g.ID)
		}
		if strings.TrimSpace(g.When) == "" {
			return fmt.Errorf("guards[%s]: when cannot be empty", g.ID)
		}

		sev := g.Level.Severity()
		if sev > prev {
			return fmt.Errorf("guards[%s]: level %s listed after a less severe guard", g.ID, g.Level)
		}
		prev = sev
	}
	return nil
}

// validateIdentifier checks a catalog name or rule ID
func validateIdentifier(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("identifier cannot be empty")
	}

	if len(name) > maxIdentifierLen {
		return fmt.Errorf("identifier '%s' exceeds maximum length of %d characters", name, maxIdentifierLen)
	}

	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier '%s' must be lower case letters, digits, '-' or '_', starting with a letter or digit", name)
	}

	return nil
}
