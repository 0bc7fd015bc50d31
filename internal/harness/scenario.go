package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/navsplit/internal/feature/app"
)

// Scenario is a scripted sequence of user gestures with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario. It also keys the IDs of
	// entities created during the run and the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed is an optional CUE catalog path. LoadScenario resolves it
	// relative to the scenario file. Empty uses the embedded catalog.
	Seed string `yaml:"seed,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions are checked once after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one gesture plus the expectations checked right after it settles.
type Step struct {
	app.Step `yaml:",inline"`

	Expect []Assertion `yaml:"expect,omitempty"`
}

// Assertion checks one property of the state.
type Assertion struct {
	Type string `yaml:"type"`

	// List selects the list; empty means the visible one.
	List app.Tag `yaml:"list,omitempty"`

	// Target is an entity label (contains, absent) or an effect identity
	// (running, idle).
	Target string `yaml:"target,omitempty"`

	// Value is the expected text (destination, inspector, columns,
	// details, draft, modal).
	Value string `yaml:"value,omitempty"`

	// Count is the expected number (count, visible, activities).
	Count *int `yaml:"count,omitempty"`

	// Values is the expected label order (order).
	Values []string `yaml:"values,omitempty"`
}

// Assertion type constants.
const (
	AssertDestination = "destination"
	AssertInspector   = "inspector"
	AssertColumns     = "columns"
	AssertCount       = "count"
	AssertVisible     = "visible"
	AssertContains    = "contains"
	AssertAbsent      = "absent"
	AssertOrder       = "order"
	AssertDetails     = "details"
	AssertDraft       = "draft"
	AssertActivities  = "activities"
	AssertModal       = "modal"
	AssertRunning     = "running"
	AssertIdle        = "idle"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Seed != "" && !filepath.IsAbs(scenario.Seed) {
		scenario.Seed = filepath.Join(filepath.Dir(path), scenario.Seed)
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	verbs := app.Verbs()
	for i, step := range s.Steps {
		if step.Do == "" {
			return fmt.Errorf("steps[%d]: do is required", i)
		}
		if !slices.Contains(verbs, step.Do) {
			return fmt.Errorf("steps[%d]: unknown verb %q", i, step.Do)
		}
		if step.List != "" && !step.List.Valid() {
			return fmt.Errorf("steps[%d]: unknown list %q", i, step.List)
		}
		for j, a := range step.Expect {
			if err := validateAssertion(a); err != nil {
				return fmt.Errorf("steps[%d].expect[%d]: %w", i, j, err)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(a Assertion) error {
	if a.List != "" && !a.List.Valid() {
		return fmt.Errorf("unknown list %q", a.List)
	}

	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertDestination, AssertInspector, AssertColumns, AssertDetails, AssertDraft, AssertModal:
		if a.Value == "" {
			return fmt.Errorf("value is required for %s", a.Type)
		}
	case AssertCount, AssertVisible, AssertActivities:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("a non-negative count is required for %s", a.Type)
		}
	case AssertContains, AssertAbsent, AssertRunning, AssertIdle:
		if a.Target == "" {
			return fmt.Errorf("target is required for %s", a.Type)
		}
	case AssertOrder:
		if a.Values == nil {
			return fmt.Errorf("values is required for %s", a.Type)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
