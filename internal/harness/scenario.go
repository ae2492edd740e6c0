package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end pipeline test: input expressions, the
// scripted engine responses, and expectations on the pipeline's shape.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Expressions are the raw input expressions, one result slot each.
	Expressions []string `yaml:"expressions"`

	// Variables is the declared parameter order. Optional; when empty the
	// referenced variables are used in sorted order.
	Variables []string `yaml:"variables,omitempty"`

	// Functions lists opaque function names. Optional.
	Functions []string `yaml:"functions,omitempty"`

	// FunctionName overrides the emitted C function's name. Optional.
	FunctionName string `yaml:"fun_name,omitempty"`

	// Responses scripts the engine, keyed by fragment body text. Fragments
	// without a response are echoed unchanged.
	Responses map[string]string `yaml:"responses,omitempty"`

	// ExpectFragments, when non-nil, asserts the decomposition's fragment
	// count before the engine runs.
	ExpectFragments *int `yaml:"expect_fragments,omitempty"`

	// ExpectSlots, when non-nil, asserts the final scratch-slot count.
	ExpectSlots *int `yaml:"expect_slots,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expresions:"
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
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Expressions) == 0 {
		return fmt.Errorf("expressions list is required and must be non-empty")
	}
	if s.ExpectFragments != nil && *s.ExpectFragments < 0 {
		return fmt.Errorf("expect_fragments must be non-negative")
	}
	if s.ExpectSlots != nil && *s.ExpectSlots < 0 {
		return fmt.Errorf("expect_slots must be non-negative")
	}
	return nil
}
