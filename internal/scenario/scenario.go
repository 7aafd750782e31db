package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one declarative harness run.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden file
	// name, so the schema restricts it to kebab-case.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// AggregateID is the initial aggregate identifier for the service.
	AggregateID string `yaml:"aggregate_id"`

	// Relations selects the empty-store behavior of related-creation
	// steps: "skip" (default) or "strict".
	Relations string `yaml:"relations,omitempty"`

	// Retry tunes the per-run retry policy. Backoff waits are suppressed
	// during scenario runs to keep them fast and deterministic; only the
	// attempt budget is configurable.
	Retry *RetryConfig `yaml:"retry,omitempty"`

	// Cleanup requests a terminal cleanup call after the steps.
	Cleanup bool `yaml:"cleanup,omitempty"`

	// Steps is the ordered chain of orchestration operations.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RetryConfig tunes the scenario's retry policy.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// Step is a single chained operation. Exactly one field must be set.
type Step struct {
	Create           *CreateStep `yaml:"create,omitempty"`
	CreateRelated    *CreateStep `yaml:"create_related,omitempty"`
	CreateFromParent *CreateStep `yaml:"create_from_parent,omitempty"`
	CreateFromAll    *CreateStep `yaml:"create_from_all,omitempty"`
	AssignAggregate  *struct{}   `yaml:"assign_aggregate,omitempty"`
	Assert           *AssertStep `yaml:"assert,omitempty"`
	Exec             *ExecStep   `yaml:"exec,omitempty"`
	Wait             *WaitStep   `yaml:"wait,omitempty"`
	Pre              *struct{}   `yaml:"pre,omitempty"`
}

// CreateStep describes a scripted record creation.
type CreateStep struct {
	// ID is the identifier the scripted creator will return.
	ID string `yaml:"id"`

	// Kind tags the created row payload.
	Kind string `yaml:"kind,omitempty"`

	// FailFirst makes the creator fail its first N invocations, which
	// exercises the retry policy.
	FailFirst int `yaml:"fail_first,omitempty"`
}

// ExecStep describes a scripted action execution.
type ExecStep struct {
	// AgainstAggregate targets the aggregate identifier instead of the
	// last created record.
	AgainstAggregate bool `yaml:"against_aggregate,omitempty"`

	FailFirst int `yaml:"fail_first,omitempty"`
}

// WaitStep describes a scripted waitable condition.
type WaitStep struct {
	// SucceedAfter is the number of failing attempts before the wait
	// condition is satisfied.
	SucceedAfter int `yaml:"succeed_after,omitempty"`
}

// AssertStep describes a scripted validator invocation.
type AssertStep struct {
	FailFirst int `yaml:"fail_first,omitempty"`
}

// Assertion validates the final run state.
type Assertion struct {
	// Type selects the assertion:
	//   - "record_count": final record count equals Count
	//   - "key_order": record keys equal Keys, in order
	//   - "aggregate_id": final aggregate identifier equals ID
	//   - "cleanup_records": cleanup received exactly Keys, in order
	Type string `yaml:"type"`

	Count int      `yaml:"count,omitempty"`
	Keys  []string `yaml:"keys,omitempty"`
	ID    string   `yaml:"id,omitempty"`
}

// Assertion type constants.
const (
	AssertRecordCount    = "record_count"
	AssertKeyOrder       = "key_order"
	AssertAggregateID    = "aggregate_id"
	AssertCleanupRecords = "cleanup_records"
)

// LoadScenario reads, schema-validates, and parses a scenario YAML file.
// Returns an error if the file is malformed, fails the CUE schema,
// contains unknown fields (typos), or violates the step/assertion rules.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and decodes scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	// Structural pass: decode generically and unify with the CUE schema.
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateAgainstSchema(doc); err != nil {
		return nil, err
	}

	// Typed pass with strict field validation (catches typos the schema's
	// closed structs may express as mere incompleteness).
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks the rules the schema cannot express.
func validateScenario(s *Scenario) error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := make(map[string]bool)
	for i, step := range s.Steps {
		create, err := step.op()
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if create == nil {
			continue
		}
		if seen[create.ID] {
			return fmt.Errorf("steps[%d]: duplicate record id %q", i, create.ID)
		}
		seen[create.ID] = true
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(&a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

// op returns the step's create payload (nil for non-creating ops) after
// checking that exactly one operation is set.
func (st *Step) op() (*CreateStep, error) {
	var create *CreateStep
	count := 0
	for _, c := range []*CreateStep{st.Create, st.CreateRelated, st.CreateFromParent, st.CreateFromAll} {
		if c != nil {
			create = c
			count++
		}
	}
	if st.AssignAggregate != nil {
		count++
	}
	if st.Assert != nil {
		count++
	}
	if st.Exec != nil {
		count++
	}
	if st.Wait != nil {
		count++
	}
	if st.Pre != nil {
		count++
	}

	switch count {
	case 0:
		return nil, fmt.Errorf("step has no operation")
	case 1:
		return create, nil
	default:
		return nil, fmt.Errorf("step has %d operations, want exactly one", count)
	}
}

func validateAssertion(a *Assertion) error {
	switch a.Type {
	case AssertRecordCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for %s", a.Type)
		}
	case AssertKeyOrder, AssertCleanupRecords:
		if a.Keys == nil {
			return fmt.Errorf("keys list is required for %s", a.Type)
		}
	case AssertAggregateID:
		if a.ID == "" {
			return fmt.Errorf("id is required for %s", a.Type)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
