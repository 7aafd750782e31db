package scenario

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is produced when a final-state assertion fails.
type AssertionError struct {
	Type     string // assertion type for categorization
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, &a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a *Assertion) error {
	switch a.Type {
	case AssertRecordCount:
		if result.RecordCount != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d records", a.Count),
				Actual:   fmt.Sprintf("%d records", result.RecordCount),
			}
		}

	case AssertKeyOrder:
		if !slices.Equal(result.Keys, a.Keys) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("keys %v", a.Keys),
				Actual:   fmt.Sprintf("keys %v", result.Keys),
			}
		}

	case AssertAggregateID:
		if result.AggregateID != a.ID {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("aggregate id %q", a.ID),
				Actual:   fmt.Sprintf("aggregate id %q", result.AggregateID),
			}
		}

	case AssertCleanupRecords:
		if !result.CleanupRan {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("cleanup received %v", a.Keys),
				Actual:   "cleanup never ran (scenario did not request it?)",
			}
		}
		if !slices.Equal(result.CleanupKeys, a.Keys) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("cleanup received %v", a.Keys),
				Actual:   fmt.Sprintf("cleanup received %v", result.CleanupKeys),
			}
		}
	}
	return nil
}
