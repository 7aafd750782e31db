package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its canonical trace
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files:
//
//	go test ./internal/scenario -update
//
// Returns the result so callers can make further assertions; returns an
// error only when the scenario itself could not be run or serialized.
// Trace drift fails the test via goldie.
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return nil, err
	}

	b, err := Snapshot(s, result).MarshalCanonical()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, s.Name, b)
	return result, nil
}
