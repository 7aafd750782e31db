package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: cli-pass
description: Creates one record and expects exactly one.
aggregate_id: A1
steps:
  - create:
      id: R1
assertions:
  - type: record_count
    count: 1
`

const failingScenario = `
name: cli-fail
description: Expects a count the chain never reaches.
aggregate_id: A1
steps:
  - create:
      id: R1
assertions:
  - type: record_count
    count: 2
`

func TestRunPassingScenarios(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ cli-pass")
	assert.Contains(t, buf.String(), "1 passed, 0 failed (1 total)")
}

func TestRunFailingScenario(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)
	writeScenario(t, tmpDir, "fail.yaml", failingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ cli-fail")
	assert.Contains(t, buf.String(), "✓ cli-pass")
	assert.Contains(t, buf.String(), "1 passed, 1 failed (2 total)")
	assert.Contains(t, buf.String(), "record_count")
}

func TestRunJSONOutput(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRunFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)
	writeScenario(t, tmpDir, "fail.yaml", failingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir, "--filter", "pass"})

	require.NoError(t, cmd.Execute(), "failing scenario must be filtered out")
	assert.Contains(t, buf.String(), "1 passed, 0 failed (1 total)")
}

func TestRunFilterMatchesNothing(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir, "--filter", "nope"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunBrokenScenarioIsCommandError(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "broken.yaml", brokenScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunHonorsEnvRetryBudget(t *testing.T) {
	flaky := `
name: cli-env-retry
description: Needs three attempts; the budget comes from the environment.
aggregate_id: A1
steps:
  - create:
      id: R1
      fail_first: 2
assertions:
  - type: record_count
    count: 1
`
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "flaky.yaml", flaky)

	t.Setenv("RIGGER_RETRY_MAX_ATTEMPTS", "2")
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{tmpDir})
	err := cmd.Execute()
	require.Error(t, err, "two attempts cannot survive two scripted failures")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	t.Setenv("RIGGER_RETRY_MAX_ATTEMPTS", "3")
	cmd = NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{tmpDir})
	require.NoError(t, cmd.Execute())
}

func TestRunRejectsInvalidRetryEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)

	t.Setenv("RIGGER_RETRY_MAX_ATTEMPTS", "0")
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{tmpDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunTraceOutput(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "pass.yaml", passingScenario)

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{tmpDir, "--trace"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"op": "create"`)
	assert.Contains(t, buf.String(), `"name": "cli-pass"`)
}
