package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["validate"])
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "valid.yaml", validScenario)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", tmpDir, "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_AcceptsJSONFormat(t *testing.T) {
	tmpDir := t.TempDir()
	writeScenario(t, tmpDir, "valid.yaml", validScenario)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", tmpDir, "--format", "json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"status": "ok"`)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}

func TestMatchesFilter(t *testing.T) {
	assert.True(t, matchesFilter("chain-basic", ""))
	assert.True(t, matchesFilter("chain-basic", "basic"))
	assert.False(t, matchesFilter("chain-basic", "retry"))
}
