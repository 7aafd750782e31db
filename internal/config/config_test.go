package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRetry_Defaults(t *testing.T) {
	cfg, err := LoadRetry()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 3.0, cfg.BackoffBase)
}

func TestLoadRetry_FromEnvironment(t *testing.T) {
	t.Setenv("RIGGER_RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("RIGGER_RETRY_BASE", "1.5")

	cfg, err := LoadRetry()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 1.5, cfg.BackoffBase)
}

func TestLoadRetry_RejectsZeroAttempts(t *testing.T) {
	t.Setenv("RIGGER_RETRY_MAX_ATTEMPTS", "0")

	_, err := LoadRetry()
	assert.Error(t, err)
}

func TestLoadRetry_RejectsBaseBelowOne(t *testing.T) {
	t.Setenv("RIGGER_RETRY_BASE", "0.5")

	_, err := LoadRetry()
	assert.Error(t, err)
}

func TestRetry_PolicyHonorsAttempts(t *testing.T) {
	cfg := Retry{MaxAttempts: 2, BackoffBase: 3}
	p := cfg.Policy()

	assert.Equal(t, 2, p.MaxAttempts())
}
