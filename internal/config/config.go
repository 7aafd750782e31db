// Package config loads rigger configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/rigger/retry"
)

// Retry holds environment-driven defaults for the retry policy used when
// a caller does not supply one explicitly.
type Retry struct {
	// MaxAttempts is the total invocation budget per wrapped operation.
	MaxAttempts int `env:"RIGGER_RETRY_MAX_ATTEMPTS" envDefault:"5"`

	// BackoffBase is the base b in the wait formula b^attempt seconds.
	BackoffBase float64 `env:"RIGGER_RETRY_BASE" envDefault:"3"`
}

// LoadRetry parses retry defaults from the environment.
func LoadRetry() (Retry, error) {
	var cfg Retry
	if err := env.Parse(&cfg); err != nil {
		return Retry{}, fmt.Errorf("parse retry env: %w", err)
	}
	if cfg.MaxAttempts < 1 {
		return Retry{}, fmt.Errorf("RIGGER_RETRY_MAX_ATTEMPTS must be >= 1, got %d", cfg.MaxAttempts)
	}
	if cfg.BackoffBase < 1 {
		return Retry{}, fmt.Errorf("RIGGER_RETRY_BASE must be >= 1, got %v", cfg.BackoffBase)
	}
	return cfg, nil
}

// Policy builds a retry policy from the loaded defaults.
func (r Retry) Policy() *retry.Policy {
	return retry.New(
		retry.WithMaxAttempts(r.MaxAttempts),
		retry.WithBackoff(retry.Power(r.BackoffBase)),
	)
}
