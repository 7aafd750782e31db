package retry

import (
	"math"
	"time"
)

// Backoff maps a completed attempt number (1-based) to the wait duration
// before the next attempt.
type Backoff func(attempt int) time.Duration

// Power waits base^attempt seconds. This is the default strategy: with
// base 3 the waits are 3s, 9s, 27s, 81s between five attempts.
func Power(base float64) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return time.Duration(math.Pow(base, float64(attempt)) * float64(time.Second))
	}
}

// Constant waits the same duration after every attempt.
func Constant(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// Linear waits d, 2d, 3d, ...
func Linear(d time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return time.Duration(attempt) * d
	}
}

// Exponential waits d, 2d, 4d, 8d, ...
func Exponential(d time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return d << uint(attempt-1)
	}
}

// None disables waiting between attempts. Used by the scenario runner and
// tests where real sleeps would only slow things down.
func None() Backoff {
	return func(int) time.Duration { return 0 }
}
