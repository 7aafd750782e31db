// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/rigger/retry"
)

// SilentLogger returns a logger that discards everything. Keeps test
// output readable when exercising failure paths that log.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RecordingSleeper captures backoff waits instead of sleeping, so tests
// can assert on retry-policy decisions without slowing down.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex, though retry policies only call Sleep from one goroutine.
type RecordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

// Sleep records the requested wait and returns immediately.
func (s *RecordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

// Waits returns a copy of the recorded waits in order.
func (s *RecordingSleeper) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.waits))
	copy(out, s.waits)
	return out
}

// NoDelayPolicy builds a retry policy with the given attempt budget and
// no waiting between attempts.
func NoDelayPolicy(maxAttempts int) *retry.Policy {
	return retry.New(
		retry.WithMaxAttempts(maxAttempts),
		retry.WithBackoff(retry.None()),
	)
}
