package retry

import (
	"context"
	"errors"
	"time"
)

// Defaults for the stock policy: five attempts with 3^attempt second waits.
const (
	DefaultMaxAttempts = 5
	DefaultBackoffBase = 3.0
)

// Sleeper waits for the given duration or until the context is cancelled.
// The production sleeper uses a timer; tests inject a recording fake.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy re-executes failing work according to a fixed attempt budget,
// backoff strategy, and retry filter. A Policy is immutable once built
// and safe to share between services.
type Policy struct {
	maxAttempts int
	backoff     Backoff
	retryIf     func(error) bool
	sleep       Sleeper
}

// Option configures a Policy at construction time.
type Option func(*Policy)

// WithMaxAttempts sets the total number of invocations (not re-tries).
// Values below 1 are treated as 1.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		if n < 1 {
			n = 1
		}
		p.maxAttempts = n
	}
}

// WithBackoff sets the wait strategy between attempts.
func WithBackoff(b Backoff) Option {
	return func(p *Policy) {
		if b != nil {
			p.backoff = b
		}
	}
}

// WithRetryIf sets the filter deciding which failures are retried.
// Fatal-marked errors are never retried regardless of the filter.
func WithRetryIf(f func(error) bool) Option {
	return func(p *Policy) {
		if f != nil {
			p.retryIf = f
		}
	}
}

// WithSleeper replaces the timer-based sleeper. Test hook.
func WithSleeper(s Sleeper) Option {
	return func(p *Policy) {
		if s != nil {
			p.sleep = s
		}
	}
}

// New builds a Policy. With no options it matches Default().
func New(opts ...Option) *Policy {
	p := &Policy{
		maxAttempts: DefaultMaxAttempts,
		backoff:     Power(DefaultBackoffBase),
		retryIf:     func(error) bool { return true },
		sleep:       timerSleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the stock policy: 5 attempts, 3^attempt second waits,
// retrying every non-fatal failure.
func Default() *Policy {
	return New()
}

// MaxAttempts returns the configured attempt budget.
func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}

// Do runs fn until it succeeds or the attempt budget is exhausted.
//
// On a failure that is fatal-marked or rejected by the retry filter, the
// error is returned immediately. On exhaustion the error from the final
// attempt is returned unchanged. If the context is cancelled while waiting
// between attempts, the context error is returned.
func (p *Policy) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if IsFatal(err) || !p.retryIf(err) || attempt >= p.maxAttempts {
			return Unwrap(err)
		}
		if serr := p.sleep(ctx, p.backoff(attempt)); serr != nil {
			return serr
		}
	}
}

func timerSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fatalError marks a failure as non-retryable.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }

func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as non-retryable. Do returns the underlying error
// unchanged after the first attempt. Fatal(nil) returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err (or anything it wraps) is fatal-marked.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

// Unwrap strips a fatal marker, returning the original error. Non-fatal
// errors pass through untouched.
func Unwrap(err error) error {
	var fe *fatalError
	if errors.As(err, &fe) {
		return fe.err
	}
	return err
}
