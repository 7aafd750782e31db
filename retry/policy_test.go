package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper captures backoff waits instead of sleeping.
func recordingSleeper(waits *[]time.Duration) Sleeper {
	return func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestPolicy_Do_SucceedsAfterTransientFailures(t *testing.T) {
	var waits []time.Duration
	p := New(
		WithMaxAttempts(5),
		WithBackoff(Constant(10*time.Millisecond)),
		WithSleeper(recordingSleeper(&waits)),
	)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls <= 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls, "should invoke exactly K+1 times for K failures")
	assert.Len(t, waits, 3, "should wait once per failed attempt")
}

func TestPolicy_Do_ExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	var waits []time.Duration
	p := New(
		WithMaxAttempts(3),
		WithBackoff(None()),
		WithSleeper(recordingSleeper(&waits)),
	)

	sentinel := errors.New("always fails")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return sentinel
	})

	assert.Equal(t, 3, calls, "should invoke exactly max-attempts times")
	assert.Same(t, sentinel, err, "last failure must propagate unchanged, no wrapping")
}

func TestPolicy_Do_FatalErrorNotRetried(t *testing.T) {
	p := New(WithMaxAttempts(5), WithBackoff(None()))

	sentinel := errors.New("type mismatch")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return Fatal(sentinel)
	})

	assert.Equal(t, 1, calls, "fatal failures must surface on the first attempt")
	assert.Same(t, sentinel, err, "fatal marker must be stripped before returning")
}

func TestPolicy_Do_RetryFilterRejectsError(t *testing.T) {
	sentinel := errors.New("permanent")
	p := New(
		WithMaxAttempts(5),
		WithBackoff(None()),
		WithRetryIf(func(err error) bool { return !errors.Is(err, sentinel) }),
	)

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return sentinel
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, sentinel, err)
}

func TestPolicy_Do_BackoffFollowsAttemptNumber(t *testing.T) {
	var waits []time.Duration
	p := New(
		WithMaxAttempts(4),
		WithBackoff(Linear(time.Second)),
		WithSleeper(recordingSleeper(&waits)),
	)

	err := p.Do(context.Background(), func() error { return errors.New("boom") })
	require.Error(t, err)

	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, waits)
}

func TestPolicy_Do_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Real timer sleeper, but cancelled context unblocks immediately.
	p := New(WithMaxAttempts(3), WithBackoff(Constant(time.Hour)))

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_Do_SuccessFirstAttempt(t *testing.T) {
	p := Default()

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts())
}

func TestWithMaxAttempts_ClampsToOne(t *testing.T) {
	p := New(WithMaxAttempts(0), WithBackoff(None()))

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFatal_Nil(t *testing.T) {
	assert.NoError(t, Fatal(nil))
}

func TestIsFatal_WrappedChain(t *testing.T) {
	inner := errors.New("inner")
	wrapped := Fatal(inner)

	assert.True(t, IsFatal(wrapped))
	assert.False(t, IsFatal(inner))
	assert.ErrorIs(t, wrapped, inner, "fatal marker must unwrap to the original error")
	assert.Same(t, inner, Unwrap(wrapped))
	assert.Same(t, inner, Unwrap(inner))
}
