package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fast(opts ...Option) *Retrier {
	return New(append([]Option{WithBackoff(time.Millisecond, 2*time.Millisecond, 2.0)}, opts...)...)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fast(WithMaxAttempts(5)).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsAndUnwraps(t *testing.T) {
	calls := 0
	err := fast().Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errBoom)
	})

	assert.Equal(t, errBoom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_WrappedPermanentKeepsChain(t *testing.T) {
	calls := 0
	err := fast().Do(context.Background(), func(context.Context) error {
		calls++
		return errors.Join(errors.New("dial"), Permanent(errBoom))
	})

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	var retried []int
	calls := 0
	err := fast(WithMaxAttempts(3), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	})).Do(context.Background(), func(context.Context) error {
		calls++
		return errBoom
	})

	assert.Equal(t, errBoom, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := fast().Do(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDo_CancelDuringWaitReturnsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(WithBackoff(time.Hour, time.Hour, 1.0), WithJitter(0), WithOnRetry(func(int, error, time.Duration) {
		cancel()
	}))

	err := r.Do(ctx, func(context.Context) error { return errBoom })
	assert.Equal(t, errBoom, err)
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	r := New(WithBackoff(100*time.Millisecond, 300*time.Millisecond, 2.0), WithJitter(0))

	assert.Equal(t, 100*time.Millisecond, r.backoff(1))
	assert.Equal(t, 200*time.Millisecond, r.backoff(2))
	assert.Equal(t, 300*time.Millisecond, r.backoff(3))
}

func TestStartupRetrier(t *testing.T) {
	r := StartupRetrier(nil)

	assert.Equal(t, 5, r.config.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, r.config.InitialDelay)
	assert.Equal(t, 5*time.Second, r.config.MaxDelay)
}
