// Package retry runs operations with exponential backoff and jitter.
// It is used for startup connections to PostgreSQL and Redis, which may
// come up after the web process in container deployments.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// PermanentError stops retrying immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so no further attempts are made.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Config holds the backoff schedule. Every error except a PermanentError
// is retried.
type Config struct {
	// MaxAttempts includes the first attempt. Default: 3
	MaxAttempts int

	// InitialDelay is the wait before the first retry. Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts. Default: 30s
	MaxDelay time.Duration

	// Multiplier grows the delay after each attempt. Default: 2.0
	Multiplier float64

	// JitterFactor in [0,1] randomizes delays. Default: 0.1
	JitterFactor float64

	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Option configures a Retrier.
type Option func(*Config)

// WithMaxAttempts sets the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithBackoff sets the first delay, the cap and the growth factor.
// Non-positive values keep the current setting.
func WithBackoff(initial, maxDelay time.Duration, multiplier float64) Option {
	return func(c *Config) {
		if initial > 0 {
			c.InitialDelay = initial
		}
		if maxDelay > 0 {
			c.MaxDelay = maxDelay
		}
		if multiplier >= 1.0 {
			c.Multiplier = multiplier
		}
	}
}

// WithJitter sets the jitter factor (0.0 to 1.0).
func WithJitter(j float64) Option {
	return func(c *Config) {
		if j >= 0 && j <= 1.0 {
			c.JitterFactor = j
		}
	}
}

// WithOnRetry sets a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

// Retrier is stateless and safe for concurrent use.
type Retrier struct {
	config Config
}

// New creates a Retrier.
func New(opts ...Option) *Retrier {
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Retrier{config: cfg}
}

// StartupRetrier gives a dependency roughly ten seconds to come up.
func StartupRetrier(onRetry func(attempt int, err error, delay time.Duration)) *Retrier {
	return New(
		WithMaxAttempts(5),
		WithBackoff(500*time.Millisecond, 5*time.Second, 2.0),
		WithJitter(0.2),
		WithOnRetry(onRetry),
	)
}

// Do calls op until it succeeds, returns a permanent error, or the attempt
// budget is spent. The last error from op is returned with any
// PermanentError wrapper removed. If ctx ends before op ever ran, ctx.Err()
// is returned.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			if last == nil {
				return ctx.Err()
			}
			return last
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		var pe *PermanentError
		if errors.As(err, &pe) && err == error(pe) {
			return pe.Err
		}
		if IsPermanent(err) || attempt >= r.config.MaxAttempts {
			return err
		}
		last = err

		wait := r.backoff(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, wait)
		}
		if !sleep(ctx, wait) {
			return last
		}
	}
}

func (r *Retrier) backoff(attempt int) time.Duration {
	d := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	d = math.Min(d, float64(r.config.MaxDelay))
	if j := r.config.JitterFactor; j > 0 {
		d += d * j * (rand.Float64()*2 - 1)
	}
	return time.Duration(math.Max(d, 0))
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
