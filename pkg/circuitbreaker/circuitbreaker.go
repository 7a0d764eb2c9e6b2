// Package circuitbreaker stops calling a failing dependency for a while
// after repeated errors. The web process uses it around the mail relay so
// a dead relay does not add a full dial timeout to every registration.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the breaker position.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen admits a limited number of trial calls.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrOpen is returned without calling the dependency while the breaker is open.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrTrialInFlight is returned in half-open state once all trial slots are taken.
	ErrTrialInFlight = errors.New("circuit breaker trial already in flight")
)

// IsRejected reports whether err came from the breaker rather than the call.
func IsRejected(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrTrialInFlight)
}

// Config holds breaker settings.
type Config struct {
	Name string

	// FailureThreshold consecutive failures open the breaker. Default: 5
	FailureThreshold int

	// SuccessThreshold consecutive trial successes close it again. Default: 1
	SuccessThreshold int

	// CoolDown is how long the breaker stays open. Default: 30s
	CoolDown time.Duration

	// MaxTrials bounds concurrent half-open calls. Default: 1
	MaxTrials int

	// OnStateChange runs under the breaker lock; keep it short.
	OnStateChange func(name string, from, to State)

	// Now is the clock. Default: time.Now
	Now func() time.Time
}

// Option configures a breaker.
type Option func(*Config)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.FailureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many trial successes close the breaker.
func WithSuccessThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SuccessThreshold = n
		}
	}
}

// WithCoolDown sets the open-state duration.
func WithCoolDown(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.CoolDown = d
		}
	}
}

// WithMaxTrials sets the number of concurrent half-open calls.
func WithMaxTrials(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxTrials = n
		}
	}
}

// WithOnStateChange registers a transition callback.
func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(c *Config) {
		c.OnStateChange = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// Breaker is safe for concurrent use.
type Breaker struct {
	cfg Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	trials    int
	openedAt  time.Time
}

// New creates a closed breaker.
func New(name string, opts ...Option) *Breaker {
	cfg := Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		CoolDown:         30 * time.Second,
		MaxTrials:        1,
		Now:              time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Breaker{cfg: cfg}
}

// ForMailRelay returns the breaker used around SMTP delivery: three straight
// failures pause sending for a minute.
func ForMailRelay(onStateChange func(name string, from, to State)) *Breaker {
	return New("smtp-relay",
		WithFailureThreshold(3),
		WithCoolDown(time.Minute),
		WithOnStateChange(onStateChange),
	)
}

// Execute calls fn unless the breaker rejects it, and records the outcome.
// A cancelled ctx is not counted as a dependency failure.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	trial, err := b.admit()
	if err != nil {
		return err
	}

	err = fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if trial {
		b.trials--
	}
	switch {
	case err == nil:
		b.onSuccess()
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
	default:
		b.onFailure()
	}
	return err
}

func (b *Breaker) admit() (trial bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.cfg.Now().Sub(b.openedAt) < b.cfg.CoolDown {
			return false, ErrOpen
		}
		b.transition(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if b.trials >= b.cfg.MaxTrials {
			return false, ErrTrialInFlight
		}
		b.trials++
		return true, nil
	default:
		return false, nil
	}
}

func (b *Breaker) onSuccess() {
	b.failures = 0
	if b.state != StateHalfOpen {
		return
	}
	b.successes++
	if b.successes >= b.cfg.SuccessThreshold {
		b.transition(StateClosed)
	}
}

func (b *Breaker) onFailure() {
	b.successes = 0
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.openedAt = b.cfg.Now()
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.failures = 0
	b.successes = 0
	if to != StateHalfOpen {
		b.trials = 0
	}
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.cfg.Name
}

// Reset closes the breaker and clears counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
	b.trials = 0
}
