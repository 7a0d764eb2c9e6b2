// Package scheduler runs housekeeping jobs in the background of the web
// process, such as dropping expired in-memory sessions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job is a unit of periodic work.
type Job interface {
	// Name must be unique within a scheduler.
	Name() string

	// Run is cancelled when the scheduler stops.
	Run(ctx context.Context) error
}

// Schedule decides when a job runs next.
type Schedule interface {
	Next(t time.Time) time.Time
	String() string
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name.
func (j JobFunc) Name() string { return j.JobName }

// Run calls Fn.
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Result is the outcome of one execution.
type Result struct {
	JobName   string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// Registration and lifecycle errors.
var (
	ErrNilJob         = errors.New("scheduler: job cannot be nil")
	ErrNilSchedule    = errors.New("scheduler: schedule cannot be nil")
	ErrJobExists      = errors.New("scheduler: job already registered")
	ErrJobNotFound    = errors.New("scheduler: job not found")
	ErrAlreadyRunning = errors.New("scheduler: already running")
	ErrNotRunning     = errors.New("scheduler: not running")
	ErrJobBusy        = errors.New("scheduler: job is already running")
)

const defaultTick = time.Second

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

type entry struct {
	job      Job
	schedule Schedule
	nextRun  time.Time
	running  bool
	last     *Result
	runs     int64
	failures int64
}

// Scheduler polls its jobs and starts the ones that are due. A job never
// overlaps with itself.
type Scheduler struct {
	log  *logger.Logger
	now  func() time.Time
	tick time.Duration

	mu      sync.Mutex
	jobs    map[string]*entry
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTick sets how often due jobs are checked. Default: 1s
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// New creates an idle scheduler.
func New(log *logger.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		log:  log.With(logger.Component("scheduler")),
		now:  time.Now,
		tick: defaultTick,
		jobs: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. Its first run is one schedule step from now.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}
	e := &entry{job: job, schedule: schedule, nextRun: schedule.Next(s.now())}
	s.jobs[name] = e

	s.log.Info("job registered",
		logger.String("job", name),
		logger.String("schedule", schedule.String()),
		logger.String("next_run", e.nextRun.Format(time.RFC3339)))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────────────────

// Start launches the polling loop. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx)

	s.log.Info("scheduler started", logger.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

// IsRunning reports whether Start has been called without Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.jobs {
		if e.running || now.Before(e.nextRun) {
			continue
		}
		e.running = true
		e.nextRun = e.schedule.Next(now)
		s.wg.Add(1)
		go func(e *entry) {
			defer s.wg.Done()
			s.execute(ctx, e)
		}(e)
	}
}

func (s *Scheduler) execute(ctx context.Context, e *entry) Result {
	name := e.job.Name()
	start := s.now()

	err := e.job.Run(ctx)
	res := Result{JobName: name, StartedAt: start, Duration: s.now().Sub(start), Err: err}

	s.mu.Lock()
	e.running = false
	e.runs++
	if err != nil {
		e.failures++
	}
	e.last = &res
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed", logger.String("job", name), logger.Latency(res.Duration), logger.Err(err))
	} else {
		s.log.Debug("job completed", logger.String("job", name), logger.Latency(res.Duration))
	}
	return res
}

// RunNow executes a job immediately and synchronously, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) (Result, error) {
	s.mu.Lock()
	e, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if e.running {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("%w: %s", ErrJobBusy, name)
	}
	e.running = true
	s.mu.Unlock()

	return s.execute(ctx, e), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// JobInfo describes a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	NextRun  time.Time
	Runs     int64
	Failures int64
	Last     *Result
}

// Jobs lists registered jobs ordered by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for name, e := range s.jobs {
		info := JobInfo{
			Name:     name,
			Schedule: e.schedule.String(),
			NextRun:  e.nextRun,
			Runs:     e.runs,
			Failures: e.failures,
		}
		if e.last != nil {
			last := *e.last
			info.Last = &last
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
