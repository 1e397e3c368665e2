package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval replaces a non-positive interval
const DefaultInterval = 30 * time.Second

// Func is the work run on every tick
type Func func(ctx context.Context) error

// Task runs a function at a fixed interval. A tick that comes while the
// previous run is still active is skipped rather than queued.
type Task struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       Func
	logger   *zap.Logger

	running atomic.Bool
	skipped atomic.Int64
	wg      sync.WaitGroup
}

// Option configures a Task
type Option func(*Task)

// WithTimeout bounds every run
func WithTimeout(timeout time.Duration) Option {
	return func(t *Task) {
		t.timeout = timeout
	}
}

// WithLogger sets the logger of the task
func WithLogger(logger *zap.Logger) Option {
	return func(t *Task) {
		t.logger = logger
	}
}

// New creates a task. A non-positive interval falls back to DefaultInterval.
func New(name string, interval time.Duration, fn Func, opts ...Option) *Task {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes the task immediately, then on every tick until ctx is done.
// It waits for the last run to finish before returning.
func (t *Task) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	defer t.wg.Wait()

	t.logger.Debug("poller started", zap.String("task", t.name), zap.Duration("interval", t.interval))

	t.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("poller stopped", zap.String("task", t.name))
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// Interval returns the effective interval of the task
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Start runs the task in the background
func (t *Task) Start(ctx context.Context) {
	go t.Run(ctx)
}

// Skipped returns how many ticks were dropped because a run was active
func (t *Task) Skipped() int64 {
	return t.skipped.Load()
}

func (t *Task) tick(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		t.skipped.Add(1)
		t.logger.Debug("poller tick skipped", zap.String("task", t.name))
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.running.Store(false)

		runCtx := ctx
		if t.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, t.timeout)
			defer cancel()
		}

		if err := t.fn(runCtx); err != nil && ctx.Err() == nil {
			t.logger.Warn("poller run failed", zap.String("task", t.name), zap.Error(err))
		}
	}()
}
