package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/clock"
	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/SscSPs/mortuary_billing_app/internal/middleware"
)

const (
	stateIdle int32 = iota
	stateRunning
)

const (
	triggerStartup = "startup"
	triggerTimer   = "timer"
	triggerManual  = "manual"
)

// Runner reconciles every open case.
type Runner interface {
	ReconcileAll(ctx context.Context, now time.Time) (*domain.BatchReport, error)
}

// Scheduler drives full reconciliation runs. At most one run is in flight;
// a trigger arriving while a run is active is dropped.
type Scheduler struct {
	runner Runner
	cfg    Config
	clock  clock.Clock
	log    *slog.Logger

	state atomic.Int32
	wg    sync.WaitGroup

	mu   sync.Mutex
	root context.Context
}

// New creates a scheduler. logger and clk may be nil.
func New(runner Runner, cfg Config, clk clock.Clock, logger *slog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		cfg:    cfg.withDefaults(),
		clock:  clk,
		log:    logger.With(slog.String("component", "reconciler")),
		root:   context.Background(),
	}
}

// Running reports whether a run is in flight.
func (s *Scheduler) Running() bool {
	return s.state.Load() == stateRunning
}

// Start runs the startup trigger after StartupDelay, then a run every
// Interval, until ctx is cancelled. It blocks.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.root = ctx
	s.mu.Unlock()

	s.log.Info("Reconciliation scheduler started",
		slog.Duration("startup_delay", s.cfg.StartupDelay),
		slog.Duration("interval", s.cfg.Interval),
		slog.Duration("run_timeout", s.cfg.RunTimeout))

	startup := time.NewTimer(s.cfg.StartupDelay)
	defer startup.Stop()
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reconciliation scheduler stopping")
			return
		case <-startup.C:
			s.tryRun(ctx, triggerStartup)
		case <-ticker.C:
			s.tryRun(ctx, triggerTimer)
		}
	}
}

// Trigger starts an on-demand run and returns immediately. It reports false
// when a run is already in flight. The run is bound to the scheduler's
// lifetime, not to ctx.
func (s *Scheduler) Trigger(ctx context.Context) bool {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()

	started := s.tryRun(root, triggerManual)
	if !started {
		middleware.GetLoggerFromCtx(ctx).Info("Reconciliation already running, manual trigger dropped")
	}
	return started
}

// Wait blocks until the in-flight run, if any, has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) tryRun(parent context.Context, trigger string) bool {
	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		s.log.Debug("Reconciliation tick dropped, previous run still active", slog.String("trigger", trigger))
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.state.Store(stateIdle)
		s.run(parent, trigger)
	}()
	return true
}

func (s *Scheduler) run(parent context.Context, trigger string) {
	log := s.log.With(slog.String("trigger", trigger))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(parent, log), s.cfg.RunTimeout)
	defer cancel()

	report, err := s.runner.ReconcileAll(ctx, s.clock.Now())

	// Deadline is a soft timeout: the cases already reconciled are kept.
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	switch {
	case err != nil && timedOut:
		log.Warn("Reconciliation run timed out", slog.Duration("timeout", s.cfg.RunTimeout), slog.String("error", err.Error()))
	case err != nil:
		log.Error("Reconciliation run failed", slog.String("error", err.Error()))
	case timedOut:
		log.Warn("Reconciliation run timed out",
			slog.Duration("timeout", s.cfg.RunTimeout),
			slog.String("run_id", report.RunID),
			slog.Int("processed", report.Processed))
	}
}
