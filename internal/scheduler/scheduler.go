// Package scheduler runs the periodic retry of undelivered admin alerts.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Retrier re-sends stored alerts and reports how many were delivered.
type Retrier interface {
	RetryPending(ctx context.Context, limit, maxAttempts int) (int, error)
}

// RunObserver is told about every retry run.
type RunObserver interface {
	ObserveRetryRun(delivered int, err error)
}

// Config wires a Scheduler.
type Config struct {
	Logger      *log.Logger
	Retrier     Retrier
	Observer    RunObserver
	Spec        string
	BatchSize   int
	MaxAttempts int
	// RunTimeout bounds one retry run; defaults to one minute.
	RunTimeout time.Duration
}

// Scheduler wraps robfig/cron and owns the retry job.
type Scheduler struct {
	cron        *cron.Cron
	logger      *log.Logger
	retrier     Retrier
	observer    RunObserver
	spec        string
	batchSize   int
	maxAttempts int
	runTimeout  time.Duration
}

func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	spec := strings.TrimSpace(cfg.Spec)
	if spec == "" {
		spec = "@every 10m"
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	timeout := cfg.RunTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLogger(cron.PrintfLogger(logger))),
		logger:      logger,
		retrier:     cfg.Retrier,
		observer:    cfg.Observer,
		spec:        spec,
		batchSize:   batch,
		maxAttempts: cfg.MaxAttempts,
		runTimeout:  timeout,
	}
}

// Start registers the retry job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Printf("notification retry scheduled: %s", s.spec)
	return nil
}

// Stop halts the loop and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Println("notification retry stopped")
}

// RunOnce performs a single retry pass.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.retrier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	delivered, err := s.retrier.RetryPending(ctx, s.batchSize, s.maxAttempts)
	if s.observer != nil {
		s.observer.ObserveRetryRun(delivered, err)
	}
	if err != nil {
		s.logger.Printf("notification retry failed: %v", err)
		return
	}
	if delivered > 0 {
		s.logger.Printf("notification retry delivered %d alert(s)", delivered)
	}
}
