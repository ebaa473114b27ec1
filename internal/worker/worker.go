// Package worker runs background jobs on cron schedules.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Worker runs registered jobs on their schedules. A job never overlaps
// itself: a tick that arrives while the previous run is still going is
// skipped. Panics inside a job are recovered and logged.
type Worker struct {
	cron   *cron.Cron
	config Config
	logger *slog.Logger

	// baseCtx is canceled by Stop so running jobs see shutdown.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a new Worker with the given configuration.
// The worker must be started with Start() and stopped with Stop().
func New(config Config, logger *slog.Logger) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		cron:    c,
		config:  config,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
	}, nil
}

// Register schedules a job. The schedule uses standard cron syntax or a
// descriptor such as "@every 5m". Call this before Start().
func (w *Worker) Register(schedule string, job Job) error {
	if _, err := w.cron.AddFunc(schedule, func() { w.execute(job) }); err != nil {
		return fmt.Errorf("schedule job %s (%q): %w", job.Name(), schedule, err)
	}
	w.logger.Info("Registered scheduled job", "job", job.Name(), "schedule", schedule)
	return nil
}

// Start begins running scheduled jobs in the background.
func (w *Worker) Start() {
	w.cron.Start()
	w.logger.Info("Worker started", "jobs", len(w.cron.Entries()))
}

// Stop prevents new runs, cancels the context of running jobs and waits for
// them to return. It respects the configured ShutdownTimeout.
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	done := w.cron.Stop()
	w.cancel()

	select {
	case <-done.Done():
		w.logger.Info("Worker stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		w.logger.Warn("Worker shutdown timeout exceeded, some jobs may still be running")
	}
}

// RunNow executes a job once, synchronously, with the same timeout and
// bookkeeping as a scheduled run.
func (w *Worker) RunNow(job Job) error {
	return w.execute(job)
}

func (w *Worker) execute(job Job) error {
	logger := w.logger.With("job", job.Name())

	ctx, cancel := context.WithTimeout(w.baseCtx, w.config.JobTimeout)
	defer cancel()

	start := time.Now()
	logger.Debug("Running job")

	if err := job.Run(ctx); err != nil {
		metrics.JobFailed(job.Name(), time.Since(start))
		logger.Error("Job failed", "error", err, "duration", time.Since(start))
		return err
	}

	metrics.JobCompleted(job.Name(), time.Since(start))
	logger.Debug("Job completed", "duration", time.Since(start))
	return nil
}
