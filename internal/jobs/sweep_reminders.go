// Package jobs contains the scheduled jobs run by the worker.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DukeRupert/duesoon/internal/service"
)

// SweepRemindersJob runs the reminder sweep on a schedule.
type SweepRemindersJob struct {
	sweeps service.SweepService
	logger *slog.Logger
}

// NewSweepRemindersJob creates a new job that runs the reminder sweep.
func NewSweepRemindersJob(sweeps service.SweepService, logger *slog.Logger) *SweepRemindersJob {
	return &SweepRemindersJob{sweeps: sweeps, logger: logger}
}

// Name returns the job identifier.
func (j *SweepRemindersJob) Name() string {
	return "sweep_reminders"
}

// Run executes one sweep. Per-item failures are part of the summary; only
// a sweep that could not load its items fails the job.
func (j *SweepRemindersJob) Run(ctx context.Context) error {
	summary, err := j.sweeps.Run(ctx)
	if err != nil {
		return fmt.Errorf("reminder sweep: %w", err)
	}

	if len(summary.Results) > 0 {
		j.logger.Info("Scheduled reminder sweep finished",
			"checked", summary.Checked,
			"matched", len(summary.Results),
			"sent", summary.Sent,
		)
	}
	return nil
}
