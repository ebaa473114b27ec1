package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/reminder"
)

// DefaultPollInterval is how often the agent refreshes its item list.
const DefaultPollInterval = time.Minute

// ItemSource supplies the current upcoming items.
type ItemSource interface {
	Upcoming(ctx context.Context) (*domain.UpcomingItems, error)
}

// Agent polls an ItemSource and reconciles a reminder scheduler whenever
// the item list changes.
type Agent struct {
	source    ItemSource
	scheduler *reminder.Scheduler
	interval  time.Duration
	logger    *slog.Logger

	fingerprint string
}

// NewAgent creates an Agent. A non-positive interval uses
// DefaultPollInterval.
func NewAgent(source ItemSource, scheduler *reminder.Scheduler, interval time.Duration, logger *slog.Logger) *Agent {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Agent{
		source:    source,
		scheduler: scheduler,
		interval:  interval,
		logger:    logger,
	}
}

// Run refreshes immediately and then on every tick until ctx is done. The
// scheduler is closed on return so no notification fires afterwards. A
// rejected token stops the agent; other refresh errors are logged and
// retried on the next tick.
func (a *Agent) Run(ctx context.Context) error {
	defer a.scheduler.Close()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		if _, err := a.Refresh(ctx); err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return err
			}
			if ctx.Err() == nil {
				a.logger.Warn("failed to refresh upcoming items", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh fetches the item list once and reconciles the scheduler if it
// changed. It reports whether a reconcile happened.
func (a *Agent) Refresh(ctx context.Context) (bool, error) {
	upcoming, err := a.source.Upcoming(ctx)
	if err != nil {
		return false, err
	}

	items := upcoming.All()
	fp := reminder.Fingerprint(items)
	if fp == a.fingerprint {
		return false, nil
	}
	a.fingerprint = fp

	pending := a.scheduler.Reconcile(items)
	a.logger.Info("reminder timers updated", "items", len(items), "pending", pending)
	return true, nil
}

// LogNotifier returns a Notifier that writes each reminder to the logger.
func LogNotifier(logger *slog.Logger) reminder.Notifier {
	return func(n domain.Notification) {
		logger.Info("REMINDER",
			"title", n.Title,
			"body", n.Body,
			"due_at", n.DueAt,
			"item", n.Item.String(),
			"offset", n.Offset,
		)
	}
}
