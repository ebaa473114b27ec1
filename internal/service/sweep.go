package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/archive"
	"github.com/DukeRupert/duesoon/internal/dispatch"
	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/metrics"
	"github.com/DukeRupert/duesoon/internal/reminder"
	"github.com/DukeRupert/duesoon/internal/usage"
)

// =============================================================================
// Configuration
// =============================================================================

const (
	// DefaultDispatchTimeout bounds a single gateway call.
	DefaultDispatchTimeout = 10 * time.Second
)

// SweepConfig tunes a sweep.
type SweepConfig struct {
	// DispatchTimeout bounds how long a sweep waits on one gateway call.
	DispatchTimeout time.Duration

	// Horizon is how far ahead of now items are loaded.
	Horizon time.Duration
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = DefaultDispatchTimeout
	}
	if c.Horizon <= 0 {
		c.Horizon = reminder.LookaheadHorizon
	}
	return c
}

// SweepDeps are the collaborators of a sweep. DispatchLog and Archive are
// optional.
type SweepDeps struct {
	Store       ReminderStore
	Quota       QuotaService
	Usage       usage.Counter
	Gateway     dispatch.Gateway
	DispatchLog DispatchLog
	Archive     archive.Archive
}

// =============================================================================
// Interface Definition
// =============================================================================

// SweepService runs the server-side reminder sweep.
type SweepService interface {
	// Run selects due items, dispatches at most one reminder per item and
	// reports every matched item's outcome. Only a failure to load items
	// fails the run; per-item failures are reported in the summary.
	Run(ctx context.Context) (*domain.SweepSummary, error)
}

// =============================================================================
// Implementation
// =============================================================================

type sweepService struct {
	deps   SweepDeps
	cfg    SweepConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSweepService creates a new SweepService.
func NewSweepService(deps SweepDeps, cfg SweepConfig, logger *slog.Logger) SweepService {
	return &sweepService{
		deps:   deps,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

func (s *sweepService) Run(ctx context.Context) (*domain.SweepSummary, error) {
	const op = "sweep.run"

	started := s.now()

	items, err := s.deps.Store.ListDueItems(ctx, started, started.Add(s.cfg.Horizon))
	if err != nil {
		metrics.SweepFailed(time.Since(started))
		s.logger.Error("reminder sweep aborted: failed to load due items", "error", err)
		return nil, domain.Internal(err, op, "failed to load due items")
	}

	summary := &domain.SweepSummary{
		StartedAt: started,
		Checked:   len(items),
		Results:   []domain.SweepResult{},
	}

	// Bookkeeping writes must land even if ctx is cancelled mid-sweep.
	detached := context.WithoutCancel(ctx)

	// Items are processed one at a time so quota checks see the usage
	// increments of earlier items in the same sweep. Cancellation is only
	// honoured between items: an item that was never marked stays due for
	// the next sweep, while a marked one is always seen through.
	for i, due := range items {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("reminder sweep interrupted; remaining items left for the next sweep",
				"remaining", len(items)-i,
				"error", err,
			)
			break
		}

		offset, ok := reminder.MatchOffset(due.Item, started)
		if !ok {
			continue
		}

		result, meta := s.process(ctx, due, offset, started)
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.Sent++
		}

		metrics.ReminderOutcome(string(result.Kind), string(result.Reason))
		s.recordDispatch(detached, result, meta)
	}

	summary.FinishedAt = s.now()
	metrics.SweepCompleted(summary.FinishedAt.Sub(started), summary.Checked)

	s.archiveSummary(detached, summary)

	s.logger.Info("reminder sweep completed",
		"checked", summary.Checked,
		"matched", len(summary.Results),
		"sent", summary.Sent,
		"quota_exceeded", summary.Count(domain.ReasonQuotaExceeded),
		"failed", summary.Count(domain.ReasonDispatchFailed)+summary.Count(domain.ReasonMarkFailed)+summary.Count(domain.ReasonQuotaCheckFailed),
		"duration", summary.FinishedAt.Sub(started),
	)

	return summary, nil
}

// process handles one matched (item, offset): mark, gate, send, count.
// The offset is marked before anything else, so a failure later in the
// pipeline leaves it marked and it is never retried automatically.
func (s *sweepService) process(ctx context.Context, due DueItem, offset int, now time.Time) (domain.SweepResult, map[string]string) {
	key := due.Item.Key()
	result := domain.SweepResult{
		ItemID: key.ID,
		Kind:   key.Kind,
		UserID: due.Owner.ID,
		Offset: offset,
	}
	logger := s.logger.With(
		"item_id", key.ID,
		"item_kind", key.Kind,
		"user_id", due.Owner.ID,
		"offset", offset,
	)

	marked, err := s.deps.Store.MarkOffsetSent(ctx, key, offset)
	if err != nil {
		logger.Error("failed to mark reminder offset sent", "error", err)
		result.Reason = domain.ReasonMarkFailed
		result.Error = err.Error()
		return result, nil
	}
	if !marked {
		logger.Debug("reminder offset already sent by another sweep")
		result.Reason = domain.ReasonAlreadySent
		return result, nil
	}

	// The offset is now spent. Abandoning it on caller cancellation would
	// lose the reminder for good, so the rest runs detached and only the
	// dispatch timeout bounds it.
	ctx = context.WithoutCancel(ctx)

	quota, err := s.deps.Quota.StatusAt(ctx, &due.Owner, now)
	if err != nil {
		logger.Error("quota check failed", "error", err)
		result.Reason = domain.ReasonQuotaCheckFailed
		result.Error = err.Error()
		return result, nil
	}
	if !quota.CanCreateReminder {
		qe := domain.QuotaExceeded("sweep.process", quota.PlanType, quota.Usage, quota.Limit)
		logger.Info("reminder skipped: monthly quota exhausted",
			"usage", quota.Usage,
			"limit", quota.Limit,
			"plan", quota.PlanType,
		)
		result.Reason = domain.ReasonQuotaExceeded
		result.Error = qe.Message
		return result, nil
	}

	n := due.Item.Notification(offset)
	outcome := s.send(ctx, dispatch.NewPayload(due.Owner.Recipient(), n))
	result.StatusCode = outcome.StatusCode
	if !outcome.OK {
		logger.Warn("reminder dispatch failed",
			"status_code", outcome.StatusCode,
			"error", outcome.ErrorMessage,
		)
		result.Reason = domain.ReasonDispatchFailed
		result.Error = outcome.ErrorMessage
		return result, n.Metadata
	}

	result.Success = true
	result.Reason = domain.ReasonSent

	monthKey := domain.MonthKey(now)
	if _, err := s.deps.Usage.Increment(ctx, due.Owner.ID, monthKey); err != nil {
		// The reminder went out; only the count is lost.
		logger.Error("failed to increment reminder usage", "month", monthKey, "error", err)
	}

	logger.Info("reminder sent")
	return result, n.Metadata
}

// send calls the gateway under the dispatch timeout. It stops waiting when
// the deadline passes even if the gateway ignores its context. An outcome
// that is already available wins over the deadline.
func (s *sweepService) send(ctx context.Context, p dispatch.Payload) dispatch.Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan dispatch.Outcome, 1)
	go func() {
		done <- s.deps.Gateway.Send(ctx, p)
	}()

	select {
	case outcome := <-done:
		return s.observed(outcome, start)
	case <-ctx.Done():
		select {
		case outcome := <-done:
			return s.observed(outcome, start)
		default:
		}
		metrics.DispatchObserved("timeout", time.Since(start))
		return dispatch.Failed(0, "dispatch timed out after %s", s.cfg.DispatchTimeout)
	}
}

func (s *sweepService) observed(outcome dispatch.Outcome, start time.Time) dispatch.Outcome {
	status := "ok"
	if !outcome.OK {
		status = "failed"
	}
	metrics.DispatchObserved(status, time.Since(start))
	return outcome
}

func (s *sweepService) recordDispatch(ctx context.Context, result domain.SweepResult, meta map[string]string) {
	if s.deps.DispatchLog == nil {
		return
	}
	if err := s.deps.DispatchLog.RecordDispatch(ctx, DispatchRecord{Result: result, Metadata: meta}); err != nil {
		s.logger.Warn("failed to record dispatch outcome",
			"item_id", result.ItemID,
			"reason", result.Reason,
			"error", err,
		)
	}
}

func (s *sweepService) archiveSummary(ctx context.Context, summary *domain.SweepSummary) {
	if s.deps.Archive == nil || len(summary.Results) == 0 {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn("failed to encode sweep report", "error", err)
		return
	}

	key := archive.SweepKey(summary.StartedAt)
	if err := s.deps.Archive.Put(ctx, key, data); err != nil {
		s.logger.Warn("failed to archive sweep report", "key", key, "error", err)
		return
	}
	s.logger.Debug("sweep report archived", "key", key)
}
