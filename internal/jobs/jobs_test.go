package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sweepStub struct {
	summary *domain.SweepSummary
	err     error
	calls   int
}

func (s *sweepStub) Run(ctx context.Context) (*domain.SweepSummary, error) {
	s.calls++
	return s.summary, s.err
}

type dispatchLogStub struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (s *dispatchLogStub) RecordDispatch(ctx context.Context, rec service.DispatchRecord) error {
	return nil
}

func (s *dispatchLogStub) PruneDispatchLog(ctx context.Context, before time.Time) (int64, error) {
	s.cutoff = before
	return s.deleted, s.err
}

func TestSweepRemindersJob_Run(t *testing.T) {
	stub := &sweepStub{summary: &domain.SweepSummary{
		Checked: 3,
		Sent:    1,
		Results: []domain.SweepResult{{Success: true, Reason: domain.ReasonSent}},
	}}
	job := NewSweepRemindersJob(stub, testLogger())

	assert.Equal(t, "sweep_reminders", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, stub.calls)
}

func TestSweepRemindersJob_SourceFailure(t *testing.T) {
	cause := domain.Internal(errors.New("connection refused"), "sweep.run", "failed to load due items")
	job := NewSweepRemindersJob(&sweepStub{err: cause}, testLogger())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestPruneDispatchLogJob_Run(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	stub := &dispatchLogStub{deleted: 42}

	job := NewPruneDispatchLogJob(stub, 0, testLogger())
	job.now = func() time.Time { return now }

	assert.Equal(t, "prune_dispatch_log", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.Add(-DefaultDispatchLogRetention), stub.cutoff)
}

func TestPruneDispatchLogJob_CustomRetentionAndError(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	stub := &dispatchLogStub{err: errors.New("statement timeout")}

	job := NewPruneDispatchLogJob(stub, 7*24*time.Hour, testLogger())
	job.now = func() time.Time { return now }

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement timeout")
	assert.Equal(t, now.AddDate(0, 0, -7), stub.cutoff)
}
