package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/service"
)

// DefaultDispatchLogRetention is how long dispatch log rows are kept.
const DefaultDispatchLogRetention = 90 * 24 * time.Hour

// PruneDispatchLogJob deletes dispatch log rows older than the retention.
type PruneDispatchLogJob struct {
	log       service.DispatchLog
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewPruneDispatchLogJob creates a new pruning job. A non-positive
// retention uses DefaultDispatchLogRetention.
func NewPruneDispatchLogJob(log service.DispatchLog, retention time.Duration, logger *slog.Logger) *PruneDispatchLogJob {
	if retention <= 0 {
		retention = DefaultDispatchLogRetention
	}
	return &PruneDispatchLogJob{
		log:       log,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Name returns the job identifier.
func (j *PruneDispatchLogJob) Name() string {
	return "prune_dispatch_log"
}

// Run deletes expired rows.
func (j *PruneDispatchLogJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)

	deleted, err := j.log.PruneDispatchLog(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune dispatch log: %w", err)
	}

	if deleted > 0 {
		j.logger.Info("Pruned dispatch log", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
