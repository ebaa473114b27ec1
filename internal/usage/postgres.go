package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DukeRupert/duesoon/internal/repository"
	"github.com/google/uuid"
)

// usageQueries is the subset of repository.Queries the counter needs.
type usageQueries interface {
	GetReminderUsage(ctx context.Context, arg repository.GetReminderUsageParams) (int64, error)
	IncrementReminderUsage(ctx context.Context, arg repository.IncrementReminderUsageParams) (int64, error)
}

// PostgresCounter stores counts in the reminder_usage table. Increment is a
// single upsert, so concurrent increments never lose an update.
type PostgresCounter struct {
	queries usageQueries
}

func NewPostgresCounter(queries usageQueries) *PostgresCounter {
	return &PostgresCounter{queries: queries}
}

func (c *PostgresCounter) Get(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}

	count, err := c.queries.GetReminderUsage(ctx, repository.GetReminderUsageParams{
		UserID:   userID,
		MonthKey: monthKey,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get reminder usage: %w", err)
	}
	return count, nil
}

func (c *PostgresCounter) Increment(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}

	count, err := c.queries.IncrementReminderUsage(ctx, repository.IncrementReminderUsageParams{
		UserID:   userID,
		MonthKey: monthKey,
	})
	if err != nil {
		return 0, fmt.Errorf("increment reminder usage: %w", err)
	}
	return count, nil
}
