package service

import (
	"context"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/google/uuid"
)

// =============================================================================
// Persistence boundaries
// =============================================================================

// DueItem is an item selected by a sweep together with its owner, so the
// sweep can address the reminder and resolve the owner's plan without a
// second lookup.
type DueItem struct {
	Item  domain.Reminderable
	Owner domain.User
}

// ReminderStore is the item source and sent-marker store for reminders.
type ReminderStore interface {
	// ListDueItems returns pending, reminder-enabled items of every kind due
	// in [from, to]. A failure for any kind fails the whole call.
	ListDueItems(ctx context.Context, from, to time.Time) ([]DueItem, error)

	// MarkOffsetSent atomically records offset as sent for the item. It
	// returns false when the offset was already recorded.
	MarkOffsetSent(ctx context.Context, key domain.ItemKey, offset int) (bool, error)

	// ListUpcomingItems returns the user's pending items due in [from, to].
	ListUpcomingItems(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.UpcomingItems, error)
}

// UserStore loads users.
type UserStore interface {
	// GetUser returns the user or a domain ENOTFOUND error.
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// DispatchRecord is one row of the dispatch log.
type DispatchRecord struct {
	Result   domain.SweepResult
	Metadata map[string]string
}

// DispatchLog keeps per-item sweep outcomes for follow-up and manual resend.
type DispatchLog interface {
	RecordDispatch(ctx context.Context, rec DispatchRecord) error
	PruneDispatchLog(ctx context.Context, before time.Time) (int64, error)
}
