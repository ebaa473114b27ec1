package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/reminder"
	"github.com/google/uuid"
)

// ItemService serves a user's upcoming items to reminder clients.
type ItemService interface {
	// ListUpcoming returns the user's pending items due within the lookahead
	// horizon, including items whose reminders are disabled so clients can
	// drop their timers.
	ListUpcoming(ctx context.Context, userID uuid.UUID) (*domain.UpcomingItems, error)
}

type itemService struct {
	store  ReminderStore
	logger *slog.Logger
	now    func() time.Time
}

func NewItemService(store ReminderStore, logger *slog.Logger) ItemService {
	return &itemService{store: store, logger: logger, now: time.Now}
}

func (s *itemService) ListUpcoming(ctx context.Context, userID uuid.UUID) (*domain.UpcomingItems, error) {
	const op = "items.list_upcoming"

	now := s.now()
	items, err := s.store.ListUpcomingItems(ctx, userID, now, now.Add(reminder.LookaheadHorizon))
	if err != nil {
		s.logger.Error("failed to list upcoming items", "user_id", userID, "error", err)
		return nil, domain.Internal(err, op, "failed to list upcoming items")
	}
	return items, nil
}
