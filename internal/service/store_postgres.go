package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// PostgresStore implements ReminderStore, UserStore and DispatchLog on top
// of the generated repository queries.
type PostgresStore struct {
	queries *repository.Queries
}

func NewPostgresStore(queries *repository.Queries) *PostgresStore {
	return &PostgresStore{queries: queries}
}

// ListDueItems loads appointments and scheduled transactions in two queries.
func (s *PostgresStore) ListDueItems(ctx context.Context, from, to time.Time) ([]DueItem, error) {
	appointments, err := s.queries.ListDueAppointments(ctx, repository.ListDueAppointmentsParams{
		WindowStart: from,
		WindowEnd:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("list due appointments: %w", err)
	}

	transactions, err := s.queries.ListDueScheduledTransactions(ctx, repository.ListDueScheduledTransactionsParams{
		WindowStart: from,
		WindowEnd:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("list due scheduled transactions: %w", err)
	}

	items := make([]DueItem, 0, len(appointments)+len(transactions))
	for _, row := range appointments {
		items = append(items, dueAppointmentFromRow(row))
	}
	for _, row := range transactions {
		items = append(items, dueTransactionFromRow(row))
	}
	return items, nil
}

func (s *PostgresStore) MarkOffsetSent(ctx context.Context, key domain.ItemKey, offset int) (bool, error) {
	const op = "store.mark_offset_sent"

	if !key.Kind.IsValid() {
		return false, domain.Errorf(domain.EINVALID, op, "unknown item kind %q", key.Kind)
	}

	var (
		rows int64
		err  error
	)
	switch key.Kind {
	case domain.ItemKindAppointment:
		rows, err = s.queries.MarkAppointmentOffsetSent(ctx, repository.MarkAppointmentOffsetSentParams{
			ID:            key.ID,
			OffsetMinutes: int32(offset),
		})
	case domain.ItemKindScheduledTransaction:
		rows, err = s.queries.MarkScheduledTransactionOffsetSent(ctx, repository.MarkScheduledTransactionOffsetSentParams{
			ID:            key.ID,
			OffsetMinutes: int32(offset),
		})
	}
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *PostgresStore) ListUpcomingItems(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.UpcomingItems, error) {
	appointments, err := s.queries.ListUpcomingAppointmentsByUser(ctx, repository.ListUpcomingAppointmentsByUserParams{
		UserID:      userID,
		WindowStart: from,
		WindowEnd:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}

	transactions, err := s.queries.ListUpcomingScheduledTransactionsByUser(ctx, repository.ListUpcomingScheduledTransactionsByUserParams{
		UserID:      userID,
		WindowStart: from,
		WindowEnd:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming scheduled transactions: %w", err)
	}

	out := &domain.UpcomingItems{
		Appointments:          make([]*domain.Appointment, 0, len(appointments)),
		ScheduledTransactions: make([]*domain.ScheduledTransaction, 0, len(transactions)),
	}
	for _, a := range appointments {
		out.Appointments = append(out.Appointments, &domain.Appointment{
			ID:          a.ID,
			UserID:      a.UserID,
			Title:       a.Title,
			Location:    domain.NullStringValue(a.Location),
			ScheduledAt: a.ScheduledAt,
			Status:      domain.ItemStatus(a.Status),
			Reminders:   reminderSettings(a.ReminderEnabled, a.ReminderOffsets, a.ReminderSentOffsets),
		})
	}
	for _, t := range transactions {
		out.ScheduledTransactions = append(out.ScheduledTransactions, &domain.ScheduledTransaction{
			ID:           t.ID,
			UserID:       t.UserID,
			Description:  t.Description,
			AmountMinor:  t.AmountMinor,
			Currency:     t.Currency,
			Type:         domain.TransactionType(t.Type),
			ScheduledFor: t.ScheduledFor,
			Status:       domain.ItemStatus(t.Status),
			Reminders:    reminderSettings(t.ReminderEnabled, t.ReminderOffsets, t.ReminderSentOffsets),
		})
	}
	return out, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "user.get"

	row, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(op, "user", id.String())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load user")
	}

	return &domain.User{
		ID:             row.ID,
		Email:          row.Email,
		Name:           domain.NullStringValue(row.Name),
		PlanTier:       domain.PlanTier(row.PlanTier),
		TelegramChatID: domain.NullInt64Value(row.TelegramChatID),
		CreatedAt:      row.CreatedAt,
	}, nil
}

func (s *PostgresStore) RecordDispatch(ctx context.Context, rec DispatchRecord) error {
	metadata := pqtype.NullRawMessage{}
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal dispatch metadata: %w", err)
		}
		metadata = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	r := rec.Result
	return s.queries.InsertDispatchLog(ctx, repository.InsertDispatchLogParams{
		ItemID:        r.ItemID,
		ItemKind:      string(r.Kind),
		UserID:        r.UserID,
		OffsetMinutes: int32(r.Offset),
		Reason:        string(r.Reason),
		Success:       r.Success,
		StatusCode:    sql.NullInt32{Int32: int32(r.StatusCode), Valid: r.StatusCode != 0},
		ErrorMessage:  domain.ToNullString(r.Error),
		Metadata:      metadata,
	})
}

func (s *PostgresStore) PruneDispatchLog(ctx context.Context, before time.Time) (int64, error) {
	return s.queries.DeleteDispatchLogBefore(ctx, before)
}

// =============================================================================
// Row conversion
// =============================================================================

func dueAppointmentFromRow(row repository.ListDueAppointmentsRow) DueItem {
	return DueItem{
		Item: &domain.Appointment{
			ID:          row.ID,
			UserID:      row.UserID,
			Title:       row.Title,
			Location:    domain.NullStringValue(row.Location),
			ScheduledAt: row.ScheduledAt,
			Status:      domain.ItemStatus(row.Status),
			Reminders:   reminderSettings(row.ReminderEnabled, row.ReminderOffsets, row.ReminderSentOffsets),
		},
		Owner: ownerFromRow(row.UserID, row.Email, row.Name, row.PlanTier, row.TelegramChatID),
	}
}

func dueTransactionFromRow(row repository.ListDueScheduledTransactionsRow) DueItem {
	return DueItem{
		Item: &domain.ScheduledTransaction{
			ID:           row.ID,
			UserID:       row.UserID,
			Description:  row.Description,
			AmountMinor:  row.AmountMinor,
			Currency:     row.Currency,
			Type:         domain.TransactionType(row.Type),
			ScheduledFor: row.ScheduledFor,
			Status:       domain.ItemStatus(row.Status),
			Reminders:    reminderSettings(row.ReminderEnabled, row.ReminderOffsets, row.ReminderSentOffsets),
		},
		Owner: ownerFromRow(row.UserID, row.Email, row.Name, row.PlanTier, row.TelegramChatID),
	}
}

func ownerFromRow(id uuid.UUID, email string, name sql.NullString, tier string, chatID sql.NullInt64) domain.User {
	return domain.User{
		ID:             id,
		Email:          email,
		Name:           domain.NullStringValue(name),
		PlanTier:       domain.PlanTier(tier),
		TelegramChatID: domain.NullInt64Value(chatID),
	}
}

func reminderSettings(enabled bool, offsets, sent []int32) domain.ReminderSettings {
	return domain.ReminderSettings{
		Enabled:           enabled,
		OffsetMinutes:     toInts(offsets),
		SentOffsetMinutes: toInts(sent),
	}
}

func toInts(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

var (
	_ ReminderStore = (*PostgresStore)(nil)
	_ UserStore     = (*PostgresStore)(nil)
	_ DispatchLog   = (*PostgresStore)(nil)
)
