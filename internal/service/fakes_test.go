package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var sweepNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// fakeStore is an in-memory ReminderStore, UserStore and DispatchLog. Mark
// is a check-and-set under a mutex, like the conditional UPDATE it stands in
// for.
type fakeStore struct {
	mu sync.Mutex

	items []DueItem
	sent  map[domain.ItemKey][]int
	users map[uuid.UUID]*domain.User
	logs  []DispatchRecord

	// staleList makes ListDueItems ignore recorded sends, modelling sweeps
	// that all read before any of them marked.
	staleList bool

	listErr  error
	markErr  error
	logErr   error
	markHits int
}

func newFakeStore(items ...DueItem) *fakeStore {
	s := &fakeStore{
		items: items,
		sent:  make(map[domain.ItemKey][]int),
		users: make(map[uuid.UUID]*domain.User),
	}
	for _, it := range items {
		owner := it.Owner
		s.users[owner.ID] = &owner
	}
	return s
}

func (s *fakeStore) ListDueItems(ctx context.Context, from, to time.Time) ([]DueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}

	out := make([]DueItem, 0, len(s.items))
	for _, it := range s.items {
		due := it.Item.DueAt()
		if due.Before(from) || due.After(to) {
			continue
		}
		var extra []int
		if !s.staleList {
			extra = s.sent[it.Item.Key()]
		}
		out = append(out, DueItem{Item: cloneItem(it.Item, extra), Owner: it.Owner})
	}
	return out, nil
}

func (s *fakeStore) MarkOffsetSent(ctx context.Context, key domain.ItemKey, offset int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markHits++
	if s.markErr != nil {
		return false, s.markErr
	}
	for _, o := range s.sentLocked(key) {
		if o == offset {
			return false, nil
		}
	}
	s.sent[key] = append(s.sent[key], offset)
	return true, nil
}

func (s *fakeStore) sentLocked(key domain.ItemKey) []int {
	var base []int
	for _, it := range s.items {
		if it.Item.Key() == key {
			base = it.Item.Reminder().SentOffsetMinutes
		}
	}
	return append(append([]int{}, base...), s.sent[key]...)
}

func (s *fakeStore) sentOffsets(key domain.ItemKey) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[key]
}

func (s *fakeStore) ListUpcomingItems(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.UpcomingItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := &domain.UpcomingItems{}
	for _, it := range s.items {
		if it.Item.OwnerID() != userID {
			continue
		}
		switch v := cloneItem(it.Item, s.sent[it.Item.Key()]).(type) {
		case *domain.Appointment:
			out.Appointments = append(out.Appointments, v)
		case *domain.ScheduledTransaction:
			out.ScheduledTransactions = append(out.ScheduledTransactions, v)
		}
	}
	return out, nil
}

func (s *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound("user.get", "user", id.String())
	}
	c := *u
	return &c, nil
}

func (s *fakeStore) RecordDispatch(ctx context.Context, rec DispatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr != nil {
		return s.logErr
	}
	s.logs = append(s.logs, rec)
	return nil
}

func (s *fakeStore) PruneDispatchLog(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func cloneItem(item domain.Reminderable, extraSent []int) domain.Reminderable {
	withSent := func(r domain.ReminderSettings) domain.ReminderSettings {
		r.OffsetMinutes = append([]int{}, r.OffsetMinutes...)
		r.SentOffsetMinutes = append(append([]int{}, r.SentOffsetMinutes...), extraSent...)
		return r
	}
	switch v := item.(type) {
	case *domain.Appointment:
		c := *v
		c.Reminders = withSent(v.Reminders)
		return &c
	case *domain.ScheduledTransaction:
		c := *v
		c.Reminders = withSent(v.Reminders)
		return &c
	}
	panic("unknown item type")
}

// failingCounter fails every call.
type failingCounter struct{}

func (failingCounter) Get(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

func (failingCounter) Increment(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

func newUser(tier domain.PlanTier) domain.User {
	return domain.User{
		ID:       uuid.New(),
		Email:    "user@example.com",
		Name:     "Grace",
		PlanTier: tier,
	}
}

func dueAppointment(owner domain.User, in time.Duration, offsets ...int) DueItem {
	return DueItem{
		Item: &domain.Appointment{
			ID:          uuid.New(),
			UserID:      owner.ID,
			Title:       "Standup",
			ScheduledAt: sweepNow.Add(in),
			Status:      domain.ItemStatusPending,
			Reminders:   domain.ReminderSettings{Enabled: true, OffsetMinutes: offsets},
		},
		Owner: owner,
	}
}
