package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_ListUpcoming(t *testing.T) {
	owner := newUser(domain.PlanTierBasic)
	other := newUser(domain.PlanTierBasic)

	disabled := dueAppointment(owner, 3*time.Hour, 30)
	disabled.Item.(*domain.Appointment).Reminders.Enabled = false

	tx := DueItem{
		Item: &domain.ScheduledTransaction{
			ID:           uuid.New(),
			UserID:       owner.ID,
			Description:  "Salary",
			AmountMinor:  100000,
			Currency:     "USD",
			Type:         domain.TransactionTypeIncome,
			ScheduledFor: sweepNow.Add(5 * time.Hour),
			Status:       domain.ItemStatusPending,
			Reminders:    domain.ReminderSettings{Enabled: true, OffsetMinutes: []int{60}},
		},
		Owner: owner,
	}

	store := newFakeStore(
		dueAppointment(owner, time.Hour, 15),
		disabled,
		tx,
		dueAppointment(other, time.Hour, 15),
	)
	svc := NewItemService(store, testLogger()).(*itemService)
	svc.now = func() time.Time { return sweepNow }

	items, err := svc.ListUpcoming(context.Background(), owner.ID)
	require.NoError(t, err)

	assert.Len(t, items.Appointments, 2, "disabled items are returned so clients can drop timers")
	assert.Len(t, items.ScheduledTransactions, 1)
	assert.Len(t, items.All(), 3)
	for _, item := range items.All() {
		assert.Equal(t, owner.ID, item.OwnerID())
	}
}

func TestItemService_ListUpcoming_StoreError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection reset")
	svc := NewItemService(store, testLogger())

	_, err := svc.ListUpcoming(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	assert.Equal(t, "items.list_upcoming", domain.ErrorOp(err))
}
