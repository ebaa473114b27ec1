// Package domain contains core business types and interfaces.
//
// This file defines the reminder capability shared by every item kind that
// can be reminded about (appointments, scheduled transactions). The sweep and
// the client scheduler only ever see items through the Reminderable interface.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultReminderOffset is used when an item has no usable offsets configured.
const DefaultReminderOffset = 15

// ItemKind identifies the concrete type behind a Reminderable.
type ItemKind string

const (
	ItemKindAppointment          ItemKind = "appointment"
	ItemKindScheduledTransaction ItemKind = "scheduled_transaction"
)

// IsValid returns true if the kind is known.
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindAppointment, ItemKindScheduledTransaction:
		return true
	}
	return false
}

// ItemStatus is the lifecycle state of a reminderable item.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusCancelled ItemStatus = "cancelled"
)

// ItemKey uniquely identifies an item across kinds.
type ItemKey struct {
	Kind ItemKind
	ID   uuid.UUID
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.ID)
}

// ReminderSettings is the reminder configuration stored with an item.
type ReminderSettings struct {
	Enabled bool `json:"enabled"`
	// OffsetMinutes are minutes before the due time, in configured order.
	OffsetMinutes []int `json:"offsetMinutes"`
	// SentOffsetMinutes only ever grows.
	SentOffsetMinutes []int `json:"sentOffsetMinutes"`
}

// Offsets returns the usable offsets in configured order. Non-positive and
// duplicate values are dropped; if nothing usable remains the default
// offset is returned.
func (s ReminderSettings) Offsets() []int {
	out := make([]int, 0, len(s.OffsetMinutes))
	seen := make(map[int]struct{}, len(s.OffsetMinutes))
	for _, o := range s.OffsetMinutes {
		if o <= 0 {
			continue
		}
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	if len(out) == 0 {
		return []int{DefaultReminderOffset}
	}
	return out
}

// HasSent reports whether the offset has already been dispatched.
func (s ReminderSettings) HasSent(offset int) bool {
	for _, o := range s.SentOffsetMinutes {
		if o == offset {
			return true
		}
	}
	return false
}

// Notification is the content of a reminder for one item and offset.
type Notification struct {
	Item     ItemKey
	Offset   int
	Title    string
	Body     string
	DueAt    time.Time
	Metadata map[string]string
}

// Reminderable is the capability every remindable item kind implements.
type Reminderable interface {
	Key() ItemKey
	OwnerID() uuid.UUID
	DueAt() time.Time
	State() ItemStatus
	Reminder() ReminderSettings
	// Notification builds the kind-specific reminder content for an offset.
	Notification(offset int) Notification
}

// IsEligible reports whether an item may be reminded about at all: it must
// be pending and have reminders enabled.
func IsEligible(item Reminderable) bool {
	return item.State() == ItemStatusPending && item.Reminder().Enabled
}

// baseMetadata returns the metadata every notification carries.
func baseMetadata(key ItemKey, offset int, dueAt time.Time) map[string]string {
	return map[string]string{
		"item_id":   key.ID.String(),
		"item_kind": string(key.Kind),
		"offset":    fmt.Sprintf("%d", offset),
		"due_at":    dueAt.UTC().Format(time.RFC3339),
	}
}

// formatLeadTime renders an offset as "15 minutes", "1 hour", "2 hours 30 minutes".
func formatLeadTime(offset int) string {
	hours, minutes := offset/60, offset%60
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case hours == 0:
		return plural(minutes, "minute")
	case minutes == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " " + plural(minutes, "minute")
	}
}

// formatDueTime renders the due instant for message bodies.
func formatDueTime(t time.Time) string {
	return t.UTC().Format("Mon, Jan 2 at 3:04 PM UTC")
}

// UpcomingItems is a user's pending items, grouped by kind, as served to
// reminder clients.
type UpcomingItems struct {
	Appointments          []*Appointment          `json:"appointments"`
	ScheduledTransactions []*ScheduledTransaction `json:"scheduledTransactions"`
}

// All returns every item as a Reminderable, appointments first.
func (u UpcomingItems) All() []Reminderable {
	out := make([]Reminderable, 0, len(u.Appointments)+len(u.ScheduledTransactions))
	for _, a := range u.Appointments {
		out = append(out, a)
	}
	for _, t := range u.ScheduledTransactions {
		out = append(out, t)
	}
	return out
}
