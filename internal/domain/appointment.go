package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment is a calendar entry the user wants to be reminded about.
type Appointment struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	Title       string           `json:"title"`
	Location    string           `json:"location,omitempty"`
	ScheduledAt time.Time        `json:"scheduledAt"`
	Status      ItemStatus       `json:"status"`
	Reminders   ReminderSettings `json:"reminders"`
}

func (a *Appointment) Key() ItemKey {
	return ItemKey{Kind: ItemKindAppointment, ID: a.ID}
}

func (a *Appointment) OwnerID() uuid.UUID         { return a.UserID }
func (a *Appointment) DueAt() time.Time           { return a.ScheduledAt }
func (a *Appointment) State() ItemStatus          { return a.Status }
func (a *Appointment) Reminder() ReminderSettings { return a.Reminders }

// Notification builds the reminder for this appointment.
func (a *Appointment) Notification(offset int) Notification {
	title := a.Title
	if title == "" {
		title = "Appointment"
	}

	body := fmt.Sprintf("Starts in %s (%s).", formatLeadTime(offset), formatDueTime(a.ScheduledAt))
	if a.Location != "" {
		body += fmt.Sprintf(" Location: %s.", a.Location)
	}

	meta := baseMetadata(a.Key(), offset, a.ScheduledAt)
	if a.Location != "" {
		meta["location"] = a.Location
	}

	return Notification{
		Item:     a.Key(),
		Offset:   offset,
		Title:    "Reminder: " + title,
		Body:     body,
		DueAt:    a.ScheduledAt,
		Metadata: meta,
	}
}

var _ Reminderable = (*Appointment)(nil)
