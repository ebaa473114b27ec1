// Package domain contains core business types and interfaces.
//
// This file defines the User domain type. Users own reminderable items and
// carry the plan tier that determines their monthly reminder quota.
package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents an account that receives reminders.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	PlanTier       PlanTier
	TelegramChatID int64 // Zero when the user has not linked Telegram
	CreatedAt      time.Time
}

// DisplayName returns the user's name or email if name is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Recipient returns the addressing information used by dispatch gateways.
func (u *User) Recipient() Recipient {
	return Recipient{
		UserID:         u.ID,
		Email:          u.Email,
		Name:           u.DisplayName(),
		TelegramChatID: u.TelegramChatID,
	}
}

// Recipient identifies who a reminder is delivered to. Each gateway picks
// the field it understands (email address, chat id).
type Recipient struct {
	UserID         uuid.UUID `json:"userId"`
	Email          string    `json:"email,omitempty"`
	Name           string    `json:"name,omitempty"`
	TelegramChatID int64     `json:"telegramChatId,omitempty"`
}

// =============================================================================
// Conversion helpers from repository types
// =============================================================================

// NullStringValue safely extracts a string from sql.NullString.
func NullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// NullInt64Value safely extracts an int64 from sql.NullInt64.
func NullInt64Value(n sql.NullInt64) int64 {
	if n.Valid {
		return n.Int64
	}
	return 0
}

// ToNullString converts a string to sql.NullString.
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
