// Package usage counts successfully dispatched reminders per user and
// calendar month. Counts only ever go up.
package usage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned when the user ID is empty or the month key is
// not of the form YYYY-MM.
var ErrInvalidKey = errors.New("usage: invalid user or month key")

// Counter reads and increments per-month reminder usage.
type Counter interface {
	// Get returns the count for the user and month, or 0 if no record exists.
	Get(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error)

	// Increment atomically adds one to the count, creating the record if
	// needed, and returns the new count.
	Increment(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error)
}

func validateKey(userID uuid.UUID, monthKey string) error {
	if userID == uuid.Nil {
		return ErrInvalidKey
	}
	if _, err := time.Parse("2006-01", monthKey); err != nil {
		return ErrInvalidKey
	}
	return nil
}
