// Package reminder implements reminder timing: deciding which offset of an
// item is due at a given instant (used by the server sweep) and keeping
// in-process timers for the client side.
package reminder

import (
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
)

const (
	// Tolerance is how far past an offset's ideal firing minute a sweep may
	// still match it. Sweeps run every few minutes, so the window has to be
	// at least as wide as the sweep interval.
	Tolerance = 5

	// LookaheadHorizon bounds which items a sweep loads at all.
	LookaheadHorizon = 24 * time.Hour
)

// MinutesUntilDue returns floor((dueAt - now) / 1 minute).
func MinutesUntilDue(dueAt, now time.Time) int {
	d := dueAt.Sub(now)
	m := d / time.Minute
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return int(m)
}

// InWindow reports whether an offset is due given the minutes left until
// the item is due: o - Tolerance <= minutesUntilDue <= o.
func InWindow(offset, minutesUntilDue int) bool {
	return minutesUntilDue <= offset && minutesUntilDue >= offset-Tolerance
}

// MatchOffset returns the first offset, in configured order, that is inside
// its firing window at now and has not been sent yet. At most one offset is
// returned even if several are in window. Items that are not eligible,
// already past due, or beyond the lookahead horizon never match.
func MatchOffset(item domain.Reminderable, now time.Time) (int, bool) {
	if !domain.IsEligible(item) {
		return 0, false
	}

	dueAt := item.DueAt()
	if dueAt.Before(now) || dueAt.Sub(now) > LookaheadHorizon {
		return 0, false
	}

	minutes := MinutesUntilDue(dueAt, now)
	settings := item.Reminder()
	for _, offset := range settings.Offsets() {
		if !InWindow(offset, minutes) {
			continue
		}
		if settings.HasSent(offset) {
			continue
		}
		return offset, true
	}
	return 0, false
}

// FireAt returns the instant a client timer for the offset should fire.
func FireAt(dueAt time.Time, offset int) time.Time {
	return dueAt.Add(-time.Duration(offset) * time.Minute)
}
