package reminder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
)

// Notifier delivers a reminder locally (desktop toast, log line, chat
// message). Notifications are delivered one at a time without the
// scheduler's state lock held, so a notifier may call Reconcile or Pending.
// It must not call Close, which waits for the notification in flight.
type Notifier func(n domain.Notification)

// TimerKey identifies one pending reminder timer.
type TimerKey struct {
	Item   domain.ItemKey
	Offset int
}

// PendingTimer describes a scheduled reminder.
type PendingTimer struct {
	Key    TimerKey
	FireAt time.Time
}

type scheduledTimer struct {
	fireAt time.Time
	timer  Timer
}

// Scheduler keeps one in-process timer per (item, offset) that is still due
// in the future. Its timer set is rebuilt from scratch by Reconcile whenever
// the item list changes. Reconcile, Close and the bookkeeping part of timer
// callbacks are serialized, so a callback never observes a half-rebuilt
// timer set. Notifications run after that lock is released, one at a time.
//
// Every Scheduler owns its timers; instances share nothing.
type Scheduler struct {
	clock  Clock
	notify Notifier
	logger *slog.Logger

	// notifyMu serializes notifications and lets Close wait for one in
	// flight. It is never acquired while mu is held.
	notifyMu sync.Mutex

	mu       sync.Mutex
	timers   map[TimerKey]*scheduledTimer
	consumed map[TimerKey]struct{}
	closed   bool
}

// NewScheduler creates a Scheduler. A nil clock means the system clock.
func NewScheduler(clock Clock, notify Notifier, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		clock:    clock,
		notify:   notify,
		logger:   logger,
		timers:   make(map[TimerKey]*scheduledTimer),
		consumed: make(map[TimerKey]struct{}),
	}
}

// Reconcile cancels every timer currently held and schedules a fresh timer
// for each pending, reminder-enabled item and each offset that has not been
// sent (server side) or fired (locally) and whose fire instant is still in
// the future. It returns the number of timers now pending.
func (s *Scheduler) Reconcile(items []domain.Reminderable) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}

	s.cancelAllLocked()

	now := s.clock.Now()
	present := make(map[domain.ItemKey]struct{}, len(items))

	for _, item := range items {
		key := item.Key()
		present[key] = struct{}{}

		if !domain.IsEligible(item) {
			continue
		}

		settings := item.Reminder()
		for _, offset := range settings.Offsets() {
			if settings.HasSent(offset) {
				continue
			}
			tk := TimerKey{Item: key, Offset: offset}
			if _, fired := s.consumed[tk]; fired {
				continue
			}
			fireAt := FireAt(item.DueAt(), offset)
			if !fireAt.After(now) {
				continue
			}
			s.scheduleLocked(tk, item.Notification(offset), fireAt, now)
		}
	}

	// Items that left the list can't come back with the same offsets fired.
	for tk := range s.consumed {
		if _, ok := present[tk.Item]; !ok {
			delete(s.consumed, tk)
		}
	}

	s.logger.Debug("reminder timers reconciled",
		"items", len(items),
		"timers", len(s.timers),
	)

	return len(s.timers)
}

// Close cancels all outstanding timers and waits for a notification that
// is already being delivered. No notification fires after Close returns,
// and later Reconcile calls are no-ops.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.cancelAllLocked()
	}
	s.mu.Unlock()

	// Wait out a notification already in flight.
	s.notifyMu.Lock()
	s.notifyMu.Unlock()
}

// Pending returns the scheduled timers ordered by fire time.
func (s *Scheduler) Pending() []PendingTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingTimer, 0, len(s.timers))
	for k, t := range s.timers {
		out = append(out, PendingTimer{Key: k, FireAt: t.fireAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].FireAt.Before(out[j].FireAt)
		}
		if out[i].Key.Item != out[j].Key.Item {
			return out[i].Key.Item.String() < out[j].Key.Item.String()
		}
		return out[i].Key.Offset < out[j].Key.Offset
	})
	return out
}

func (s *Scheduler) scheduleLocked(tk TimerKey, n domain.Notification, fireAt, now time.Time) {
	entry := &scheduledTimer{fireAt: fireAt}
	entry.timer = s.clock.AfterFunc(fireAt.Sub(now), func() {
		s.fire(tk, entry, n)
	})
	s.timers[tk] = entry
}

func (s *Scheduler) cancelAllLocked() {
	for tk, entry := range s.timers {
		entry.timer.Stop()
		delete(s.timers, tk)
	}
}

// fire runs on the timer's goroutine. A timer that was cancelled after it
// had already started waiting for the lock finds itself no longer current
// and does nothing.
func (s *Scheduler) fire(tk TimerKey, entry *scheduledTimer, n domain.Notification) {
	if !s.consume(tk, entry) {
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	// Close may have run while this callback waited for its turn.
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed || s.notify == nil {
		return
	}
	s.notify(n)
}

// consume removes the timer if it is still current and records its offset
// as fired locally.
func (s *Scheduler) consume(tk TimerKey, entry *scheduledTimer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if current, ok := s.timers[tk]; !ok || current != entry {
		return false
	}

	delete(s.timers, tk)
	s.consumed[tk] = struct{}{}

	s.logger.Info("reminder fired locally",
		"item", tk.Item.String(),
		"offset", tk.Offset,
	)
	return true
}

// Fingerprint summarizes everything Reconcile looks at, so callers can skip
// reconciling when a refreshed item list is unchanged.
func Fingerprint(items []domain.Reminderable) string {
	h := sha256.New()
	for _, item := range items {
		settings := item.Reminder()
		fmt.Fprintf(h, "%s|%d|%s|%t|%v|%v;",
			item.Key(),
			item.DueAt().UnixNano(),
			item.State(),
			settings.Enabled,
			settings.OffsetMinutes,
			settings.SentOffsetMinutes,
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}
