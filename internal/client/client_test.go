package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/reminder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, success bool, data interface{}, errMsg string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{"success": success}
	if data != nil {
		body["data"] = data
	}
	if errMsg != "" {
		body["error"] = errMsg
	}
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func upcomingFixture() domain.UpcomingItems {
	due := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second)
	return domain.UpcomingItems{
		Appointments: []*domain.Appointment{{
			ID:          uuid.New(),
			UserID:      uuid.New(),
			Title:       "Dentist",
			ScheduledAt: due,
			Status:      domain.ItemStatusPending,
			Reminders:   domain.ReminderSettings{Enabled: true, OffsetMinutes: []int{60, 15}},
		}},
		ScheduledTransactions: []*domain.ScheduledTransaction{},
	}
}

// =============================================================================
// APIClient
// =============================================================================

func TestAPIClient_Upcoming(t *testing.T) {
	fixture := upcomingFixture()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/reminders/upcoming", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, true, fixture, "")
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL+"/", "tok", nil)
	got, err := c.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Appointments, 1)
	assert.Equal(t, fixture.Appointments[0].ID, got.Appointments[0].ID)
	assert.True(t, fixture.Appointments[0].ScheduledAt.Equal(got.Appointments[0].ScheduledAt))
	assert.Equal(t, []int{60, 15}, got.Appointments[0].Reminders.OffsetMinutes)
}

func TestAPIClient_Quota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reminders/quota", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, true, map[string]interface{}{
			"usage":             3,
			"limit":             15,
			"remaining":         12,
			"canCreateReminder": true,
			"planType":          "basic",
		}, "")
	}))
	defer srv.Close()

	got, err := NewAPIClient(srv.URL, "tok", nil).Quota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Usage)
	assert.Equal(t, int64(12), got.Remaining)
	assert.Equal(t, domain.PlanTierBasic, got.PlanType)
}

func TestAPIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusUnauthorized, false, nil, "Authentication required.")
			},
			wantErr: ErrUnauthorized,
		},
		{
			name: "server error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusInternalServerError, false, nil, "An internal error has occurred.")
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
		},
		{
			name: "success false with 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, http.StatusOK, false, nil, "nope")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewAPIClient(srv.URL, "tok", nil).Upcoming(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Agent
// =============================================================================

type sourceStub struct {
	mu    sync.Mutex
	items *domain.UpcomingItems
	err   error
	calls int
}

func (s *sourceStub) Upcoming(ctx context.Context) (*domain.UpcomingItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *sourceStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestAgent_RefreshReconcilesOnlyOnChange(t *testing.T) {
	fixture := upcomingFixture()
	src := &sourceStub{items: &fixture}
	sched := reminder.NewScheduler(nil, nil, testLogger())
	defer sched.Close()

	a := NewAgent(src, sched, time.Minute, testLogger())

	changed, err := a.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, sched.Pending(), 2)

	changed, err = a.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, changed, "identical list must not reconcile again")

	fixture.Appointments[0].Reminders.SentOffsetMinutes = []int{60}
	changed, err = a.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, sched.Pending(), 1)
}

func TestAgent_RefreshRemovedItemCancelsTimers(t *testing.T) {
	fixture := upcomingFixture()
	src := &sourceStub{items: &fixture}
	sched := reminder.NewScheduler(nil, nil, testLogger())
	defer sched.Close()

	a := NewAgent(src, sched, time.Minute, testLogger())
	_, err := a.Refresh(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sched.Pending())

	src.items = &domain.UpcomingItems{}
	_, err = a.Refresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sched.Pending())
}

func TestAgent_RunStopsOnUnauthorized(t *testing.T) {
	src := &sourceStub{err: ErrUnauthorized}
	sched := reminder.NewScheduler(nil, nil, testLogger())

	err := NewAgent(src, sched, time.Hour, testLogger()).Run(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, sched.Reconcile(upcomingFixture().All()), "scheduler is closed when the agent stops")
}

func TestAgent_RunUntilCancelled(t *testing.T) {
	fixture := upcomingFixture()
	src := &sourceStub{items: &fixture}
	sched := reminder.NewScheduler(nil, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewAgent(src, sched, 10*time.Millisecond, testLogger()).Run(ctx)
	}()

	require.Eventually(t, func() bool { return src.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("agent did not stop after cancel")
	}
	assert.Empty(t, sched.Pending())
}

func TestLogNotifier(t *testing.T) {
	fixture := upcomingFixture()
	n := fixture.Appointments[0].Notification(15)
	assert.NotPanics(t, func() { LogNotifier(testLogger())(n) })
}
