package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(rps float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rps, burst, time.Minute)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(1, 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "keys are independent")

	*now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled")
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(1, 1)

	rl.Allow("10.0.0.1")
	*now = now.Add(30 * time.Second)
	rl.Allow("10.0.0.2")

	*now = now.Add(45 * time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.entries, 1)
	assert.Contains(t, rl.entries, "10.0.0.2")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	mw := NewRateLimitMiddleware(rl, testLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(remoteAddr, xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/reminders/quota", nil)
		req.RemoteAddr = remoteAddr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		mw.Limit(next).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("192.168.1.1:1234", "").Code)

	limited := send("192.168.1.1:5678", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), `"success":false`)

	// Same proxy, different forwarded client.
	assert.Equal(t, http.StatusOK, send("192.168.1.1:1234", "203.0.113.7, 10.0.0.1").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.1:1234", nil, "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded for", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": " 203.0.113.9 "}, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
