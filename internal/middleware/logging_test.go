package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		status      int
		wantLogged  bool
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "logs basic info",
			path:        "/api/reminders/quota",
			status:      http.StatusOK,
			wantLogged:  true,
			wantContain: []string{"level=INFO", "method=GET", "path=/api/reminders/quota", "status=200", "duration_ms", "ip=192.168.1.1"},
		},
		{
			name:        "server errors log at warn",
			path:        "/internal/reminders/sweep",
			status:      http.StatusInternalServerError,
			wantLogged:  true,
			wantContain: []string{"level=WARN", "status=500"},
		},
		{
			name:        "redacts sensitive query params",
			path:        "/api/reminders/upcoming?token=abc123&page=2",
			status:      http.StatusOK,
			wantLogged:  true,
			wantContain: []string{"token=[REDACTED]", "page=2"},
			wantAbsent:  []string{"abc123"},
		},
		{name: "skips health", path: "/health", status: http.StatusOK},
		{name: "skips metrics", path: "/metrics", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := NewRequestLoggingMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()
			mw.Handler(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, "status passes through")

			out := buf.String()
			if !tt.wantLogged {
				assert.Empty(t, out)
				return
			}
			for _, s := range tt.wantContain {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path, query, want string
	}{
		{"/a", "", "/a"},
		{"/a", "page=1", "/a?page=1"},
		{"/a", "API_KEY=x&b=2", "/a?API_KEY=[REDACTED]&b=2"},
		{"/a", "novalue", "/a"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizePath(tt.path, tt.query))
	}
}
