package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		setAuth    bool
		user, pass string
		wantStatus int
	}{
		{"valid credentials", "admin", "secret123", true, "admin", "secret123", http.StatusOK},
		{"no credentials", "admin", "secret123", false, "", "", http.StatusUnauthorized},
		{"wrong username", "admin", "secret123", true, "root", "secret123", http.StatusUnauthorized},
		{"wrong password", "admin", "secret123", true, "admin", "nope", http.StatusUnauthorized},
		{"empty credentials", "admin", "secret123", true, "", "", http.StatusUnauthorized},
		{"disabled without config", "", "", false, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewMetricsAuthMiddleware(tt.username, tt.password, nil)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("metrics data"))
			})

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rec := httptest.NewRecorder()
			mw.Handler(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="duesoon metrics", charset="UTF-8"`, rec.Header().Get("WWW-Authenticate"))
				assert.NotContains(t, rec.Body.String(), "metrics data")
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestMetricsAuthMiddleware_Enabled(t *testing.T) {
	assert.False(t, NewMetricsAuthMiddleware("", "", nil).Enabled())
	assert.True(t, NewMetricsAuthMiddleware("prom", "", nil).Enabled())
	assert.True(t, NewMetricsAuthMiddleware("", "secret", nil).Enabled())
}
