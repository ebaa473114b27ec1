package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/duesoon/internal/handler"
)

// MetricsRealm is the basic auth realm presented on /metrics.
const MetricsRealm = "duesoon metrics"

// MetricsAuthMiddleware guards the Prometheus scrape endpoint of the
// reminder service with basic auth. With no credentials configured the
// endpoint is open and a warning is logged once at construction.
type MetricsAuthMiddleware struct {
	username []byte
	password []byte
	logger   *slog.Logger
}

func NewMetricsAuthMiddleware(username, password string, logger *slog.Logger) *MetricsAuthMiddleware {
	m := &MetricsAuthMiddleware{
		username: []byte(username),
		password: []byte(password),
		logger:   logger,
	}
	if !m.Enabled() && logger != nil {
		logger.Warn("metrics endpoint is unauthenticated; set METRICS_USERNAME and METRICS_PASSWORD")
	}
	return m
}

// Enabled reports whether scrapes must authenticate.
func (m *MetricsAuthMiddleware) Enabled() bool {
	return len(m.username) > 0 || len(m.password) > 0
}

func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		// Both comparisons always run.
		userOK := subtle.ConstantTimeCompare([]byte(user), m.username)
		passOK := subtle.ConstantTimeCompare([]byte(pass), m.password)
		if !ok || userOK&passOK != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+MetricsRealm+`", charset="UTF-8"`)
			handler.UnauthorizedResponse(w, r, m.logger, "Metrics credentials required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
