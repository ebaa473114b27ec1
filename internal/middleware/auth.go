// Package middleware contains HTTP middleware for the Duesoon API.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/duesoon/internal/auth"
	"github.com/DukeRupert/duesoon/internal/handler"
	"github.com/google/uuid"
)

// InternalAPIKeyHeader carries the shared secret of server-to-server calls.
const InternalAPIKeyHeader = "X-Internal-API-Key"

// =============================================================================
// Bearer Token Auth
// =============================================================================

// TokenVerifier validates a bearer token and returns the user it belongs to.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthMiddleware authenticates API requests.
type AuthMiddleware struct {
	verifier    TokenVerifier
	internalKey string
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty internalKey
// rejects every internal call.
func NewAuthMiddleware(verifier TokenVerifier, internalKey string, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:    verifier,
		internalKey: internalKey,
		logger:      logger,
	}
}

// RequireUser is middleware that requires a valid bearer token.
//
// On success the token's user ID is stored in the request context and can
// be read with auth.GetUserID. Otherwise the request is answered with 401
// and the handler is not called.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			handler.UnauthorizedResponse(w, r, m.logger, "Authorization header required")
			return
		}

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debug("bearer token rejected", "error", err, "path", r.URL.Path)
			handler.UnauthorizedResponse(w, r, m.logger, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUserID(r.Context(), userID)))
	})
}

// RequireInternalKey is middleware that requires the internal API key
// header on server-to-server calls such as the sweep trigger.
func (m *AuthMiddleware) RequireInternalKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(InternalAPIKeyHeader)
		if m.internalKey == "" || provided == "" {
			handler.UnauthorizedResponse(w, r, m.logger, "Unauthorized")
			return
		}

		// Use constant-time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.internalKey)) != 1 {
			m.logger.Warn("internal API key mismatch", "ip", getClientIP(r), "path", r.URL.Path)
			handler.ForbiddenResponse(w, r, m.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
