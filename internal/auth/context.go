// Package auth provides authentication context helpers and bearer token
// handling.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDContextKey is the key used to store the authenticated user ID in context.
	userIDContextKey contextKey = "user_id"
)

// GetUserID retrieves the authenticated user ID from the context.
//
// Returns uuid.Nil and false if no user is authenticated.
//
// Usage:
//
//	userID, ok := auth.GetUserID(r.Context())
//	if !ok {
//	    // Handle unauthenticated request
//	}
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserIDFromRequest retrieves the authenticated user ID from the request context.
func GetUserIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	return GetUserID(r.Context())
}

// SetUserID stores a user ID in the context.
//
// This is typically called by authentication middleware after validating
// a bearer token.
func SetUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}
