package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-enough-entropy"

func TestIssueAndVerify(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken(testSecret, "duesoon", userID, time.Hour, time.Now())
	require.NoError(t, err)

	v, err := NewTokenVerifier(testSecret, "duesoon")
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerify_Rejects(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	valid, err := IssueToken(testSecret, "duesoon", userID, time.Hour, now)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "duesoon", userID, time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)
	otherSecret, err := IssueToken("another-secret", "duesoon", userID, time.Hour, now)
	require.NoError(t, err)
	otherIssuer, err := IssueToken(testSecret, "someone-else", userID, time.Hour, now)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "duesoon",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: userID.String(),
		Issuer:  "duesoon",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	v, err := NewTokenVerifier(testSecret, "duesoon")
	require.NoError(t, err)

	_, err = v.Verify(valid)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"bad subject":  badSubject,
		"no expiry":    noExpiry,
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestSecretRequired(t *testing.T) {
	_, err := NewTokenVerifier("", "")
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = IssueToken("", "", uuid.New(), time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(SetUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserID(SetUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
