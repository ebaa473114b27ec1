package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of tokens minted by IssueToken.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("auth: signing secret is empty")

	// ErrInvalidSubject is returned when a token's subject is not a user ID.
	ErrInvalidSubject = errors.New("auth: token subject is not a valid user id")
)

// TokenVerifier validates HS256 bearer tokens whose subject is a user ID.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier. When issuer is non-empty, tokens
// must carry a matching "iss" claim.
func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses the token and returns the user ID in its subject.
func (v *TokenVerifier) Verify(tokenString string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, errors.New("auth: token is not valid")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidSubject
	}
	return id, nil
}

// IssueToken mints an HS256 token for a user. A non-positive ttl uses
// DefaultTokenTTL.
func IssueToken(secret, issuer string, userID uuid.UUID, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
