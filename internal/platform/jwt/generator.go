package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpiration is the session token lifetime. There is no refresh.
const DefaultExpiration = 7 * 24 * time.Hour

var (
	// ErrMissingSecret is returned when no signing secret is configured.
	ErrMissingSecret = errors.New("jwt secret is not configured")

	// ErrInvalidToken covers bad signatures, expiry and malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Generator issues and validates HS256 session tokens whose subject is a user id.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
// A non-positive expiration falls back to DefaultExpiration.
func NewGenerator(secret string, expiration time.Duration) *Generator {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// Issue creates a signed token with sub, iat and exp claims.
func (g *Generator) Issue(userID uuid.UUID) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate verifies the signature and expiry and returns the subject.
func (g *Generator) Validate(tokenStr string) (string, error) {
	if len(g.secret) == 0 {
		return "", ErrMissingSecret
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims.Subject, nil
}
