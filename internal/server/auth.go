package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager issues and validates short-lived admin session tokens. The
// passphrase is compared server-side exactly once, at login; everything
// after that rides on the signed token.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a session manager with the given signing secret
// and token lifetime.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed admin token and returns it with its expiry.
func (m *SessionManager) Issue() (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, expires, nil
}

// Validate checks a bearer token's signature and expiry.
func (m *SessionManager) Validate(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("invalid session token")
	}

	return nil
}

// Middleware rejects requests that do not carry a valid Bearer token.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		if err := m.Validate(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// passphraseMatches compares the submitted passphrase in constant time.
func passphraseMatches(submitted, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) == 1
}
