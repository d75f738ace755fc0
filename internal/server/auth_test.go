package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndValidate(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, expires, err := m.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expires.After(time.Now()))

	assert.NoError(t, m.Validate(token))
}

func TestSessionManager_RejectsExpiredToken(t *testing.T) {
	m := NewSessionManager("test-secret", -time.Minute)

	token, _, err := m.Issue()
	require.NoError(t, err)

	assert.Error(t, m.Validate(token))
}

func TestSessionManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewSessionManager("secret-a", time.Hour)
	verifier := NewSessionManager("secret-b", time.Hour)

	token, _, err := issuer.Issue()
	require.NoError(t, err)

	assert.Error(t, verifier.Validate(token))
}

func TestSessionManager_RejectsGarbage(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	assert.Error(t, m.Validate("not-a-token"))
	assert.Error(t, m.Validate(""))
}

func TestMiddleware_BlocksWithoutToken(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/data", nil)
	m.Middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_PassesWithValidToken(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)
	token, _, err := m.Issue()
	require.NoError(t, err)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	m.Middleware(next).ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestPassphraseMatches(t *testing.T) {
	assert.True(t, passphraseMatches("admin2025", "admin2025"))
	assert.False(t, passphraseMatches("admin2024", "admin2025"))
	assert.False(t, passphraseMatches("", "admin2025"))
}
