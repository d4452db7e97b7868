package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/internal/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type directory struct {
	users map[uuid.UUID]bool
}

func (d *directory) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return d.users[id], nil
}

func (d *directory) Provision(context.Context, string) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func TestTokens(t *testing.T) {
	key := []byte(secret)
	id := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		tokens := auth.NewTokens(key, "triage", time.Hour)
		tok, err := tokens.Issue(id)
		require.NoError(t, err)
		assert.Equal(t, "bearer", tok.TokenType)

		got, err := tokens.Verify(tok.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := auth.NewTokens(key, "triage", -time.Minute).Issue(id)
		require.NoError(t, err)

		_, err = auth.NewTokens(key, "triage", time.Hour).Verify(tok.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := auth.NewTokens(key, "other", time.Hour).Issue(id)
		require.NoError(t, err)

		_, err = auth.NewTokens(key, "triage", time.Hour).Verify(tok.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		tok, err := auth.NewTokens([]byte("another-secret-another-secret-00"), "triage", time.Hour).Issue(id)
		require.NoError(t, err)

		_, err = auth.NewTokens(key, "triage", time.Hour).Verify(tok.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    "triage",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.NewTokens(key, "triage", time.Hour).Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "triage",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		require.NoError(t, err)

		_, err = auth.NewTokens(key, "triage", time.Hour).Verify(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func newAuthenticator(t *testing.T, users ...uuid.UUID) *auth.Authenticator {
	t.Helper()

	cfg := &auth.Config{Secret: secret}
	require.NoError(t, cfg.Finalize(nil))

	dir := &directory{users: map[uuid.UUID]bool{}}
	for _, u := range users {
		dir.users[u] = true
	}

	a, err := auth.New(cfg, dir, discard())
	require.NoError(t, err)
	return a
}

func TestMiddleware(t *testing.T) {
	known := uuid.New()
	a := newAuthenticator(t, known)

	var seen uuid.UUID
	h := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	issue := func(id uuid.UUID) string {
		tok, err := a.Issue(id)
		require.NoError(t, err)
		return tok.AccessToken
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"unknown user", "Bearer " + issue(uuid.New()), http.StatusUnauthorized},
		{"valid token", "Bearer " + issue(known), http.StatusNoContent},
		{"lowercase scheme", "bearer " + issue(known), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
				assert.Equal(t, uuid.Nil, seen)
			} else {
				assert.Equal(t, known, seen)
			}
		})
	}
}

func TestEphemeralKey(t *testing.T) {
	cfg := &auth.Config{}
	require.NoError(t, cfg.Finalize(nil))

	id := uuid.New()
	a, err := auth.New(cfg, &directory{users: map[uuid.UUID]bool{id: true}}, discard())
	require.NoError(t, err)

	tok, err := a.Issue(id)
	require.NoError(t, err)

	got, err := a.Authenticate(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUserID(t *testing.T) {
	_, ok := auth.UserID(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := auth.UserID(auth.WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &auth.Config{}
		require.NoError(t, cfg.Finalize(nil))
		assert.Equal(t, time.Hour, cfg.ExpiryDuration())
		assert.Equal(t, "triage", cfg.Issuer)
		assert.False(t, cfg.OIDCEnabled())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_AUTH_SECRET", secret)
		t.Setenv("TEST_AUTH_EXPIRY", "15m")

		cfg := &auth.Config{}
		require.NoError(t, cfg.Finalize(&auth.Env{Secret: "TEST_AUTH_SECRET", Expiry: "TEST_AUTH_EXPIRY"}))
		assert.Equal(t, secret, cfg.Secret)
		assert.Equal(t, 15*time.Minute, cfg.ExpiryDuration())
	})

	tests := []struct {
		name string
		cfg  auth.Config
	}{
		{"short secret", auth.Config{Secret: "short"}},
		{"bad expiry", auth.Config{Expiry: "forever"}},
		{"oidc without client", auth.Config{OIDCIssuer: "https://login.example.com"}},
		{"oidc over http", auth.Config{OIDCIssuer: "http://login.example.com", OIDCClientID: "triage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Finalize(nil))
		})
	}
}
