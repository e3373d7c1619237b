package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/auth"
	"github.com/iudanet/civicdesk/internal/server/handlers"
	"github.com/iudanet/civicdesk/internal/server/jwt"
	"github.com/iudanet/civicdesk/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}

type authenticatorFunc func(ctx context.Context, token string) (*models.PublicUser, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (*models.PublicUser, error) {
	return f(ctx, token)
}

var alice = &models.PublicUser{
	ID:        "user123",
	Username:  "alice",
	CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
}

// testHandler is a simple handler that checks context values
func testHandler(t *testing.T, expected *models.PublicUser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := handlers.UserFromContext(r.Context())
		require.True(t, ok, "user should be in context")
		assert.Equal(t, expected, user)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	var gotToken string
	mw := AuthMiddleware(setupTestLogger(), authenticatorFunc(func(ctx context.Context, token string) (*models.PublicUser, error) {
		gotToken = token
		return alice, nil
	}))

	for _, header := range []string{"Bearer good.token.here", "bearer good.token.here"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		mw(testHandler(t, alice)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
		assert.Equal(t, "good.token.here", gotToken)
	}
}

func TestAuthMiddleware_Rejected(t *testing.T) {
	tests := []struct {
		authErr error
		name    string
		header  string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "no token", header: "Bearer "},
		{name: "scheme only", header: "Bearer"},
		{name: "invalid token", header: "Bearer x", authErr: fmt.Errorf("%w: signature is invalid", jwt.ErrInvalidToken)},
		{name: "expired token", header: "Bearer x", authErr: jwt.ErrExpiredToken},
		{name: "deleted user", header: "Bearer x", authErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mw := AuthMiddleware(setupTestLogger(), authenticatorFunc(func(ctx context.Context, token string) (*models.PublicUser, error) {
				called = true
				return nil, tt.authErr
			}))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.Equal(t, tt.authErr != nil, called)

			var e api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
			assert.Equal(t, "Could not validate credentials", e.Message)
		})
	}
}

func TestAuthMiddleware_InfrastructureError(t *testing.T) {
	mw := AuthMiddleware(setupTestLogger(), authenticatorFunc(func(ctx context.Context, token string) (*models.PublicUser, error) {
		return nil, errors.New("failed to look up user: connection reset")
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()

	mw(http.NotFoundHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "BEARER abc", want: "abc", ok: true},
		{header: "Bearer  abc ", want: "abc", ok: true},
		{header: "Bearerabc"},
		{header: "Token abc"},
		{header: ""},
		{header: "Bearer    "},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
