package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/auth"
	"github.com/iudanet/civicdesk/internal/validation"
	"github.com/iudanet/civicdesk/pkg/api"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}

var testUser = &models.PublicUser{
	ID:        "6f1c2a7e-0000-4000-8000-000000000001",
	Username:  "alice",
	CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
}

func doJSON(t *testing.T, h http.HandlerFunc, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w.Result()
}

func decodeError(t *testing.T, resp *http.Response) api.ErrorResponse {
	t.Helper()
	var e api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestAuthHandler_Signup(t *testing.T) {
	email := "alice@example.com"

	tests := []struct {
		registerErr error
		name        string
		body        string
		wantMessage string
		wantStatus  int
		wantCalls   int
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"secret1","email":"alice@example.com"}`,
			wantStatus: http.StatusCreated,
			wantCalls:  1,
		},
		{
			name:        "username taken",
			body:        `{"username":"alice","password":"secret1"}`,
			registerErr: auth.ErrUsernameTaken,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Username already registered",
			wantCalls:   1,
		},
		{
			name:        "validation error",
			body:        `{"username":"a","password":"secret1"}`,
			registerErr: fmt.Errorf("%w: username must be at least 3 characters long", validation.ErrInvalidInput),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "username must be at least 3 characters long",
			wantCalls:   1,
		},
		{
			name:        "storage failure",
			body:        `{"username":"alice","password":"secret1"}`,
			registerErr: errors.New("failed to create user: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
			wantCalls:   1,
		},
		{
			name:        "malformed json",
			body:        `{"username":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "unknown field",
			body:        `{"username":"alice","password":"secret1","role":"admin"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &AuthenticatorMock{
				RegisterFunc: func(ctx context.Context, username, password string, email *string) (*models.PublicUser, error) {
					if tt.registerErr != nil {
						return nil, tt.registerErr
					}
					return &models.PublicUser{
						ID:        testUser.ID,
						Username:  username,
						Email:     email,
						CreatedAt: testUser.CreatedAt,
					}, nil
				},
			}
			h := NewAuthHandler(setupTestLogger(), mock)

			resp := doJSON(t, h.Signup, http.MethodPost, "/auth/signup", tt.body)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Len(t, mock.RegisterCalls(), tt.wantCalls)

			if tt.wantStatus != http.StatusCreated {
				e := decodeError(t, resp)
				assert.Equal(t, http.StatusText(tt.wantStatus), e.Error)
				assert.Contains(t, e.Message, tt.wantMessage)
				assert.NotContains(t, e.Message, "connection refused")
				return
			}

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "password")

			var user api.UserResponse
			require.NoError(t, json.Unmarshal(raw, &user))
			assert.Equal(t, testUser.ID, user.ID)
			assert.Equal(t, "alice", user.Username)
			require.NotNil(t, user.Email)
			assert.Equal(t, email, *user.Email)

			call := mock.RegisterCalls()[0]
			assert.Equal(t, "alice", call.Username)
			assert.Equal(t, "secret1", call.Password)
		})
	}
}

func TestAuthHandler_Signup_NoEmailRendersNull(t *testing.T) {
	mock := &AuthenticatorMock{
		RegisterFunc: func(ctx context.Context, username, password string, email *string) (*models.PublicUser, error) {
			assert.Nil(t, email)
			return testUser, nil
		},
	}
	h := NewAuthHandler(setupTestLogger(), mock)

	resp := doJSON(t, h.Signup, http.MethodPost, "/auth/signup", `{"username":"alice","password":"secret1"}`)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":null`)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		loginErr    error
		name        string
		body        string
		wantMessage string
		wantStatus  int
		wantBearer  bool
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"secret1"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "invalid credentials",
			body:        `{"username":"alice","password":"wrong"}`,
			loginErr:    auth.ErrInvalidCredentials,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Incorrect username or password",
			wantBearer:  true,
		},
		{
			name:        "storage failure",
			body:        `{"username":"alice","password":"secret1"}`,
			loginErr:    errors.New("failed to look up user: timeout"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal server error",
		},
		{
			name:        "malformed json",
			body:        `not json`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &AuthenticatorMock{
				LoginFunc: func(ctx context.Context, username, password string) (string, error) {
					if tt.loginErr != nil {
						return "", tt.loginErr
					}
					return "signed.jwt.token", nil
				},
			}
			h := NewAuthHandler(setupTestLogger(), mock)

			resp := doJSON(t, h.Login, http.MethodPost, "/auth/login", tt.body)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBearer {
				assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			}

			if tt.wantStatus != http.StatusOK {
				e := decodeError(t, resp)
				assert.Equal(t, tt.wantMessage, e.Message)
				return
			}

			var token api.TokenResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&token))
			assert.Equal(t, "signed.jwt.token", token.AccessToken)
			assert.Equal(t, "bearer", token.TokenType)
		})
	}
}

func TestAuthHandler_Login_BodyTooLarge(t *testing.T) {
	mock := &AuthenticatorMock{}
	h := NewAuthHandler(setupTestLogger(), mock)

	body := `{"username":"alice","password":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	resp := doJSON(t, h.Login, http.MethodPost, "/auth/login", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mock.LoginCalls())
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &AuthenticatorMock{})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(WithUser(req.Context(), testUser))
		w := httptest.NewRecorder()

		h.Me(w, req)

		resp := w.Result()
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var user api.UserResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, testUser.ID, user.ID)
		assert.Equal(t, testUser.Username, user.Username)
		assert.True(t, testUser.CreatedAt.Equal(user.CreatedAt))
	})

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()

		h.Me(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAuthHandler_Health(t *testing.T) {
	h := NewAuthHandler(setupTestLogger(), &AuthenticatorMock{})

	req := httptest.NewRequest(http.MethodGet, "/auth/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Auth router is working"}`, w.Body.String())
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), testUser)
	got, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, testUser, got)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}
