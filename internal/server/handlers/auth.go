package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/auth"
	"github.com/iudanet/civicdesk/internal/validation"
	"github.com/iudanet/civicdesk/pkg/api"
)

//go:generate moq -out authenticator_mock.go . Authenticator

// Authenticator is the account service the handlers delegate to
type Authenticator interface {
	Register(ctx context.Context, username, password string, email *string) (*models.PublicUser, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.PublicUser, error)
}

const (
	msgUsernameTaken      = "Username already registered"
	msgInvalidCredentials = "Incorrect username or password"
	msgInternal           = "internal server error"
)

// maxBodyBytes caps auth request bodies
const maxBodyBytes = 1 << 16

// AuthHandler serves the /auth endpoints
type AuthHandler struct {
	logger *slog.Logger
	auth   Authenticator
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(logger *slog.Logger, authenticator Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   authenticator,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrInvalidInput):
			h.logger.WarnContext(ctx, "invalid signup input",
				slog.String("username", req.Username), slog.Any("error", err))
			h.sendError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrUsernameTaken):
			h.logger.WarnContext(ctx, "username already taken", slog.String("username", req.Username))
			h.sendError(w, msgUsernameTaken, http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			h.sendError(w, msgInternal, http.StatusInternalServerError)
		}
		return
	}

	h.sendJSON(w, toUserResponse(user), http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username))
			w.Header().Set("WWW-Authenticate", "Bearer")
			h.sendError(w, msgInvalidCredentials, http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to log in", slog.Any("error", err))
		h.sendError(w, msgInternal, http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, api.TokenResponse{
		AccessToken: token,
		TokenType:   api.TokenTypeBearer,
	}, http.StatusOK)
}

// Me handles GET /auth/me; it must sit behind the auth middleware
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "no user in request context")
		h.sendError(w, msgInternal, http.StatusInternalServerError)
		return
	}

	h.sendJSON(w, toUserResponse(user), http.StatusOK)
}

// Health handles GET /auth/health
func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, api.StatusResponse{Status: "Auth router is working"}, http.StatusOK)
}

func toUserResponse(u *models.PublicUser) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// sendJSON writes data as JSON
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

// sendError writes an error envelope
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	SendError(h.logger, w, message, statusCode)
}

func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// SendError writes an api.ErrorResponse; shared with the middleware
func SendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
