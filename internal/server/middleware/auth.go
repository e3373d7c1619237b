package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/auth"
	"github.com/iudanet/civicdesk/internal/server/handlers"
	"github.com/iudanet/civicdesk/internal/server/jwt"
)

const msgCouldNotValidate = "Could not validate credentials"

// TokenAuthenticator resolves a raw bearer token to a user
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.PublicUser, error)
}

// AuthMiddleware requires a valid bearer token.
// The resolved user is available to handlers via handlers.UserFromContext.
func AuthMiddleware(logger *slog.Logger, authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.WarnContext(ctx, "Missing or malformed Authorization header")
				unauthorized(logger, w)
				return
			}

			user, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				if errors.Is(err, jwt.ErrInvalidToken) ||
					errors.Is(err, jwt.ErrExpiredToken) ||
					errors.Is(err, auth.ErrInvalidCredentials) {
					logger.WarnContext(ctx, "Bearer token rejected", slog.Any("error", err))
					unauthorized(logger, w)
					return
				}
				logger.ErrorContext(ctx, "Failed to authenticate request", slog.Any("error", err))
				handlers.SendError(logger, w, "internal server error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(ctx, "User authenticated",
				slog.String("user_id", user.ID),
				slog.String("username", user.Username),
			)

			next.ServeHTTP(w, r.WithContext(handlers.WithUser(ctx, user)))
		})
	}
}

// bearerToken extracts the token from "Bearer <token>"; the scheme is case-insensitive
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(logger *slog.Logger, w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	handlers.SendError(logger, w, msgCouldNotValidate, http.StatusUnauthorized)
}
