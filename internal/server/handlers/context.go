package handlers

import (
	"context"

	"github.com/iudanet/civicdesk/internal/models"
)

// contextKey keys request context values
type contextKey string

// userKey holds the authenticated *models.PublicUser
const userKey contextKey = "user"

// WithUser returns a copy of ctx carrying the authenticated user
func WithUser(ctx context.Context, user *models.PublicUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user placed by the auth middleware
func UserFromContext(ctx context.Context) (*models.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(*models.PublicUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
