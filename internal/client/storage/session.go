package storage

import (
	"context"
	"time"
)

// SessionStorage keeps the access token issued by the server between CLI runs.
// There is at most one session per local database.
type SessionStorage interface {
	// SaveSession replaces the current session
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession forgets the token locally. Returns ErrSessionNotFound if there was none.
	DeleteSession(ctx context.Context) error
}

// Session is the persisted login state
type Session struct {
	SavedAt     time.Time `json:"saved_at"`
	ExpiresAt   time.Time `json:"expires_at"` // zero if the token carries no exp
	Username    string    `json:"username"`
	ServerURL   string    `json:"server_url"`
	AccessToken string    `json:"access_token"`
}

// Expired reports whether the token is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
