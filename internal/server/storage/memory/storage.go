// Package memory provides a process-local credential store. Data is lost on
// restart; it backs tests and the "memory" storage driver for local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/storage"
)

// Storage keeps users in a map keyed by username
type Storage struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// New returns an empty store
func New() *Storage {
	return &Storage{users: make(map[string]models.User)}
}

// CreateUser inserts a user under the write lock; a taken username returns
// storage.ErrUserAlreadyExists
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string, email *string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil, storage.ErrUserAlreadyExists
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Email:        cloneString(email),
		CreatedAt:    time.Now().UTC(),
	}
	s.users[username] = user

	return cloneUser(user), nil
}

// GetUserByUsername returns a copy of the stored user or storage.ErrUserNotFound
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	return cloneUser(user), nil
}

// DeleteUser removes a user. It reports whether the user existed.
func (s *Storage) DeleteUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[username]
	delete(s.users, username)
	return ok
}

// Len returns the number of stored users
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Ping only reports a done context
func (s *Storage) Ping(ctx context.Context) error { return ctx.Err() }

// Close is a no-op
func (s *Storage) Close() error { return nil }

func cloneUser(u models.User) *models.User {
	u.Email = cloneString(u.Email)
	return &u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
