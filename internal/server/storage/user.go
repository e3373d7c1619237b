package storage

import (
	"context"

	"github.com/iudanet/civicdesk/internal/models"
)

// UserStorage defines interface for user credential persistence.
// Storage is append-mostly: records are created once and never updated.
type UserStorage interface {
	// CreateUser stores a new user and returns it with the store-assigned ID and CreatedAt.
	// Returns ErrUserAlreadyExists if the username is taken. The uniqueness
	// check is enforced by the storage itself, atomically with the insert.
	CreateUser(ctx context.Context, username, passwordHash string, email *string) (*models.User, error)

	// GetUserByUsername retrieves user by exact (case-sensitive) username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store is a UserStorage backed by a real database connection
type Store interface {
	UserStorage

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}
