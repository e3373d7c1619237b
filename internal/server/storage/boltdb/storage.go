// Package boltdb implements the credential store on an embedded bbolt file.
// It suits single-node deployments; bbolt holds an exclusive file lock so
// only one server process may open the database.
package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/storage"
)

var bucketUsers = []byte("users")

// Storage represents BoltDB storage implementation for the server
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the database at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUsers)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Storage{db: db}, nil
}

// CreateUser stores a user under its username. The existence check and the
// write happen in one read-write transaction, which bbolt serializes.
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string, email *string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)
		if bucket == nil {
			return fmt.Errorf("users bucket not found")
		}

		key := []byte(username)
		if bucket.Get(key) != nil {
			return storage.ErrUserAlreadyExists
		}

		data, err := json.Marshal(toRecord(user))
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketUsers)
		if bucket == nil {
			return fmt.Errorf("users bucket not found")
		}

		data := bucket.Get([]byte(username))
		if data == nil {
			return storage.ErrUserNotFound
		}

		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec.toModel(), nil
}

// Ping verifies the database is still open
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketUsers) == nil {
			return errors.New("users bucket not found")
		}
		return nil
	})
}

// Close closes the database file
func (s *Storage) Close() error {
	return s.db.Close()
}

// record is the on-disk representation; models.User hides the hash from JSON
type record struct {
	CreatedAt    time.Time `json:"created_at"`
	Email        *string   `json:"email,omitempty"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
}

func toRecord(u *models.User) record {
	return record{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
	}
}

func (r record) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		CreatedAt:    r.CreatedAt,
	}
}
