// Package postgres implements the credential store on PostgreSQL through
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage is a PostgreSQL-backed storage.Store
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// New opens a connection pool for dsn and applies pending migrations
func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewWithDB(db)
	if err := s.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// NewWithDB wraps an already opened pool. Migrations are not applied.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RunMigrations brings the schema up to date
func (s *Storage) RunMigrations(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, s.db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// CreateUser inserts a user row. Uniqueness is enforced by users_username_key.
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string, email *string) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, password_hash, email, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		CreatedAt:    s.now(),
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, nullString(user.Email), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, storage.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetUserByUsername looks up a user by exact username
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, email, created_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	var email sql.NullString

	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if email.Valid {
		user.Email = &email.String
	}

	return user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
