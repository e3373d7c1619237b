// Package auth implements account registration, password login and
// resolution of bearer tokens to user records.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/civicdesk/internal/crypto"
	"github.com/iudanet/civicdesk/internal/models"
	"github.com/iudanet/civicdesk/internal/server/jwt"
	"github.com/iudanet/civicdesk/internal/server/storage"
	"github.com/iudanet/civicdesk/internal/validation"
)

var (
	// ErrUsernameTaken is returned by Register when the username is in use
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidCredentials is returned for an unknown user, a wrong password,
	// and a valid token whose subject no longer exists
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyPassword is hashed once at startup; logins for unknown users verify
// against it so both failure paths cost one hash verification
const dummyPassword = "civicdesk-timing-equaliser"

// TokenService issues and verifies bearer tokens
type TokenService interface {
	Issue(subject string) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// Service is the authenticator. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	users     storage.UserStorage
	hasher    crypto.PasswordHasher
	tokens    TokenService
	logger    *slog.Logger
	dummyHash string
}

// NewService wires the authenticator
func NewService(users storage.UserStorage, hasher crypto.PasswordHasher, tokens TokenService, logger *slog.Logger) (*Service, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// Register validates input, hashes the password and creates the account.
// Input problems wrap validation.ErrInvalidInput.
func (s *Service) Register(ctx context.Context, username, password string, email *string) (*models.PublicUser, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	// Fast path; the store's unique constraint is what actually guarantees uniqueness
	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, hash, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user.Public(), nil
}

// Login checks the password and returns a signed access token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}

// Authenticate resolves a bearer token to the user it names. Token problems
// are reported as jwt.ErrInvalidToken or jwt.ErrExpiredToken.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.PublicUser, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return user.Public(), nil
}
