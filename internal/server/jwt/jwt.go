// Package jwt issues and verifies the stateless bearer tokens handed out on
// login. Tokens are HMAC-signed JWTs carrying the username as "sub" and an
// "exp" claim; nothing about issued tokens is stored server side.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAlgorithm is used when Config.Algorithm is empty
	DefaultAlgorithm = "HS256"
	// DefaultTTL is the lifetime of tokens issued without an explicit ttl
	DefaultTTL = 10080 * time.Minute
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures, unexpected
	// algorithms and tokens without a subject
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for correctly signed tokens past their expiry
	ErrExpiredToken = errors.New("token expired")
)

// Config holds token settings; it is read once at startup
type Config struct {
	Secret     string
	Algorithm  string
	DefaultTTL time.Duration
}

// Claims is what a verified token asserts
type Claims struct {
	ExpiresAt time.Time
	Subject   string
}

// Service provides JWT token generation and validation
type Service struct {
	now        func() time.Time
	method     jwtlib.SigningMethod
	secret     []byte
	defaultTTL time.Duration
}

// NewService creates a new JWT service. Only HMAC algorithms are accepted.
func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}

	method, ok := jwtlib.GetSigningMethod(alg).(*jwtlib.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Service{
		secret:     []byte(cfg.Secret),
		method:     method,
		defaultTTL: ttl,
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source; used by tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DefaultTTL returns the lifetime applied by Issue
func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a token for subject valid for the default ttl
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.defaultTTL)
}

// IssueWithTTL signs a token for subject expiring ttl from now. A zero or
// negative ttl yields a token that is already expired.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()

	claims := jwtlib.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwtlib.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// Verify checks signature, algorithm and expiry and returns the claims
func (s *Service) Verify(token string) (*Claims, error) {
	claims := &jwtlib.RegisteredClaims{}

	_, err := jwtlib.ParseWithClaims(token, claims,
		func(*jwtlib.Token) (any, error) { return s.secret, nil },
		jwtlib.WithValidMethods([]string{s.method.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
