package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
)

// ErrInvalidInput is wrapped by every validation failure so callers can map
// them to a single client error.
var ErrInvalidInput = errors.New("invalid input")

// UsernamePattern: latin letters, digits, underscore, dot and dash, 3-32 characters
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32

	// MinPasswordLen is the minimum password length in bytes
	MinPasswordLen = 6
	// MaxPasswordLen is the bcrypt input limit, longer passwords would be silently truncated
	MaxPasswordLen = 72
)

// ValidateUsername checks the username format.
// Usernames are case-sensitive and stored exactly as given.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters long", ErrInvalidInput, MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username must not exceed %d characters", ErrInvalidInput, MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters (a-z, A-Z), numbers (0-9), dots, dashes and underscores", ErrInvalidInput)
	}

	return nil
}

// ValidatePassword checks password length bounds
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("%w: password must not exceed %d bytes", ErrInvalidInput, MaxPasswordLen)
	}

	return nil
}

// ValidateEmail accepts a nil email (it is optional) or a bare address
func ValidateEmail(email *string) error {
	if email == nil {
		return nil
	}

	addr, err := mail.ParseAddress(*email)
	if err != nil || addr.Address != *email {
		return fmt.Errorf("%w: email is not a valid address", ErrInvalidInput)
	}

	return nil
}
