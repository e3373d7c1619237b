package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/civicdesk/internal/client/storage"
	"github.com/iudanet/civicdesk/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	tok, err := c.apiClient.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}

	session := &storage.Session{
		Username:    username,
		ServerURL:   c.apiClient.BaseURL(),
		AccessToken: tok.AccessToken,
		SavedAt:     c.now(),
		ExpiresAt:   tokenExpiry(tok.AccessToken),
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	if !session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	}

	return nil
}

// tokenExpiry reads exp without verifying the signature. The client has no
// key; the value is only used for display.
func tokenExpiry(token string) time.Time {
	claims := &jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
