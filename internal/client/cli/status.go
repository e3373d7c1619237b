package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/civicdesk/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'civicdesk login' to authenticate.")
	case err != nil:
		return fmt.Errorf("failed to load session: %w", err)
	default:
		c.printSession(session)
	}

	c.io.Println()
	health, err := c.apiClient.Health(ctx)
	if err != nil {
		// an unreachable server is reported, not returned
		c.io.Printf("Server %s: unreachable (%v)\n", c.apiClient.BaseURL(), err)
		return nil
	}
	c.io.Printf("Server %s: %s", c.apiClient.BaseURL(), health.Status)
	if health.Version != "" {
		c.io.Printf(" (version %s)", health.Version)
	}
	c.io.Println()

	return nil
}

func (c *Cli) printSession(session *storage.Session) {
	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	c.io.Printf("Server: %s\n", session.ServerURL)
	c.io.Printf("Logged in at: %s\n", session.SavedAt.Format(time.RFC3339))

	if session.ExpiresAt.IsZero() {
		return
	}

	now := c.now()
	c.io.Printf("Token expires: %s\n", session.ExpiresAt.Format(time.RFC3339))
	if session.Expired(now) {
		c.io.Println("⚠️  Token has expired. Please login again.")
		return
	}
	c.io.Printf("Time remaining: %s\n", session.ExpiresAt.Sub(now).Round(time.Second))
}
