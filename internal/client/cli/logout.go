package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/civicdesk/internal/client/storage"
)

// runLogout only forgets the token locally; the server keeps accepting it until it expires
func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.sessions.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
