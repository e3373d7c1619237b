package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientapi "github.com/iudanet/civicdesk/internal/client/api"
	"github.com/iudanet/civicdesk/internal/client/storage"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return errNotLoggedIn
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	user, err := c.apiClient.Me(ctx, session.AccessToken)
	if err != nil {
		if errors.Is(err, clientapi.ErrUnauthorized) {
			return fmt.Errorf("saved session is no longer valid, please run 'civicdesk login' again: %w", err)
		}
		return err
	}

	c.io.Printf("ID: %s\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	if user.Email != nil {
		c.io.Printf("Email: %s\n", *user.Email)
	} else {
		c.io.Println("Email: -")
	}
	c.io.Printf("Created: %s\n", user.CreatedAt.Format(time.RFC3339))

	return nil
}
