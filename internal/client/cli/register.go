package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/civicdesk/internal/validation"
	"github.com/iudanet/civicdesk/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)

	emailInput, err := c.io.ReadInput("Email (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	var email *string
	if e := strings.TrimSpace(emailInput); e != "" {
		email = &e
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	// same rules as the server, checked before the round trip
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Registering user...")

	user, err := c.apiClient.Signup(ctx, api.SignupRequest{
		Username: username,
		Password: password,
		Email:    email,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Println()
	c.io.Println("Please run 'civicdesk login' to start using the service.")

	return nil
}
