// Package cli implements the civicdesk client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/iudanet/civicdesk/internal/client/iocli"
	"github.com/iudanet/civicdesk/internal/client/storage"
	"github.com/iudanet/civicdesk/pkg/api"
)

// ErrUnknownCommand is returned by Run for anything it does not recognise
var ErrUnknownCommand = errors.New("unknown command")

var errNotLoggedIn = errors.New("not logged in. Please run 'civicdesk login' first")

// APIClient is the part of the HTTP client the commands use
type APIClient interface {
	Signup(ctx context.Context, req api.SignupRequest) (*api.UserResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	Me(ctx context.Context, token string) (*api.UserResponse, error)
	Health(ctx context.Context) (*api.StatusResponse, error)
	BaseURL() string
}

type Cli struct {
	apiClient APIClient
	sessions  storage.SessionStorage
	io        iocli.IO
	now       func() time.Time
}

func New(apiClient APIClient, sessions storage.SessionStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		sessions:  sessions,
		io:        io,
		now:       time.Now,
	}
}

// Run dispatches a single command
func (c *Cli) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "civicdesk client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  civicdesk [OPTIONS] COMMAND")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -version      Show version information")
	fmt.Fprintln(w, "  -server URL   Server URL (default: http://localhost:8080, env CIVICDESK_SERVER)")
	fmt.Fprintln(w, "  -db PATH      Path to local session database (default: civicdesk-client.db, env CIVICDESK_DB)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  register      Create an account")
	fmt.Fprintln(w, "  login         Log in and keep the access token locally")
	fmt.Fprintln(w, "  whoami        Show the account the saved token belongs to")
	fmt.Fprintln(w, "  logout        Forget the saved token")
	fmt.Fprintln(w, "  status        Show local session and server health")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  civicdesk register")
	fmt.Fprintln(w, "  civicdesk -server https://civic.example.com login")
	fmt.Fprintln(w, "  civicdesk whoami")
}
