package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/civicdesk/internal/client/api"
	"github.com/iudanet/civicdesk/internal/client/cli"
	"github.com/iudanet/civicdesk/internal/client/iocli"
	"github.com/iudanet/civicdesk/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var errUsage = errors.New("no command given")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], nil, iocli.NewStdio())
	stop()
	if err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, environ map[string]string, terminal iocli.IO) error {
	cfg, err := loadConfig(args, environ)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion(terminal)
		return nil
	}

	if cfg.Command == "" {
		return errUsage
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	return cli.New(api.NewClient(cfg.ServerURL), store, terminal).Run(ctx, cfg.Command)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "civicdesk client\n")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
