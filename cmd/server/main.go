package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/civicdesk/internal/crypto"
	"github.com/iudanet/civicdesk/internal/server"
	"github.com/iudanet/civicdesk/internal/server/auth"
	"github.com/iudanet/civicdesk/internal/server/config"
	"github.com/iudanet/civicdesk/internal/server/jwt"
	"github.com/iudanet/civicdesk/internal/server/middleware"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "civicdesk-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(args, nil)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion(stdout)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", slog.Any("error", err))
		}
	}()

	hasher, err := crypto.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return err
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret:     cfg.SecretKey,
		Algorithm:  cfg.Algorithm,
		DefaultTTL: cfg.AccessTokenTTL(),
	})
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(store, hasher, tokens, logger)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, logger)
	defer limiter.Stop()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.NewRouter(server.Deps{
			Logger:        logger,
			Authenticator: authSvc,
			Storage:       store,
			LoginLimiter:  limiter,
			Version:       Version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", Version),
			slog.String("storage", cfg.StorageDriver),
			slog.String("hasher", cfg.PasswordHasher),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "civicdesk server\n")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
}
