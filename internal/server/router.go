// Package server assembles the HTTP surface of the civicdesk auth service.
package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/civicdesk/internal/server/handlers"
	"github.com/iudanet/civicdesk/internal/server/middleware"
)

// Deps are the collaborators the router needs
type Deps struct {
	Logger        *slog.Logger
	Authenticator handlers.Authenticator
	Storage       handlers.Pinger
	// LoginLimiter throttles /auth/login and /auth/signup per client IP
	LoginLimiter *middleware.RateLimiter
	Version      string
}

// NewRouter wires handlers and middleware onto a ServeMux
func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Logger, d.Authenticator)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.Storage, d.Version)

	requireAuth := middleware.AuthMiddleware(d.Logger, d.Authenticator)
	throttle := middleware.RateLimitMiddleware(d.LoginLimiter, d.Logger)

	mux := http.NewServeMux()

	mux.Handle("POST /auth/signup", throttle(http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /auth/login", throttle(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.HandleFunc("GET /auth/health", authHandler.Health)
	mux.HandleFunc("GET /health", healthHandler.Health)

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(d.Logger, []string{"/health"})(handler)
	handler = middleware.RecoveryMiddleware(d.Logger)(handler)

	return handler
}
