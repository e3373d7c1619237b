package api

import "time"

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Email    *string `json:"email,omitempty"` // optional contact address
	Username string  `json:"username"`
	Password string  `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // always "bearer"
}

// UserResponse is the public view of an account
type UserResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Email     *string   `json:"email"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
}

// StatusResponse is returned by health endpoints
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`             // HTTP status text
	Message string `json:"message,omitempty"` // human-readable detail
}

// TokenTypeBearer is the only token type issued
const TokenTypeBearer = "bearer"
