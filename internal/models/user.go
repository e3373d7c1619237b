package models

import "time"

// User is the stored account record.
// PasswordHash never leaves the storage/auth boundary, use Public() for anything
// that is handed to callers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the externally visible view of a User
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns a copy of the user without credential material
func (u *User) Public() *PublicUser {
	p := &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
	if u.Email != nil {
		email := *u.Email
		p.Email = &email
	}
	return p
}
