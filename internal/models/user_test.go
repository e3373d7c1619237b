package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Public(t *testing.T) {
	email := "alice@example.com"
	u := &User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "$2a$04$secret",
		Email:        &email,
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	p := u.Public()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.Username, p.Username)
	assert.Equal(t, u.CreatedAt, p.CreatedAt)
	require.NotNil(t, p.Email)
	assert.Equal(t, email, *p.Email)

	// the view must not alias the record
	*p.Email = "changed@example.com"
	assert.Equal(t, "alice@example.com", *u.Email)
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := &User{ID: "id-1", Username: "alice", PasswordHash: "hash-value"}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash-value")
	assert.NotContains(t, string(data), "password")

	data, err = json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.Contains(t, string(data), `"email":null`)
}
