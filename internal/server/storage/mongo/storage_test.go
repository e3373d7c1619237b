package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iudanet/civicdesk/internal/server/storage"
)

var _ storage.Store = (*Storage)(nil)

func TestUserDoc_ToModel(t *testing.T) {
	id := primitive.NewObjectID()
	email := "alice@example.com"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	u := userDoc{
		ID:           id,
		Username:     "alice",
		PasswordHash: "hash",
		Email:        &email,
		CreatedAt:    created,
	}.toModel()

	assert.Equal(t, id.Hex(), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, &email, u.Email)
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
	assert.True(t, created.Equal(u.CreatedAt))
}

// newIntegrationStorage connects to CIVICDESK_TEST_MONGO_URL and uses a
// throwaway database that is dropped on cleanup.
func newIntegrationStorage(t *testing.T) *Storage {
	t.Helper()
	uri := os.Getenv("CIVICDESK_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("CIVICDESK_TEST_MONGO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("civicdesk_test_%d", time.Now().UnixNano())
	s, err := New(ctx, uri, dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.users.Database().Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestStorage_Integration(t *testing.T) {
	s := newIntegrationStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	created, err := s.CreateUser(ctx, "alice", "hash", nil)
	require.NoError(t, err)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.CreateUser(ctx, "alice", "other", nil)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
