package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/civicdesk/internal/server/config"
	"github.com/iudanet/civicdesk/internal/server/storage/boltdb"
	"github.com/iudanet/civicdesk/internal/server/storage/memory"
	"github.com/iudanet/civicdesk/internal/server/storage/sqlite"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &out))
	assert.Contains(t, out.String(), "Version:    dev")
}

func TestRun_RefusesMissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	err := run(context.Background(), []string{"-storage", "memory"}, io.Discard)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestOpenStorage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	tests := []struct {
		want   any
		cfg    *config.Config
		name   string
		failed bool
	}{
		{name: "memory", cfg: &config.Config{StorageDriver: config.DriverMemory}, want: &memory.Storage{}},
		{name: "sqlite", cfg: &config.Config{StorageDriver: config.DriverSQLite, DatabaseDSN: filepath.Join(dir, "a.db")}, want: &sqlite.Storage{}},
		{name: "bolt", cfg: &config.Config{StorageDriver: config.DriverBolt, BoltPath: filepath.Join(dir, "a.bolt")}, want: &boltdb.Storage{}},
		{name: "unknown", cfg: &config.Config{StorageDriver: "redis"}, failed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := openStorage(context.Background(), tt.cfg, logger)
			if tt.failed {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer store.Close()

			assert.IsType(t, tt.want, store)
			assert.NoError(t, store.Ping(context.Background()))
		})
	}
}
