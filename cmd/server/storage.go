package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/civicdesk/internal/server/config"
	"github.com/iudanet/civicdesk/internal/server/storage"
	"github.com/iudanet/civicdesk/internal/server/storage/boltdb"
	"github.com/iudanet/civicdesk/internal/server/storage/memory"
	"github.com/iudanet/civicdesk/internal/server/storage/mongo"
	"github.com/iudanet/civicdesk/internal/server/storage/postgres"
	"github.com/iudanet/civicdesk/internal/server/storage/sqlite"
)

// openStorage opens the credential store selected by cfg.StorageDriver
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		store, err = sqlite.New(ctx, cfg.DatabaseDSN)
	case config.DriverPostgres:
		store, err = postgres.New(ctx, cfg.DatabaseDSN)
	case config.DriverMongo:
		store, err = mongo.New(ctx, cfg.MongoURL, cfg.MongoDB)
	case config.DriverBolt:
		store, err = boltdb.New(ctx, cfg.BoltPath)
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, accounts are lost on restart")
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	logger.Info("Storage opened", slog.String("driver", cfg.StorageDriver))
	return store, nil
}
