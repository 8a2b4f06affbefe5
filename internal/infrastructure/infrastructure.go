// Package infrastructure assembles the shared subsystems behind the API:
// lifecycle coordination, logging, database, blob storage, and cache.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/pkg/cache"
	"github.com/derkuci/prefect/pkg/database"
	"github.com/derkuci/prefect/pkg/lifecycle"
	"github.com/derkuci/prefect/pkg/storage"
)

// Infrastructure bundles the shared subsystems handed to domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
}

// New constructs the infrastructure from configuration. Subsystems are
// created eagerly but connect only when Start runs.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database system: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage system: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Cache:     cache.New(&cfg.Cache, logger),
	}, nil
}

// Start registers every subsystem with the lifecycle coordinator and waits
// for the startup barrier.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start database: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start storage: %w", err)
	}
	if err := i.Cache.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start cache: %w", err)
	}

	i.Lifecycle.WaitForStartup()
	return nil
}
