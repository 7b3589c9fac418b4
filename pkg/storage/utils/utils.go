// Package storageutils opens the configured storage driver.
package storageutils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sxpeea/sxpeea/pkg/storage"
	"github.com/sxpeea/sxpeea/pkg/storage/inmemory"
	"github.com/sxpeea/sxpeea/pkg/storage/postgres"
	"github.com/sxpeea/sxpeea/pkg/storage/sqlite"
)

type NewDriverOpts struct {
	// DriverType is "memory", "sqlite" or "postgres".
	DriverType  string
	SQLitePath  string
	PostgresDSN string
	Logger      *slog.Logger
}

// NewDriver opens the storage driver described by o. SQL drivers have their
// schema created before they are returned.
func NewDriver(ctx context.Context, o *NewDriverOpts) (storage.Driver, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch o.DriverType {
	case "memory":
		logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil

	case "sqlite":
		if o.SQLitePath == "" {
			return nil, errors.New("sqlite storage requires a database path")
		}
		driver, err := sqlite.NewDriver(ctx, o.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite driver: %w", err)
		}
		logger.Info("using SQLite storage", "path", o.SQLitePath)
		return driver, nil

	case "postgres":
		if o.PostgresDSN == "" {
			return nil, errors.New("postgres storage requires a connection string")
		}
		driver, err := postgres.NewDriver(ctx, o.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL driver: %w", err)
		}
		logger.Info("using PostgreSQL storage")
		return driver, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", o.DriverType)
	}
}
