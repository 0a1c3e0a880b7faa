package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
)

// NewQueueStore builds the durable queue backend selected by cfg.Driver:
//   - "file": a versioned JSON blob at cfg.Path
//   - "sqlite": a SQLite database at cfg.Path, migrated on open
func NewQueueStore(ctx context.Context, cfg config.ClientQueue, logger *logger.Logger) (QueueStore, error) {
	logger.Info().Str("driver", cfg.Driver).Str("path", cfg.Path).Msg("creating queue store...")

	switch cfg.Driver {
	case config.QueueDriverFile:
		return NewFileQueueStore(cfg.Path, logger)
	case config.QueueDriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}

		if err = db.MigrateClient(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewSQLiteQueueStore(db, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQueueDriver, cfg.Driver)
	}
}
