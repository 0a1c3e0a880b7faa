package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// sqliteQueueStore keeps one row per pending operation. position preserves
// FIFO order; Save rewrites all rows inside a single transaction.
type sqliteQueueStore struct {
	db     *DB
	logger *logger.Logger
}

// NewSQLiteQueueStore wraps an already migrated SQLite database.
func NewSQLiteQueueStore(db *DB, logger *logger.Logger) QueueStore {
	logger.Debug().Msg("creating sqlite queue store")
	return &sqliteQueueStore{db: db, logger: logger}
}

func (s *sqliteQueueStore) Load(ctx context.Context) ([]models.QueuedOperation, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, selectQueueSchemaVersion).Scan(&version); err != nil {
		s.logger.Err(err).Str("func", "*sqliteQueueStore.Load").Msg("error reading queue schema version")
		return nil, fmt.Errorf("%w: schema version: %w", ErrCorruptQueueState, err)
	}
	if version != QueueSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleQueueVersion, version, QueueSchemaVersion)
	}

	rows, err := s.db.QueryContext(ctx, selectPendingOperations)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteQueueStore.Load").Msg("error selecting pending operations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ops := make([]models.QueuedOperation, 0)
	for rows.Next() {
		var (
			op         models.QueuedOperation
			kind       string
			payload    string
			enqueuedAt int64
		)
		if err = rows.Scan(&op.ID, &kind, &payload, &enqueuedAt, &op.RetryCount, &op.ApproximateSize); err != nil {
			s.logger.Err(err).Str("func", "*sqliteQueueStore.Load").Msg("error scanning pending operation")
			return nil, fmt.Errorf("%w: %w: %w", ErrCorruptQueueState, ErrScanningRows, err)
		}

		op.Kind = models.OperationKind(kind)
		op.Payload = []byte(payload)
		op.EnqueuedAt = time.Unix(0, enqueuedAt).UTC()
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrCorruptQueueState, ErrScanningRows, err)
	}

	return ops, nil
}

func (s *sqliteQueueStore) Save(ctx context.Context, ops []models.QueuedOperation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "*sqliteQueueStore.Save").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Err(rbErr).Str("func", "*sqliteQueueStore.Save").Msg("error rolling back transaction")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, deletePendingOperations); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	for i, op := range ops {
		_, err = tx.ExecContext(ctx, insertPendingOperation,
			i,
			op.ID,
			op.Kind.String(),
			string(op.Payload),
			op.EnqueuedAt.UnixNano(),
			op.RetryCount,
			op.ApproximateSize,
		)
		if err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrExecutingStatement, op.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqliteQueueStore) Close() error {
	return s.db.Close()
}
