package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// receiptRepository is the PostgreSQL implementation of [ReceiptRepository].
// operation_id is the primary key, so a redelivered operation hits
// ON CONFLICT DO NOTHING and the first receipt is returned instead.
type receiptRepository struct {
	db      *DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewReceiptRepository constructs a [ReceiptRepository] on db.
func NewReceiptRepository(db *DB, logger *logger.Logger) ReceiptRepository {
	logger.Debug().Msg("creating receipt repository")
	return &receiptRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

// Save inserts r and reports whether a receipt with the same operation id
// already existed. ReceivedAt is assigned by the database on first insert.
func (r *receiptRepository) Save(ctx context.Context, receipt models.Receipt) (models.Receipt, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Insert(receiptsTable).
		Columns("operation_id", "kind", "payload", "trace_id").
		Values(receipt.OperationID, receipt.Kind.String(), string(receipt.Payload), receipt.TraceID).
		Suffix("ON CONFLICT (operation_id) DO NOTHING RETURNING received_at").
		ToSql()
	if err != nil {
		return models.Receipt{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var receivedAt time.Time
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&receivedAt)
	switch {
	case err == nil:
		receipt.ReceivedAt = receivedAt
		return receipt, false, nil
	case errors.Is(err, sql.ErrNoRows):
		// conflict: the operation was received before
		existing, findErr := r.FindByOperationID(ctx, receipt.OperationID)
		if findErr != nil {
			return models.Receipt{}, false, findErr
		}
		return existing, true, nil
	default:
		log.Err(err).
			Str("func", "*receiptRepository.Save").
			Str("pg_code", postgresError(err)).
			Msg("error inserting receipt")
		return models.Receipt{}, false, r.wrapDBError(err)
	}
}

// FindByOperationID loads the receipt stored for id.
func (r *receiptRepository) FindByOperationID(ctx context.Context, id string) (models.Receipt, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(receiptColumns...).
		From(receiptsTable).
		Where(sq.Eq{"operation_id": id}).
		ToSql()
	if err != nil {
		return models.Receipt{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		receipt models.Receipt
		kind    string
		payload []byte
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&receipt.OperationID, &kind, &payload, &receipt.TraceID, &receipt.ReceivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Receipt{}, ErrReceiptNotFound
		}
		log.Err(err).Str("func", "*receiptRepository.FindByOperationID").Msg("error selecting receipt")
		return models.Receipt{}, r.wrapDBError(err)
	}

	receipt.Kind = models.OperationKind(kind)
	receipt.Payload = payload
	return receipt, nil
}

func (r *receiptRepository) wrapDBError(err error) error {
	if r.db.errorClassificator != nil && r.db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}
