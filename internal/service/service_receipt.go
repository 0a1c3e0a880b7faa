package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

type receiptService struct {
	repo store.ReceiptRepository
	now  func() time.Time

	logger *logger.Logger
}

func NewReceiptService(repo store.ReceiptRepository, logger *logger.Logger) ReceiptService {
	return &receiptService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *receiptService) Accept(ctx context.Context, kind models.OperationKind, operationID, traceID string, payload json.RawMessage) (models.ReceiptResponse, error) {
	if !kind.Valid() {
		return models.ReceiptResponse{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if operationID == "" {
		return models.ReceiptResponse{}, ErrMissingIdempotencyKey
	}

	stored, duplicate, err := s.repo.Save(ctx, models.Receipt{
		OperationID: operationID,
		Kind:        kind,
		Payload:     payload,
		TraceID:     traceID,
		ReceivedAt:  s.now().UTC(),
	})
	if err != nil {
		return models.ReceiptResponse{}, fmt.Errorf("error saving receipt: %w", err)
	}

	event := s.logger.Info()
	if duplicate {
		event = s.logger.Debug()
	}
	event.Str("operation_id", operationID).
		Str("kind", kind.String()).
		Str("trace_id", traceID).
		Bool("duplicate", duplicate).
		Msg("operation accepted")

	return models.ReceiptResponse{
		OperationID: stored.OperationID,
		Duplicate:   duplicate,
		ReceivedAt:  stored.ReceivedAt,
	}, nil
}
