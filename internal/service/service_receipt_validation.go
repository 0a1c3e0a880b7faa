package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/validators"
	"github.com/MKhiriev/go-field-sync/models"
)

type ReceiptValidationService struct {
	inner     ReceiptService
	validator validators.Validator
}

func NewReceiptValidationService() ReceiptServiceWrapper {
	return &ReceiptValidationService{
		validator: validators.NewOperationValidator(),
	}
}

// Accept rejects unknown kinds and missing keys with the plain service
// errors so callers can tell them apart from payload problems.
func (v *ReceiptValidationService) Accept(ctx context.Context, kind models.OperationKind, operationID, traceID string, payload json.RawMessage) (models.ReceiptResponse, error) {
	receipt := models.Receipt{
		OperationID: operationID,
		Kind:        kind,
		Payload:     payload,
		TraceID:     traceID,
	}

	if err := v.validator.Validate(ctx, receipt, validators.FieldKind); err != nil {
		return models.ReceiptResponse{}, fmt.Errorf("%w: %w", ErrUnknownKind, err)
	}
	if operationID == "" {
		return models.ReceiptResponse{}, ErrMissingIdempotencyKey
	}
	if err := v.validator.Validate(ctx, receipt, validators.FieldOperationID, validators.FieldPayload); err != nil {
		return models.ReceiptResponse{}, fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}

	return v.inner.Accept(ctx, kind, operationID, traceID, payload)
}

func (v *ReceiptValidationService) Wrap(inner ReceiptService) ReceiptService {
	v.inner = inner
	return v
}
