package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-field-sync/models"
)

// ReceiptService accepts operations delivered by field clients.
type ReceiptService interface {
	// Accept stores the operation identified by operationID. A redelivery of
	// an already stored id succeeds with Duplicate set and does not write
	// again.
	Accept(ctx context.Context, kind models.OperationKind, operationID, traceID string, payload json.RawMessage) (models.ReceiptResponse, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// ReceiptServiceWrapper defines middleware composition for ReceiptService.
// Implementations wrap an existing ReceiptService to add behavior such as
// validation.
type ReceiptServiceWrapper interface {
	Wrap(ReceiptService) ReceiptService
}
