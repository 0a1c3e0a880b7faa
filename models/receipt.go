package models

import (
	"encoding/json"
	"time"
)

// Receipt records an operation accepted by the ingest server. OperationID is
// the client's Idempotency-Key and is unique, so a redelivered operation maps
// onto the receipt written by its first delivery.
type Receipt struct {
	OperationID string          `json:"operation_id"`
	Kind        OperationKind   `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	TraceID     string          `json:"trace_id,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
}

// ReceiptResponse is the body returned to the submitter for an accepted
// operation.
type ReceiptResponse struct {
	OperationID string    `json:"operation_id"`
	Duplicate   bool      `json:"duplicate"`
	ReceivedAt  time.Time `json:"received_at"`
}
