// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the persistence layer of both roles.
//
// On the client, a [QueueStore] keeps the ordered list of pending operations
// across restarts. Two backends exist: a single versioned JSON file replaced
// atomically on every save, and a SQLite database replaced inside one
// transaction. On the ingest server, a [ReceiptRepository] records accepted
// operations in PostgreSQL keyed by their idempotency key.
package store

import (
	"context"

	"github.com/MKhiriev/go-field-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueStore persists the full ordered operation list.
type QueueStore interface {
	// Load returns the stored operations in FIFO order. A store with no prior
	// state returns an empty slice and no error. State that cannot be decoded
	// is reported as ErrCorruptQueueState, state written by an unknown schema
	// version as ErrIncompatibleQueueVersion. I/O errors are returned as is.
	Load(ctx context.Context) ([]models.QueuedOperation, error)

	// Save replaces the stored list with ops. Either the whole new list or
	// the previous one is visible to the next Load, never a mix.
	Save(ctx context.Context, ops []models.QueuedOperation) error

	// Close releases the underlying resources.
	Close() error
}

// ReceiptRepository stores operations accepted by the ingest server.
type ReceiptRepository interface {
	// Save inserts r unless a receipt with the same OperationID exists. It
	// returns the stored receipt and whether it was already present.
	Save(ctx context.Context, r models.Receipt) (models.Receipt, bool, error)

	// FindByOperationID returns the receipt for id or ErrReceiptNotFound.
	FindByOperationID(ctx context.Context, id string) (models.Receipt, error)
}

// ErrorClassificator decides whether a failed database call may succeed on
// a later attempt.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
