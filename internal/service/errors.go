package service

import "errors"

// Reasons a sync trigger is refused. The pass does not start and nothing is
// queued for later.
var (
	ErrSyncOffline    = errors.New("sync refused: remote is offline")
	ErrQueueEmpty     = errors.New("sync refused: queue is empty")
	ErrSyncInProgress = errors.New("sync refused: a sync pass is already running")
)

// Operation queue errors.
var (
	// ErrNotDurable is returned (wrapped) when a mutation was applied in
	// memory but could not be written to the durable store. The next
	// successful write persists it.
	ErrNotDurable = errors.New("queue change was not persisted")

	ErrOperationNotFound = errors.New("operation not found in queue")
	ErrSubmitterPanic    = errors.New("submitter panicked")
	ErrInvalidPayload    = errors.New("payload is not valid JSON")
	ErrUnknownKind       = errors.New("unknown operation kind")
)

// Ingest errors.
var (
	ErrMissingIdempotencyKey = errors.New("missing idempotency key")
	ErrInvalidOperation      = errors.New("operation failed validation")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// IsRefusal reports whether err is one of the trigger refusal reasons.
func IsRefusal(err error) bool {
	return errors.Is(err, ErrSyncOffline) ||
		errors.Is(err, ErrQueueEmpty) ||
		errors.Is(err, ErrSyncInProgress)
}
