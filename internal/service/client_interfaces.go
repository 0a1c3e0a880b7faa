package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-field-sync/models"
)

// OperationQueue is the authoritative in-memory list of pending operations,
// mirrored to a durable store after every mutation. It is the only writer of
// that list; readers get deep-copied snapshots.
type OperationQueue interface {
	// Load replaces the in-memory list with the durable store contents.
	// Corrupt or incompatible stored state is logged and loads as an empty
	// queue; other store errors are returned.
	Load(ctx context.Context) error

	// Enqueue appends a new operation with RetryCount 0 and persists the
	// queue before returning. If persistence fails the operation is still
	// queued in memory and the error wraps ErrNotDurable.
	Enqueue(ctx context.Context, kind models.OperationKind, payload json.RawMessage) (models.QueuedOperation, error)

	// Remove deletes the operation with id. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// IncrementRetry adds one to the RetryCount of id and returns the new
	// value. Returns ErrOperationNotFound if id is absent.
	IncrementRetry(ctx context.Context, id string) (int, error)

	// Clear drops every pending operation.
	Clear(ctx context.Context) error

	// Flush writes the current list if an earlier write failed.
	Flush(ctx context.Context) error

	// All returns a FIFO snapshot.
	All() []models.QueuedOperation

	// Contains reports whether id is still queued.
	Contains(id string) bool

	// Len returns the number of pending operations.
	Len() int

	// RetryingCount returns the number of pending operations with at least
	// one failed attempt.
	RetryingCount() int

	// StorageDegraded reports whether the last few writes all failed.
	StorageDegraded() bool

	// OnChange registers fn to be called after every mutation with the new
	// queue length. The returned function removes it.
	OnChange(fn func(pending int)) (remove func())
}

// ConnectivityMonitor is the read side of connectivity.Monitor.
type ConnectivityMonitor interface {
	State() models.Connectivity
	Subscribe(fn func(models.Connectivity)) (unsubscribe func())
}

// SyncEngine drives sync passes over the operation queue.
type SyncEngine interface {
	// Sync runs one pass for trigger. It returns ErrSyncOffline,
	// ErrQueueEmpty or ErrSyncInProgress without doing anything when the
	// pass may not start.
	Sync(ctx context.Context, trigger models.SyncTrigger) (models.SyncResult, error)

	// TriggerManualSync is Sync with the manual trigger.
	TriggerManualSync(ctx context.Context) (models.SyncResult, error)

	// Enqueue adds an operation to the queue.
	Enqueue(ctx context.Context, kind models.OperationKind, payload json.RawMessage) (models.QueuedOperation, error)

	// ClearQueue drops every pending operation. It may be called while a
	// pass is running; the pass skips operations that are no longer queued.
	ClearQueue(ctx context.Context) error

	// Status returns a snapshot for rendering.
	Status() models.SyncStatus

	// Subscribe registers fn to receive a status snapshot after every
	// change. The returned function removes it.
	Subscribe(fn func(models.SyncStatus)) (unsubscribe func())

	// OnComplete registers fn to be called once at the end of every pass.
	OnComplete(fn func(overallSuccess bool, delivered int)) (remove func())

	// Close detaches the engine from the connectivity monitor and the queue.
	Close()
}

// SyncJob owns the automatic sync triggers: a periodic timer and the
// offline to online connectivity transition.
type SyncJob interface {
	// Start runs the job in a background goroutine, replacing any running
	// instance.
	Start(ctx context.Context)

	// Stop cancels the background goroutine and waits for it to exit.
	Stop()

	// Run blocks until ctx is cancelled.
	Run(ctx context.Context) error
}
