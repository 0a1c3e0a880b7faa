package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

// degradedAfter is the number of consecutive failed writes after which the
// queue reports degraded storage.
const degradedAfter = 3

type operationQueue struct {
	store    store.QueueStore
	ids      *utils.UUIDGenerator
	now      func() time.Time
	observer metrics.SyncObserver

	mu  sync.RWMutex
	ops []models.QueuedOperation
	seq uint64 // bumped on every mutation

	// persistMu orders writes; savedSeq is the newest state written.
	persistMu        sync.Mutex
	savedSeq         uint64
	dirty            atomic.Bool
	consecutiveFails atomic.Int32

	listenersMu sync.Mutex
	listeners   map[uint64]func(int)
	nextID      uint64

	logger *logger.Logger
}

// NewOperationQueue returns an empty queue backed by s. Call Load to restore
// the persisted state.
func NewOperationQueue(s store.QueueStore, observer metrics.SyncObserver, logger *logger.Logger) OperationQueue {
	if observer == nil {
		observer = metrics.NopSyncObserver{}
	}

	return &operationQueue{
		store:     s,
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		observer:  observer,
		ops:       make([]models.QueuedOperation, 0),
		listeners: make(map[uint64]func(int)),
		logger:    logger,
	}
}

func (q *operationQueue) Load(ctx context.Context) error {
	loaded, err := q.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrCorruptQueueState), errors.Is(err, store.ErrIncompatibleQueueVersion):
		q.logger.Error().Err(err).Msg("stored queue is unusable, starting with an empty queue")
		loaded = nil
	default:
		return fmt.Errorf("load queue: %w", err)
	}

	ops := make([]models.QueuedOperation, 0, len(loaded))
	seen := make(map[string]struct{}, len(loaded))
	for _, op := range loaded {
		if op.ID == "" {
			q.logger.Warn().Str("kind", op.Kind.String()).Msg("dropping stored operation without id")
			continue
		}
		if _, dup := seen[op.ID]; dup {
			q.logger.Warn().Str("operation_id", op.ID).Msg("dropping stored operation with duplicate id")
			continue
		}
		seen[op.ID] = struct{}{}
		if op.RetryCount < 0 {
			op.RetryCount = 0
		}
		ops = append(ops, op)
	}

	q.mu.Lock()
	q.ops = ops
	q.seq++
	q.mu.Unlock()

	q.logger.Info().Int("pending", len(ops)).Msg("queue loaded")
	q.notify(len(ops))

	return nil
}

func (q *operationQueue) Enqueue(ctx context.Context, kind models.OperationKind, payload json.RawMessage) (models.QueuedOperation, error) {
	if !kind.Valid() {
		return models.QueuedOperation{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !json.Valid(payload) {
		return models.QueuedOperation{}, ErrInvalidPayload
	}

	body := make(json.RawMessage, len(payload))
	copy(body, payload)

	q.mu.Lock()
	op := models.QueuedOperation{
		ID:              q.uniqueID(),
		Kind:            kind,
		Payload:         body,
		EnqueuedAt:      q.now().UTC(),
		RetryCount:      0,
		ApproximateSize: len(body),
	}
	q.ops = append(q.ops, op)
	snapshot, seq := q.snapshotLocked()
	q.mu.Unlock()

	q.logger.WithOperation(op).Debug().Int("size", op.ApproximateSize).Msg("operation enqueued")

	err := q.persist(ctx, snapshot, seq)
	q.notify(len(snapshot))

	return op.Clone(), err
}

func (q *operationQueue) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	idx := q.indexLocked(id)
	if idx < 0 {
		q.mu.Unlock()
		return nil
	}
	q.ops = append(q.ops[:idx], q.ops[idx+1:]...)
	snapshot, seq := q.snapshotLocked()
	q.mu.Unlock()

	err := q.persist(ctx, snapshot, seq)
	q.notify(len(snapshot))

	return err
}

func (q *operationQueue) IncrementRetry(ctx context.Context, id string) (int, error) {
	q.mu.Lock()
	idx := q.indexLocked(id)
	if idx < 0 {
		q.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}
	q.ops[idx].RetryCount++
	count := q.ops[idx].RetryCount
	snapshot, seq := q.snapshotLocked()
	q.mu.Unlock()

	err := q.persist(ctx, snapshot, seq)
	q.notify(len(snapshot))

	return count, err
}

func (q *operationQueue) Clear(ctx context.Context) error {
	q.mu.Lock()
	dropped := len(q.ops)
	q.ops = make([]models.QueuedOperation, 0)
	snapshot, seq := q.snapshotLocked()
	q.mu.Unlock()

	if dropped > 0 {
		q.logger.Warn().Int("dropped", dropped).Msg("queue cleared")
	}

	err := q.persist(ctx, snapshot, seq)
	q.notify(0)

	return err
}

func (q *operationQueue) Flush(ctx context.Context) error {
	if !q.dirty.Load() {
		return nil
	}

	// snapshotLocked advances seq, so a write lock is required.
	q.mu.Lock()
	snapshot, seq := q.snapshotLocked()
	q.mu.Unlock()

	return q.persist(ctx, snapshot, seq)
}

func (q *operationQueue) All() []models.QueuedOperation {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]models.QueuedOperation, len(q.ops))
	for i, op := range q.ops {
		out[i] = op.Clone()
	}
	return out
}

func (q *operationQueue) Contains(id string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.indexLocked(id) >= 0
}

func (q *operationQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.ops)
}

func (q *operationQueue) RetryingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	n := 0
	for _, op := range q.ops {
		if op.RetryCount > 0 {
			n++
		}
	}
	return n
}

func (q *operationQueue) StorageDegraded() bool {
	return q.consecutiveFails.Load() >= degradedAfter
}

func (q *operationQueue) OnChange(fn func(pending int)) func() {
	q.listenersMu.Lock()
	id := q.nextID
	q.nextID++
	q.listeners[id] = fn
	q.listenersMu.Unlock()

	return func() {
		q.listenersMu.Lock()
		delete(q.listeners, id)
		q.listenersMu.Unlock()
	}
}

// persist writes snapshot unless a newer state was already written. A
// failure leaves the queue dirty so the next mutation or Flush retries.
func (q *operationQueue) persist(ctx context.Context, snapshot []models.QueuedOperation, seq uint64) error {
	q.persistMu.Lock()
	defer q.persistMu.Unlock()

	if seq <= q.savedSeq {
		return nil
	}

	if err := q.store.Save(ctx, snapshot); err != nil {
		q.dirty.Store(true)
		fails := q.consecutiveFails.Add(1)
		q.observer.PersistFailed()

		event := q.logger.Warn()
		if fails >= degradedAfter {
			event = q.logger.Error()
		}
		event.Err(err).Int32("consecutive_failures", fails).Int("pending", len(snapshot)).Msg("failed to persist queue")

		return fmt.Errorf("%w: %w", ErrNotDurable, err)
	}

	q.savedSeq = seq
	q.dirty.Store(false)
	if q.consecutiveFails.Swap(0) >= degradedAfter {
		q.logger.Info().Msg("queue persistence recovered")
	}

	return nil
}

func (q *operationQueue) notify(pending int) {
	q.observer.QueueLength(pending)

	q.listenersMu.Lock()
	fns := make([]func(int), 0, len(q.listeners))
	for _, fn := range q.listeners {
		fns = append(fns, fn)
	}
	q.listenersMu.Unlock()

	for _, fn := range fns {
		fn(pending)
	}
}

// snapshotLocked must be called with mu held. The snapshot shares payload
// buffers with the queue; payloads are never mutated in place.
func (q *operationQueue) snapshotLocked() ([]models.QueuedOperation, uint64) {
	q.seq++
	out := make([]models.QueuedOperation, len(q.ops))
	copy(out, q.ops)
	return out, q.seq
}

func (q *operationQueue) indexLocked(id string) int {
	for i := range q.ops {
		if q.ops[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *operationQueue) uniqueID() string {
	for {
		id := q.ids.Generate()
		if q.indexLocked(id) < 0 {
			return id
		}
	}
}
