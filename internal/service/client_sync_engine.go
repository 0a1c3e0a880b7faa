package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

// DefaultMaxRetries is used when the engine is built with a non-positive limit.
const DefaultMaxRetries = 3

type syncEngine struct {
	queue      OperationQueue
	submitter  adapter.RemoteSubmitter
	monitor    ConnectivityMonitor
	maxRetries int
	observer   metrics.SyncObserver
	now        func() time.Time

	syncing atomic.Bool

	mu                  sync.RWMutex
	progress            int
	lastSyncCompletedAt *time.Time
	lastErrors          []string
	lastResult          *models.SyncResult

	subsMu      sync.Mutex
	nextSubID   uint64
	statusSubs  map[uint64]func(models.SyncStatus)
	completeSub map[uint64]func(bool, int)

	detach []func()

	logger *logger.Logger
}

// NewSyncEngine wires an engine to its queue, submitter and connectivity
// source. The engine starts idle; passes run only when Sync is called.
func NewSyncEngine(
	queue OperationQueue,
	submitter adapter.RemoteSubmitter,
	monitor ConnectivityMonitor,
	maxRetries int,
	observer metrics.SyncObserver,
	logger *logger.Logger,
) SyncEngine {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if observer == nil {
		observer = metrics.NopSyncObserver{}
	}

	e := &syncEngine{
		queue:       queue,
		submitter:   submitter,
		monitor:     monitor,
		maxRetries:  maxRetries,
		observer:    observer,
		now:         time.Now,
		statusSubs:  make(map[uint64]func(models.SyncStatus)),
		completeSub: make(map[uint64]func(bool, int)),
		logger:      logger,
	}

	e.detach = append(e.detach,
		monitor.Subscribe(func(state models.Connectivity) {
			e.logger.Info().Str("connectivity", string(state)).Msg("connectivity changed")
			e.observer.ConnectivityChanged(state)
			e.publish()
		}),
		queue.OnChange(func(int) {
			e.publish()
		}),
	)

	return e
}

func (e *syncEngine) TriggerManualSync(ctx context.Context) (models.SyncResult, error) {
	return e.Sync(ctx, models.TriggerManual)
}

func (e *syncEngine) Sync(ctx context.Context, trigger models.SyncTrigger) (models.SyncResult, error) {
	if e.monitor.State() == models.Offline {
		return models.SyncResult{}, e.refuse(trigger, ErrSyncOffline)
	}
	if e.queue.Len() == 0 {
		return models.SyncResult{}, e.refuse(trigger, ErrQueueEmpty)
	}
	if !e.syncing.CompareAndSwap(false, true) {
		return models.SyncResult{}, e.refuse(trigger, ErrSyncInProgress)
	}

	result := e.runPass(ctx, trigger)
	return result, nil
}

func (e *syncEngine) refuse(trigger models.SyncTrigger, reason error) error {
	e.observer.TriggerRefused(trigger, reason.Error())
	return reason
}

// runPass must only be called by the goroutine that set syncing.
func (e *syncEngine) runPass(ctx context.Context, trigger models.SyncTrigger) models.SyncResult {
	defer e.syncing.Store(false)

	snapshot := e.queue.All()
	result := models.SyncResult{
		Trigger:      trigger,
		SnapshotSize: len(snapshot),
		StartedAt:    e.now().UTC(),
	}

	log := e.logger.GetChildLogger()
	log.Info().Str("trigger", string(trigger)).Int("snapshot", len(snapshot)).Msg("sync pass started")

	e.mu.Lock()
	e.progress = 0
	e.lastErrors = nil
	e.mu.Unlock()
	e.publish()

	processed := 0
	for _, op := range snapshot {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Int("processed", processed).Msg("sync pass interrupted")
			break
		}

		if !e.queue.Contains(op.ID) {
			result.SkippedCount++
		} else if !e.deliver(ctx, op, &result) {
			break
		}

		processed++
		e.setProgress(processed, len(snapshot))
	}

	completed := e.now().UTC()
	result.CompletedAt = completed

	e.mu.Lock()
	e.lastSyncCompletedAt = &completed
	stored := result
	e.lastResult = &stored
	e.mu.Unlock()
	e.syncing.Store(false)
	e.publish()

	log.Info().
		Str("trigger", string(trigger)).
		Int("delivered", result.SuccessCount).
		Int("retrying", result.TransientFailureCount).
		Int("evicted", result.PermanentFailureCount).
		Dur("duration", completed.Sub(result.StartedAt)).
		Msg("sync pass finished")

	e.fireComplete(result.OverallSuccess(), result.SuccessCount)
	e.observer.PassCompleted(result, completed.Sub(result.StartedAt))

	return result
}

// deliver submits one operation and applies the outcome to the queue. It
// returns false when the pass must stop because ctx was cancelled.
func (e *syncEngine) deliver(ctx context.Context, op models.QueuedOperation, result *models.SyncResult) bool {
	log := e.logger.WithOperation(op)

	err := e.submit(ctx, op)
	if err == nil {
		if rmErr := e.queue.Remove(ctx, op.ID); rmErr != nil {
			log.Warn().Err(rmErr).Msg("delivered operation removed from memory only")
		}
		result.SuccessCount++
		e.observer.OperationDelivered(op.Kind)
		log.Debug().Msg("operation delivered")
		return true
	}

	if ctx.Err() != nil {
		log.Warn().Err(err).Msg("delivery aborted")
		return false
	}

	retries, incErr := e.queue.IncrementRetry(ctx, op.ID)
	switch {
	case errors.Is(incErr, ErrOperationNotFound):
		log.Debug().Msg("operation cleared during delivery")
		result.SkippedCount++
		return true
	case incErr != nil:
		log.Warn().Err(incErr).Msg("retry count updated in memory only")
	}

	if retries < e.maxRetries {
		result.TransientFailureCount++
		e.observer.OperationRetried(op.Kind)
		log.Warn().Err(err).Int("attempts", retries).Msg("delivery failed, will retry")
		return true
	}

	if rmErr := e.queue.Remove(ctx, op.ID); rmErr != nil {
		log.Warn().Err(rmErr).Msg("evicted operation removed from memory only")
	}

	msg := fmt.Sprintf("%s operation %s dropped after %d failed attempts: %v", op.Kind, op.ID, retries, err)
	evicted := op.Clone()
	evicted.RetryCount = retries

	result.PermanentFailureCount++
	result.Evicted = append(result.Evicted, evicted)
	result.Errors = append(result.Errors, msg)

	e.mu.Lock()
	e.lastErrors = append(e.lastErrors, msg)
	e.mu.Unlock()

	e.observer.OperationEvicted(op.Kind)
	log.Error().Err(err).Int("attempts", retries).Msg("operation evicted")

	return true
}

// submit calls the submitter and converts a panic into a delivery error.
func (e *syncEngine) submit(ctx context.Context, op models.QueuedOperation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSubmitterPanic, r)
		}
	}()

	return e.submitter.Submit(utils.WithOperationID(ctx, op.ID), op.Kind, op.Payload)
}

func (e *syncEngine) setProgress(processed, total int) {
	percent := 100
	if total > 0 {
		percent = int(math.Round(100 * float64(processed) / float64(total)))
	}

	e.mu.Lock()
	if percent > e.progress {
		e.progress = percent
	}
	e.mu.Unlock()
	e.publish()
}

func (e *syncEngine) Enqueue(ctx context.Context, kind models.OperationKind, payload json.RawMessage) (models.QueuedOperation, error) {
	return e.queue.Enqueue(ctx, kind, payload)
}

func (e *syncEngine) ClearQueue(ctx context.Context) error {
	return e.queue.Clear(ctx)
}

func (e *syncEngine) Status() models.SyncStatus {
	e.mu.RLock()
	status := models.SyncStatus{
		ProgressPercent: e.progress,
	}
	if e.lastSyncCompletedAt != nil {
		t := *e.lastSyncCompletedAt
		status.LastSyncCompletedAt = &t
	}
	if len(e.lastErrors) > 0 {
		status.LastErrors = append([]string(nil), e.lastErrors...)
	}
	if e.lastResult != nil {
		r := *e.lastResult
		r.Evicted = append([]models.QueuedOperation(nil), r.Evicted...)
		r.Errors = append([]string(nil), r.Errors...)
		status.LastResult = &r
	}
	e.mu.RUnlock()

	status.Connectivity = e.monitor.State()
	status.Syncing = e.syncing.Load()
	status.PendingCount = e.queue.Len()
	status.RetryingCount = e.queue.RetryingCount()
	status.StorageDegraded = e.queue.StorageDegraded()

	return status
}

func (e *syncEngine) Subscribe(fn func(models.SyncStatus)) func() {
	e.subsMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.statusSubs[id] = fn
	e.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.subsMu.Lock()
			delete(e.statusSubs, id)
			e.subsMu.Unlock()
		})
	}
}

func (e *syncEngine) OnComplete(fn func(overallSuccess bool, delivered int)) func() {
	e.subsMu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.completeSub[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.completeSub, id)
		e.subsMu.Unlock()
	}
}

func (e *syncEngine) Close() {
	for _, fn := range e.detach {
		fn()
	}
	e.detach = nil
}

func (e *syncEngine) publish() {
	e.subsMu.Lock()
	if len(e.statusSubs) == 0 {
		e.subsMu.Unlock()
		return
	}
	fns := make([]func(models.SyncStatus), 0, len(e.statusSubs))
	for _, fn := range e.statusSubs {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()

	status := e.Status()
	for _, fn := range fns {
		fn(status)
	}
}

func (e *syncEngine) fireComplete(overallSuccess bool, delivered int) {
	e.subsMu.Lock()
	fns := make([]func(bool, int), 0, len(e.completeSub))
	for _, fn := range e.completeSub {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()

	for _, fn := range fns {
		fn(overallSuccess, delivered)
	}
}
