// Package metrics instruments the sync engine and the ingest server.
//
// Components depend on the small observer interfaces below. The prometheus
// implementations register on their own registry, exposed by Handler, so two
// observers never collide on metric names in one process or in tests.
package metrics

import (
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

// SyncObserver receives sync engine events.
type SyncObserver interface {
	PassCompleted(result models.SyncResult, duration time.Duration)
	TriggerRefused(trigger models.SyncTrigger, reason string)
	OperationDelivered(kind models.OperationKind)
	OperationRetried(kind models.OperationKind)
	OperationEvicted(kind models.OperationKind)
	QueueLength(pending int)
	ConnectivityChanged(state models.Connectivity)
	PersistFailed()
}

// IngestObserver receives ingest server events.
type IngestObserver interface {
	OperationAccepted(kind models.OperationKind)
	OperationDuplicate(kind models.OperationKind)
	OperationRejected(kind models.OperationKind, status int)
}

// NopSyncObserver discards every event.
type NopSyncObserver struct{}

func (NopSyncObserver) PassCompleted(models.SyncResult, time.Duration) {}
func (NopSyncObserver) TriggerRefused(models.SyncTrigger, string) {}
func (NopSyncObserver) OperationDelivered(models.OperationKind) {}
func (NopSyncObserver) OperationRetried(models.OperationKind) {}
func (NopSyncObserver) OperationEvicted(models.OperationKind) {}
func (NopSyncObserver) QueueLength(int) {}
func (NopSyncObserver) ConnectivityChanged(models.Connectivity) {}
func (NopSyncObserver) PersistFailed() {}

// NopIngestObserver discards every event.
type NopIngestObserver struct{}

func (NopIngestObserver) OperationAccepted(models.OperationKind) {}
func (NopIngestObserver) OperationDuplicate(models.OperationKind) {}
func (NopIngestObserver) OperationRejected(models.OperationKind, int) {}
