package service

import (
	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/store"
)

// ClientServices groups the field client services. The queue must be
// loaded before the job is started.
type ClientServices struct {
	Queue   OperationQueue
	Engine  SyncEngine
	SyncJob SyncJob
}

func NewClientServices(
	queueStore store.QueueStore,
	submitter adapter.RemoteSubmitter,
	monitor ConnectivityMonitor,
	cfg config.ClientSync,
	observer metrics.SyncObserver,
	logger *logger.Logger,
) *ClientServices {
	queue := NewOperationQueue(queueStore, observer, logger)
	engine := NewSyncEngine(queue, submitter, monitor, cfg.MaxRetries, observer, logger)

	return &ClientServices{
		Queue:   queue,
		Engine:  engine,
		SyncJob: NewClientSyncJob(engine, queue, monitor, cfg.Interval, logger),
	}
}
