package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// DefaultSyncInterval is the timer period used when none is configured.
const DefaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	engine   SyncEngine
	queue    OperationQueue
	monitor  ConnectivityMonitor
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that starts sync passes on a ticker and on
// every offline to online transition. The job is idle until Start or Run is
// called. If interval is zero or negative it defaults to DefaultSyncInterval.
func NewClientSyncJob(engine SyncEngine, queue OperationQueue, monitor ConnectivityMonitor, interval time.Duration, logger *logger.Logger) SyncJob {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	return &clientSyncJob{
		engine:   engine,
		queue:    queue,
		monitor:  monitor,
		interval: interval,
		logger:   logger,
	}
}

// Start stops any previously running job, then runs the job in a background
// goroutine until ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		_ = j.Run(jobCtx)
	}()
}

// Stop cancels the background goroutine and blocks until it has exited. Safe
// to call when the job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *clientSyncJob) Run(ctx context.Context) error {
	// One pending kick is enough: a second one would find the pass
	// already running or the queue already drained.
	kick := make(chan struct{}, 1)
	unsubscribe := j.monitor.Subscribe(func(state models.Connectivity) {
		if state != models.Online {
			return
		}
		select {
		case kick <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-kick:
			j.trigger(ctx, models.TriggerConnectivity)
		case <-t.C:
			if err := j.queue.Flush(ctx); err != nil {
				j.logger.Warn().Err(err).Msg("queue flush failed")
			}
			j.trigger(ctx, models.TriggerTimer)
		}
	}
}

func (j *clientSyncJob) trigger(ctx context.Context, trigger models.SyncTrigger) {
	result, err := j.engine.Sync(ctx, trigger)
	switch {
	case IsRefusal(err):
		j.logger.Debug().Str("trigger", string(trigger)).Str("reason", err.Error()).Msg("sync not started")
	case err != nil:
		j.logger.Error().Err(err).Str("trigger", string(trigger)).Msg("sync failed")
	case !result.OverallSuccess():
		j.logger.Warn().Str("trigger", string(trigger)).Int("delivered", result.SuccessCount).
			Int("pending", j.queue.Len()).Msg("sync left operations pending")
	}
}
