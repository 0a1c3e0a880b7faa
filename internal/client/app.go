package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/workers"
)

const shutdownTimeout = 5 * time.Second

var _ Client = (*App)(nil)

// UI is the foreground part of the client. Run blocks until the user quits
// or ctx is cancelled.
type UI interface {
	Run(ctx context.Context) error
}

// App owns the client process lifecycle: it restores the queue, runs the
// background workers next to the UI and tears everything down on exit.
type App struct {
	services   *service.ClientServices
	ui         UI
	background *workers.Workers

	logger *logger.Logger
}

// NewApp assembles an App. background may be nil when nothing runs next to
// the UI; the sync job is always added to it.
func NewApp(services *service.ClientServices, ui UI, background *workers.Workers, logger *logger.Logger) (*App, error) {
	if services == nil || services.Queue == nil || services.Engine == nil || services.SyncJob == nil {
		return nil, ErrNoClientServices
	}
	if ui == nil {
		return nil, ErrNoUI
	}
	if background == nil {
		background = workers.New()
	}
	background.Add(services.SyncJob)

	return &App{
		services:   services,
		ui:         ui,
		background: background,
		logger:     logger,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	if err := a.services.Queue.Load(ctx); err != nil {
		return fmt.Errorf("restore queue: %w", err)
	}
	a.logger.Info().Int("pending", a.services.Queue.Len()).Msg("queue restored")

	bgCtx, cancel := context.WithCancel(ctx)
	bgDone := make(chan error, 1)
	go func() {
		bgDone <- a.background.Run(bgCtx)
	}()

	uiErr := a.ui.Run(ctx)
	if uiErr != nil && ctx.Err() != nil {
		// the program reports its own cancellation; that is a normal exit
		uiErr = nil
	}

	cancel()
	bgErr := <-bgDone
	a.services.Engine.Close()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer flushCancel()
	if err := a.services.Queue.Flush(flushCtx); err != nil {
		a.logger.Err(err).Msg("final queue flush failed")
	}

	if uiErr != nil {
		uiErr = fmt.Errorf("ui: %w", uiErr)
	}
	if bgErr != nil {
		bgErr = fmt.Errorf("background workers: %w", bgErr)
	}

	a.logger.Info().Msg("client stopped")
	return errors.Join(uiErr, bgErr)
}

// MetricsServer returns a worker serving handler on address until ctx is
// cancelled.
func MetricsServer(address string, handler http.Handler, logger *logger.Logger) workers.Worker {
	return workers.Func(func(ctx context.Context) error {
		srv := &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info().Str("address", address).Msg("serving client metrics")
			serveErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("metrics server: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Err(err).Msg("metrics server shutdown failed")
		}
		return nil
	})
}
