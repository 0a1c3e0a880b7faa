package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/client"
	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/connectivity"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/tui"
	"github.com/MKhiriev/go-field-sync/internal/workers"
	"github.com/MKhiriev/go-field-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("field-client").Fatal().Err(err).Msg("error getting configs")
	}
	log := logger.NewClientLogger("field-client", cfg.LogFile)

	submitter, err := adapter.NewHTTPSubmitter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote submitter")
	}

	queueStore, err := store.NewQueueStore(context.Background(), cfg.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create queue store")
	}
	defer queueStore.Close()

	background := workers.New()
	monitor := connectivity.NewMonitor()
	if !cfg.Sync.ProbeDisabled {
		pinger, err := adapter.NewHTTPPinger(cfg.Adapter, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create pinger")
		}
		background.Add(connectivity.NewProber(pinger, monitor, cfg.Sync.ProbeInterval, cfg.Adapter.RequestTimeout, log))
	}

	var observer metrics.SyncObserver = metrics.NopSyncObserver{}
	if cfg.Metrics.Enabled {
		registry := metrics.NewRegistry()
		observer = metrics.NewPrometheusSyncObserver(registry)
		if cfg.Metrics.Address != "" {
			background.Add(client.MetricsServer(cfg.Metrics.Address, registry.Handler(), log))
		}
	}

	services := service.NewClientServices(queueStore, submitter, monitor, cfg.Sync, observer, log)
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	ui := tui.New(services.Engine, buildInfo, log)

	app, err := client.NewApp(services, ui, background, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
