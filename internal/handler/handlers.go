package handler

import (
	nethttp "net/http"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/handler/http"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. registry may be
// nil to run without /metrics.
func NewHandlers(services *service.Services, cfg config.ServerHTTP, registry *metrics.Registry, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Address == "" {
		return nil, errNoHandlersAreCreated
	}

	var (
		observer       metrics.IngestObserver = metrics.NopIngestObserver{}
		metricsHandler nethttp.Handler
	)
	if registry != nil {
		observer = metrics.NewPrometheusIngestObserver(registry)
		metricsHandler = registry.Handler()
	}

	return &Handlers{
		HTTP: http.NewHandler(services, observer, metricsHandler, logger),
	}, nil
}
