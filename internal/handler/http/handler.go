package http

import (
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/metrics"
	"github.com/MKhiriev/go-field-sync/internal/service"
)

type Handler struct {
	services *service.Services
	observer metrics.IngestObserver
	metrics  http.Handler

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. metricsHandler serves GET /metrics and
// may be nil, in which case the route is not registered.
func NewHandler(services *service.Services, observer metrics.IngestObserver, metricsHandler http.Handler, logger *logger.Logger) *Handler {
	if observer == nil {
		observer = metrics.NopIngestObserver{}
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		observer: observer,
		metrics:  metricsHandler,
		logger:   logger,
	}
}
