package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-field-sync/models"
)

const namespace = "field_sync"

// Registry is a prometheus registry preloaded with the Go and process
// collectors.
type Registry struct {
	*prometheus.Registry
}

// NewRegistry returns an empty Registry with runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg}
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}

type prometheusSyncObserver struct {
	passes       *prometheus.CounterVec
	passDuration prometheus.Histogram
	refusals     *prometheus.CounterVec
	operations   *prometheus.CounterVec
	pending      prometheus.Gauge
	online       prometheus.Gauge
	persistFails prometheus.Counter
}

// NewPrometheusSyncObserver registers the client sync metrics on reg.
func NewPrometheusSyncObserver(reg *Registry) SyncObserver {
	f := promauto.With(reg.Registry)

	return &prometheusSyncObserver{
		passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_passes_total",
			Help:      "Completed sync passes by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		passDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_pass_duration_seconds",
			Help:      "Wall time of a sync pass.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		refusals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_triggers_refused_total",
			Help:      "Sync triggers refused by reason.",
		}, []string{"trigger", "reason"}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_operations_total",
			Help:      "Delivery attempts by kind and result (delivered, retried, evicted).",
		}, []string{"kind", "result"}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_pending_operations",
			Help:      "Operations waiting in the offline queue.",
		}),
		online: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connectivity_online",
			Help:      "1 when the remote is reachable, 0 otherwise.",
		}),
		persistFails: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_persist_failures_total",
			Help:      "Failed writes of the durable queue.",
		}),
	}
}

func (p *prometheusSyncObserver) PassCompleted(result models.SyncResult, duration time.Duration) {
	outcome := "success"
	if !result.OverallSuccess() {
		outcome = "partial"
	}
	p.passes.WithLabelValues(string(result.Trigger), outcome).Inc()
	p.passDuration.Observe(duration.Seconds())
}

func (p *prometheusSyncObserver) TriggerRefused(trigger models.SyncTrigger, reason string) {
	p.refusals.WithLabelValues(string(trigger), reason).Inc()
}

func (p *prometheusSyncObserver) OperationDelivered(kind models.OperationKind) {
	p.operations.WithLabelValues(kind.String(), "delivered").Inc()
}

func (p *prometheusSyncObserver) OperationRetried(kind models.OperationKind) {
	p.operations.WithLabelValues(kind.String(), "retried").Inc()
}

func (p *prometheusSyncObserver) OperationEvicted(kind models.OperationKind) {
	p.operations.WithLabelValues(kind.String(), "evicted").Inc()
}

func (p *prometheusSyncObserver) QueueLength(pending int) {
	p.pending.Set(float64(pending))
}

func (p *prometheusSyncObserver) ConnectivityChanged(state models.Connectivity) {
	if state == models.Online {
		p.online.Set(1)
		return
	}
	p.online.Set(0)
}

func (p *prometheusSyncObserver) PersistFailed() {
	p.persistFails.Inc()
}

type prometheusIngestObserver struct {
	received *prometheus.CounterVec
}

// NewPrometheusIngestObserver registers the ingest server metrics on reg.
func NewPrometheusIngestObserver(reg *Registry) IngestObserver {
	return &prometheusIngestObserver{
		received: promauto.With(reg.Registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_operations_total",
			Help:      "Operations received by kind and result.",
		}, []string{"kind", "result"}),
	}
}

func (p *prometheusIngestObserver) OperationAccepted(kind models.OperationKind) {
	p.received.WithLabelValues(kind.String(), "accepted").Inc()
}

func (p *prometheusIngestObserver) OperationDuplicate(kind models.OperationKind) {
	p.received.WithLabelValues(kind.String(), "duplicate").Inc()
}

func (p *prometheusIngestObserver) OperationRejected(kind models.OperationKind, status int) {
	p.received.WithLabelValues(kind.String(), "rejected_"+strconv.Itoa(status)).Inc()
}
