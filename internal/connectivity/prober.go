package connectivity

import (
	"context"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

// Prober polls a [adapter.Pinger] and feeds the result into a [Monitor]:
// a successful ping means online; a transport error or a non-2xx answer means
// offline.
type Prober struct {
	pinger   adapter.Pinger
	monitor  *Monitor
	interval time.Duration
	timeout  time.Duration

	logger *logger.Logger
}

// NewProber builds a Prober. timeout bounds each ping; zero means interval.
func NewProber(pinger adapter.Pinger, monitor *Monitor, interval, timeout time.Duration, logger *logger.Logger) *Prober {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	return &Prober{
		pinger:   pinger,
		monitor:  monitor,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Run probes immediately and then every interval until ctx is cancelled.
// It always returns nil.
func (p *Prober) Run(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Msg("connectivity prober started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Probe(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info().Msg("connectivity prober stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Probe performs a single ping and updates the monitor. It returns the state
// observed. A probe cut short by ctx cancellation leaves the state untouched.
func (p *Prober) Probe(ctx context.Context) models.Connectivity {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	state := models.Online
	if err := p.pinger.Ping(probeCtx); err != nil {
		if ctx.Err() != nil {
			return p.monitor.State()
		}
		p.logger.Debug().Err(err).Msg("ping failed")
		state = models.Offline
	}

	if p.monitor.Set(state) {
		p.logger.Info().Str("connectivity", string(state)).Msg("connectivity changed")
	}

	return state
}
