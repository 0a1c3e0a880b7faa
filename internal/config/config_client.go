package config

import (
	"fmt"
	"time"
)

// Defaults applied to the client view when a source leaves a field unset.
const (
	DefaultQueueDriver    = QueueDriverFile
	DefaultQueuePath      = "field-sync-queue.json"
	DefaultMaxRetries     = 3
	DefaultSyncInterval   = 5 * time.Minute
	DefaultProbeInterval  = 15 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultProbePath      = "/api/ping"
)

// Supported durable queue drivers.
const (
	QueueDriverFile   = "file"
	QueueDriverSQLite = "sqlite"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote API base address.
	HTTPAddress string
	// RequestTimeout bounds each outbound request.
	RequestTimeout time.Duration
	// ProbePath is the reachability endpoint.
	ProbePath string
}

// ClientQueue selects the durable queue backend.
type ClientQueue struct {
	Driver string
	Path   string
}

// ClientSync holds the sync engine policy.
type ClientSync struct {
	MaxRetries    int
	Interval      time.Duration
	ProbeInterval time.Duration
	ProbeDisabled bool
}

// ClientMetrics controls client-side prometheus instrumentation.
type ClientMetrics struct {
	Enabled bool
	Address string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Adapter ClientAdapter
	Queue   ClientQueue
	Sync    ClientSync
	Metrics ClientMetrics
	LogFile string
}

// GetClientConfig builds and validates the client view of the merged
// structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps cfg onto a [ClientConfig], filling defaults for unset
// fields. It does not validate.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			ProbePath:      cfg.Adapter.ProbePath,
		},
		Queue: ClientQueue{
			Driver: cfg.Storage.Queue.Driver,
			Path:   cfg.Storage.Queue.Path,
		},
		Sync: ClientSync{
			MaxRetries:    cfg.Sync.MaxRetries,
			Interval:      cfg.Sync.Interval,
			ProbeInterval: cfg.Sync.ProbeInterval,
			ProbeDisabled: cfg.Sync.ProbeDisabled,
		},
		Metrics: ClientMetrics{
			Enabled: cfg.Metrics.Enabled,
			Address: cfg.Metrics.Address,
		},
		LogFile: cfg.Log.File,
	}

	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if clientCfg.Adapter.ProbePath == "" {
		clientCfg.Adapter.ProbePath = DefaultProbePath
	}
	if clientCfg.Queue.Driver == "" {
		clientCfg.Queue.Driver = DefaultQueueDriver
	}
	if clientCfg.Queue.Path == "" {
		clientCfg.Queue.Path = DefaultQueuePath
	}
	if clientCfg.Sync.MaxRetries == 0 {
		clientCfg.Sync.MaxRetries = DefaultMaxRetries
	}
	if clientCfg.Sync.Interval == 0 {
		clientCfg.Sync.Interval = DefaultSyncInterval
	}
	if clientCfg.Sync.ProbeInterval == 0 {
		clientCfg.Sync.ProbeInterval = DefaultProbeInterval
	}

	return clientCfg
}
