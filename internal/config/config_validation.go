// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks the merged [StructuredConfig]. Only cross-role invariants
// live here; role specific rules are in the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.MaxRetries < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Queue.Driver {
	case QueueDriverFile, QueueDriverSQLite:
	default:
		return ErrInvalidStorageConfigs
	}
	if cfg.Queue.Path == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.MaxRetries < 1 || cfg.Sync.Interval <= 0 || cfg.Sync.ProbeInterval <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return ErrInvalidMetricsConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTP.Address == "" || cfg.HTTP.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
