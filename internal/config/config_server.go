package config

import (
	"fmt"
	"time"
)

// ServerConfig is the ingest server view of [StructuredConfig].
type ServerConfig struct {
	HTTP ServerHTTP
	DB   DB
}

// ServerHTTP holds the ingest listener settings.
type ServerHTTP struct {
	Address        string
	RequestTimeout time.Duration
}

// GetServerConfig builds and validates the ingest server view of the merged
// structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig maps cfg onto a [ServerConfig], filling defaults.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	serverCfg := &ServerConfig{
		HTTP: ServerHTTP{
			Address:        cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		DB: cfg.Storage.DB,
	}

	if serverCfg.HTTP.RequestTimeout == 0 {
		serverCfg.HTTP.RequestTimeout = DefaultRequestTimeout
	}

	return serverCfg
}
