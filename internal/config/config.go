// Package config implements application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns a configuration holding every default value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                     DefaultServerPort,
			ReadTimeoutSeconds:       DefaultServerReadTimeoutSeconds,
			WriteTimeoutSeconds:      DefaultServerWriteTimeoutSeconds,
			IdleTimeoutSeconds:       DefaultServerIdleTimeoutSeconds,
			ReadHeaderTimeoutSeconds: DefaultServerReadHeaderTimeoutSeconds,
		},
		Logger: LoggerConfig{
			Level:  DefaultLoggerLevel,
			Format: DefaultLoggerFormat,
		},
		RPC: RPCConfig{
			RequestTimeoutSeconds: DefaultRPCRequestTimeoutSeconds,
		},
		Discovery: DiscoveryConfig{
			Enabled:                true,
			ChainlistURL:           DefaultDiscoveryChainlistURL,
			ChainID:                DefaultDiscoveryChainID,
			RefreshIntervalSeconds: DefaultDiscoveryRefreshSeconds,
			Probe:                  true,
			ProbeTimeoutSeconds:    DefaultDiscoveryProbeTimeoutSeconds,
			MaxConcurrentProbes:    DefaultDiscoveryMaxConcurrentProbes,
		},
		Stream: StreamConfig{
			EmitIntervalMs:  DefaultStreamEmitIntervalMs,
			ExchangeRateUSD: DefaultStreamExchangeRateUSD,
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of the defaults.
// Keys missing from the file keep their default value; a missing default file is not an error.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	loadPath := filePath
	if loadPath == "" {
		loadPath = DefaultConfigFilePath
	}

	fileBytes, err := os.ReadFile(loadPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && (filePath == "" || filePath == DefaultConfigFilePath) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", loadPath, err)
	}

	if err := yaml.Unmarshal(fileBytes, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", loadPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", loadPath, err)
	}
	return cfg, nil
}
