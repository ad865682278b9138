package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strings"
	"time"
)

// Default config values.
const (
	DefaultConfigFilePath                 = "config/config.yml"
	DefaultServerPort                     = ":8080"
	DefaultServerReadTimeoutSeconds       = 30
	DefaultServerWriteTimeoutSeconds      = 30
	DefaultServerIdleTimeoutSeconds       = 60
	DefaultServerReadHeaderTimeoutSeconds = 10
	DefaultLoggerLevel                    = LogLevelInfo
	DefaultLoggerFormat                   = LogFormatJSON
	DefaultRPCRequestTimeoutSeconds       = 20
	DefaultDiscoveryChainlistURL          = "https://chainid.network/chains.json"
	DefaultDiscoveryChainID               = 1
	DefaultDiscoveryRefreshSeconds        = 300
	DefaultDiscoveryProbeTimeoutSeconds   = 5
	DefaultDiscoveryMaxConcurrentProbes   = 8
	DefaultStreamEmitIntervalMs           = 1000
	DefaultStreamExchangeRateUSD          = "5000"
)

// LogLevel defines the type for logger levels.
type LogLevel string

// LogFormat defines the type for logger output formats.
type LogFormat string

// Defines the supported logger levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Defines the supported logger output formats.
const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// SecretValue is a string that never prints its content.
type SecretValue string

// String implements fmt.Stringer.
func (s SecretValue) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// LogValue implements slog.LogValuer.
func (s SecretValue) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Reveal returns the raw secret.
func (s SecretValue) Reveal() string {
	return string(s)
}

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	RPC       RPCConfig       `yaml:"rpc"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Stream    StreamConfig    `yaml:"stream"`
	Auth      AuthConfig      `yaml:"auth"`
}

// ServerConfig holds all configuration related to the HTTP server.
type ServerConfig struct {
	Port                     string `yaml:"port"`
	ReadTimeoutSeconds       int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds      int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds       int    `yaml:"idle_timeout_seconds"`
	ReadHeaderTimeoutSeconds int    `yaml:"read_header_timeout_seconds"`
}

// LoggerConfig holds all configuration related to logging.
type LoggerConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// RPCConfig holds the failover JSON-RPC client settings.
type RPCConfig struct {
	// RequestTimeoutSeconds bounds each single-endpoint attempt. 0 disables the timeout.
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	StaticEndpoints       []string `yaml:"static_endpoints"`
}

// RequestTimeout returns the per-attempt timeout.
func (c RPCConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DiscoveryConfig holds endpoint discovery settings.
type DiscoveryConfig struct {
	Enabled                bool   `yaml:"enabled"`
	ChainlistURL           string `yaml:"chainlist_url"`
	ChainID                int64  `yaml:"chain_id"`
	RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds"`
	Probe                  bool   `yaml:"probe"`
	ProbeTimeoutSeconds    int    `yaml:"probe_timeout_seconds"`
	MaxConcurrentProbes    int    `yaml:"max_concurrent_probes"`
}

// RefreshInterval returns the refresh period.
func (c DiscoveryConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// ProbeTimeout returns the deadline for one probe request.
func (c DiscoveryConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// StreamConfig holds subscription pacing and value conversion settings.
type StreamConfig struct {
	EmitIntervalMs int `yaml:"emit_interval_ms"`
	// ExchangeRateUSD is the USD price of one ether, kept as text so it converts exactly.
	ExchangeRateUSD string `yaml:"exchange_rate_usd"`
}

// EmitInterval returns the pause between two emitted transactions.
func (c StreamConfig) EmitInterval() time.Duration {
	return time.Duration(c.EmitIntervalMs) * time.Millisecond
}

// USDPerEther parses ExchangeRateUSD.
func (c StreamConfig) USDPerEther() (*big.Rat, error) {
	rate, ok := new(big.Rat).SetString(strings.TrimSpace(c.ExchangeRateUSD))
	if !ok {
		return nil, fmt.Errorf("invalid exchange rate '%s'", c.ExchangeRateUSD)
	}
	return rate, nil
}

// AuthConfig holds the static token table used to identify websocket clients.
// An empty table lets every client in as anonymous.
type AuthConfig struct {
	Tokens []TokenConfig `yaml:"tokens"`
}

// TokenConfig maps one bearer token to a caller identity.
type TokenConfig struct {
	Token    SecretValue `yaml:"token"`
	Identity string      `yaml:"identity"`
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" || (strings.HasPrefix(c.Server.Port, ":") && len(c.Server.Port) == 1) {
		return errors.New("server port (config key: server.port) cannot be empty or just ':'")
	}
	if c.Server.ReadTimeoutSeconds < 0 {
		return errors.New("server read timeout seconds (config key: server.read_timeout_seconds) cannot be negative")
	}
	if c.Server.WriteTimeoutSeconds < 0 {
		return errors.New("server write timeout seconds (config key: server.write_timeout_seconds) cannot be negative")
	}
	if c.Server.IdleTimeoutSeconds < 0 {
		return errors.New("server idle timeout seconds (config key: server.idle_timeout_seconds) cannot be negative")
	}
	if c.Server.ReadHeaderTimeoutSeconds < 0 {
		return errors.New(
			"server read header timeout seconds (config key: server.read_header_timeout_seconds) cannot be negative",
		)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(string(c.Logger.Level))] {
		return fmt.Errorf(
			"invalid logger level (config key: logger.level): '%s', must be one of: debug, info, warn, error",
			c.Logger.Level,
		)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(string(c.Logger.Format))] {
		return fmt.Errorf(
			"invalid logger format (config key: logger.format): '%s', must be one of: json, text",
			c.Logger.Format,
		)
	}

	if c.RPC.RequestTimeoutSeconds < 0 {
		return errors.New("rpc request timeout seconds (config key: rpc.request_timeout_seconds) cannot be negative")
	}
	for i, endpoint := range c.RPC.StaticEndpoints {
		if err := validateHTTPURL(endpoint); err != nil {
			return fmt.Errorf("invalid static endpoint (config key: rpc.static_endpoints[%d]): %w", i, err)
		}
	}

	if c.Discovery.Enabled {
		if err := validateHTTPURL(c.Discovery.ChainlistURL); err != nil {
			return fmt.Errorf("invalid chainlist url (config key: discovery.chainlist_url): %w", err)
		}
		if c.Discovery.ChainID <= 0 {
			return errors.New("chain id (config key: discovery.chain_id) must be greater than 0")
		}
		if c.Discovery.RefreshIntervalSeconds <= 0 {
			return errors.New(
				"refresh interval seconds (config key: discovery.refresh_interval_seconds) must be greater than 0",
			)
		}
		if c.Discovery.Probe && c.Discovery.ProbeTimeoutSeconds <= 0 {
			return errors.New("probe timeout seconds (config key: discovery.probe_timeout_seconds) must be greater than 0")
		}
		if c.Discovery.Probe && c.Discovery.MaxConcurrentProbes <= 0 {
			return errors.New("max concurrent probes (config key: discovery.max_concurrent_probes) must be greater than 0")
		}
	} else if len(c.RPC.StaticEndpoints) == 0 {
		return errors.New("no endpoint source: set rpc.static_endpoints or enable discovery (config key: discovery.enabled)")
	}

	if c.Stream.EmitIntervalMs < 0 {
		return errors.New("emit interval ms (config key: stream.emit_interval_ms) cannot be negative")
	}
	rate, err := c.Stream.USDPerEther()
	if err != nil {
		return fmt.Errorf("invalid exchange rate (config key: stream.exchange_rate_usd): %w", err)
	}
	if rate.Sign() <= 0 {
		return errors.New("exchange rate (config key: stream.exchange_rate_usd) must be greater than 0")
	}

	seen := make(map[SecretValue]struct{}, len(c.Auth.Tokens))
	for i, tok := range c.Auth.Tokens {
		if tok.Token == "" {
			return fmt.Errorf("auth token (config key: auth.tokens[%d].token) cannot be empty", i)
		}
		if strings.TrimSpace(tok.Identity) == "" {
			return fmt.Errorf("auth identity (config key: auth.tokens[%d].identity) cannot be empty", i)
		}
		if _, dup := seen[tok.Token]; dup {
			return fmt.Errorf("duplicate auth token (config key: auth.tokens[%d].token)", i)
		}
		seen[tok.Token] = struct{}{}
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("'%s' must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("'%s' has no host", raw)
	}
	return nil
}
