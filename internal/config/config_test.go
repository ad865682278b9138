package config_test

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tx_streamer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9090"
rpc:
  request_timeout_seconds: 0
  static_endpoints:
    - "https://rpc.example.org"
discovery:
  enabled: false
stream:
  emit_interval_ms: 250
  exchange_rate_usd: 3120.55
auth:
  tokens:
    - token: "s3cret"
      identity: "alice"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, config.DefaultServerReadTimeoutSeconds, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, config.DefaultLoggerLevel, cfg.Logger.Level)
	assert.Equal(t, time.Duration(0), cfg.RPC.RequestTimeout(), "explicit zero disables the timeout")
	assert.Equal(t, []string{"https://rpc.example.org"}, cfg.RPC.StaticEndpoints)
	assert.False(t, cfg.Discovery.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Stream.EmitInterval())

	rate, err := cfg.Stream.USDPerEther()
	require.NoError(t, err)
	assert.Zero(t, rate.Cmp(big.NewRat(312055, 100)))

	require.Len(t, cfg.Auth.Tokens, 1)
	assert.Equal(t, "s3cret", cfg.Auth.Tokens[0].Token.Reveal())
}

func TestLoadConfig_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 20*time.Second, cfg.RPC.RequestTimeout())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantKey string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "empty port", mutate: func(c *config.Config) { c.Server.Port = ":" }, wantKey: "server.port"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logger.Level = "loud" }, wantKey: "logger.level"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logger.Format = "xml" }, wantKey: "logger.format"},
		{name: "negative rpc timeout", mutate: func(c *config.Config) { c.RPC.RequestTimeoutSeconds = -1 }, wantKey: "rpc.request_timeout_seconds"},
		{name: "bad static endpoint", mutate: func(c *config.Config) { c.RPC.StaticEndpoints = []string{"ws://x"} }, wantKey: "rpc.static_endpoints[0]"},
		{name: "no endpoint source", mutate: func(c *config.Config) { c.Discovery.Enabled = false }, wantKey: "discovery.enabled"},
		{name: "bad chain id", mutate: func(c *config.Config) { c.Discovery.ChainID = 0 }, wantKey: "discovery.chain_id"},
		{name: "zero refresh", mutate: func(c *config.Config) { c.Discovery.RefreshIntervalSeconds = 0 }, wantKey: "discovery.refresh_interval_seconds"},
		{name: "negative interval", mutate: func(c *config.Config) { c.Stream.EmitIntervalMs = -5 }, wantKey: "stream.emit_interval_ms"},
		{name: "unparsable rate", mutate: func(c *config.Config) { c.Stream.ExchangeRateUSD = "lots" }, wantKey: "stream.exchange_rate_usd"},
		{name: "zero rate", mutate: func(c *config.Config) { c.Stream.ExchangeRateUSD = "0" }, wantKey: "stream.exchange_rate_usd"},
		{
			name: "duplicate token",
			mutate: func(c *config.Config) {
				c.Auth.Tokens = []config.TokenConfig{{Token: "a", Identity: "x"}, {Token: "a", Identity: "y"}}
			},
			wantKey: "auth.tokens[1].token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestSecretValue_NeverPrints(t *testing.T) {
	s := config.SecretValue("hunter2")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", s.LogValue().String())
	assert.Equal(t, "hunter2", s.Reveal())
}
