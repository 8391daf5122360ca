package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l2-da-lab/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, domain.DefaultSimulationInput, cfg.Defaults.Input())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9999"
  read_timeout: 3s
logging:
  level: debug
  format: text
defaults:
  simulation_mode: query
  query_tx_count: 5000
  query_time_interval_sec: 25
  number_of_blobs: 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	in := cfg.Defaults.Input()
	assert.Equal(t, domain.ModeQuery, in.Mode())
	assert.Equal(t, domain.QueryWorkload{TxCount: 5000, TimeIntervalSec: 25}, in.Workload)
	assert.Equal(t, 6, in.NumberOfBlobs)
	assert.Equal(t, 4.0, in.BitcoinBlockSizeMB)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "text")

	cfg, err := Load(writeConfig(t, "server:\n  addr: \":9999\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "defaults:\n  simulation_mode: hybrid\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"bad gin mode", func(c *Config) { c.Server.GinMode = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"utilization above 100", func(c *Config) { c.Defaults.BitcoinUtilizationPct = 101 }},
		{"negative blobs", func(c *Config) { c.Defaults.NumberOfBlobs = -1 }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
