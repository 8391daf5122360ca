// Package config loads server, logging and simulation default settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"l2-da-lab/internal/domain"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables that override file values.
const (
	EnvAddr      = "L2DA_ADDR"
	EnvGinMode   = "L2DA_GIN_MODE"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvLogFile   = "LOG_FILE"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GinMode         string        `yaml:"gin_mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "json" or "text"
	File       string `yaml:"file"`   // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DefaultsConfig holds the parameter values a new simulation starts from.
type DefaultsConfig struct {
	BitcoinBlockSizeMB     float64 `yaml:"bitcoin_block_size_mb"`
	BitcoinUtilizationPct  float64 `yaml:"bitcoin_utilization_pct"`
	SimulationMode         string  `yaml:"simulation_mode"`
	ManualTPS              float64 `yaml:"manual_tps"`
	StateUpdateIntervalSec float64 `yaml:"state_update_interval_sec"`
	QueryTxCount           float64 `yaml:"query_tx_count"`
	QueryTimeIntervalSec   float64 `yaml:"query_time_interval_sec"`
	NumberOfBlobs          int     `yaml:"number_of_blobs"`
	BlobSizeKB             float64 `yaml:"blob_size_kb"`
	SatsPerVByte           float64 `yaml:"sats_per_vbyte"`
	BitcoinPriceUSD        float64 `yaml:"bitcoin_price_usd"`
}

// Default returns the built-in configuration.
func Default() *Config {
	in := domain.DefaultSimulationInput
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			GinMode:         "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "l2_da_lab",
		},
		Defaults: DefaultsConfig{
			BitcoinBlockSizeMB:     in.BitcoinBlockSizeMB,
			BitcoinUtilizationPct:  in.BitcoinUtilizationPct,
			SimulationMode:         string(domain.ModeManual),
			ManualTPS:              domain.DefaultManualWorkload.TPS,
			StateUpdateIntervalSec: domain.DefaultManualWorkload.StateUpdateIntervalSec,
			QueryTxCount:           domain.DefaultQueryWorkload.TxCount,
			QueryTimeIntervalSec:   domain.DefaultQueryWorkload.TimeIntervalSec,
			NumberOfBlobs:          in.NumberOfBlobs,
			BlobSizeKB:             in.BlobSizeKB,
			SatsPerVByte:           in.SatsPerVByte,
			BitcoinPriceUSD:        in.BitcoinPriceUSD,
		},
	}
}

// Load builds the configuration.
// Order: built-in defaults, .env file (if present), YAML file at path (if non-empty), env overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvGinMode); v != "" {
		c.Server.GinMode = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.gin_mode %q is not debug, release or test", c.Server.GinMode))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not json or text", c.Logging.Format))
	}
	if _, err := domain.ParseMode(c.Defaults.SimulationMode); err != nil {
		problems = append(problems, fmt.Sprintf("defaults.simulation_mode: %v", err))
	}
	if c.Defaults.BitcoinUtilizationPct < 0 || c.Defaults.BitcoinUtilizationPct > 100 {
		problems = append(problems, "defaults.bitcoin_utilization_pct must be within [0,100]")
	}
	if c.Defaults.NumberOfBlobs < 0 {
		problems = append(problems, "defaults.number_of_blobs must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ManualWorkload returns the default manual workload.
func (d DefaultsConfig) ManualWorkload() domain.ManualWorkload {
	return domain.ManualWorkload{
		TPS:                    d.ManualTPS,
		StateUpdateIntervalSec: d.StateUpdateIntervalSec,
	}
}

// QueryWorkload returns the default query workload.
func (d DefaultsConfig) QueryWorkload() domain.QueryWorkload {
	return domain.QueryWorkload{
		TxCount:         d.QueryTxCount,
		TimeIntervalSec: d.QueryTimeIntervalSec,
	}
}

// Input returns the default simulation input in the configured mode.
// An unparseable mode falls back to manual.
func (d DefaultsConfig) Input() domain.SimulationInput {
	var w domain.Workload = d.ManualWorkload()
	if mode, err := domain.ParseMode(d.SimulationMode); err == nil && mode == domain.ModeQuery {
		w = d.QueryWorkload()
	}
	return domain.SimulationInput{
		BitcoinBlockSizeMB:    d.BitcoinBlockSizeMB,
		BitcoinUtilizationPct: d.BitcoinUtilizationPct,
		Workload:              w,
		NumberOfBlobs:         d.NumberOfBlobs,
		BlobSizeKB:            d.BlobSizeKB,
		SatsPerVByte:          d.SatsPerVByte,
		BitcoinPriceUSD:       d.BitcoinPriceUSD,
	}
}
