// Package ops loads the runtime configuration.
package ops

import (
	"os"
	"time"

	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"

	"main/internal/storage"
)

// BridgeMode selects how the bridge connection is established.
type BridgeMode string

const (
	// BridgeModeServer accepts the inbound connection from the bridge.
	BridgeModeServer BridgeMode = "server"
	// BridgeModeClient actively dials out to the bridge.
	BridgeModeClient BridgeMode = "client"
)

// Config mirrors the YAML config layout. Intervals are milliseconds.
type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Migrator MigratorConfig `yaml:"migrator"`
	Strategy StrategyConfig `yaml:"strategy"`
	API      APIConfig      `yaml:"api"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// BridgeConfig defines the socket to the external price bridge.
type BridgeConfig struct {
	Mode                BridgeMode `yaml:"mode"`
	Addr                string     `yaml:"addr"`
	HeartbeatIntervalMs int        `yaml:"heartbeat_interval_ms"`
	RedialBackoffMs     int        `yaml:"redial_backoff_ms"`
}

// HeartbeatInterval returns the heartbeat period.
func (c BridgeConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalMs) * time.Millisecond
}

// RedialBackoff returns the client-mode redial delay.
func (c BridgeConfig) RedialBackoff() time.Duration {
	return time.Duration(c.RedialBackoffMs) * time.Millisecond
}

// RedisConfig selects the redis-backed checkpoint store and event queue.
// When disabled, both fall back to in-memory implementations.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	DB      int    `yaml:"db"`
}

// PostgresConfig defines the permanent store connection.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// Option maps the config onto the storage connector.
func (c PostgresConfig) Option() storage.Option {
	return storage.Option{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
	}
}

// MigratorConfig tunes the history migration cycle.
type MigratorConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	BatchSize  int `yaml:"batch_size"`
}

// Interval returns the migration period.
func (c MigratorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// StrategyConfig carries process-wide strategy fallbacks.
type StrategyConfig struct {
	DefaultGap           float64 `yaml:"default_gap"`
	DefaultEclipseBuffer float64 `yaml:"default_eclipse_buffer"`
	DefaultVolume        float64 `yaml:"default_volume"`
}

// APIConfig defines the subscription web API listener.
type APIConfig struct {
	Addr string `yaml:"addr"`
}

// MetricsConfig defines the Prometheus listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			Mode:                BridgeModeServer,
			Addr:                ":5050",
			HeartbeatIntervalMs: 10_000,
			RedialBackoffMs:     1_000,
		},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Postgres: PostgresConfig{Host: "localhost", Port: 5432},
		Migrator: MigratorConfig{IntervalMs: 5_000, BatchSize: 20},
		Strategy: StrategyConfig{DefaultGap: 2, DefaultEclipseBuffer: 0.3, DefaultVolume: 0.1},
		API:      APIConfig{Addr: ":8080"},
		Metrics:  MetricsConfig{Addr: ":9100"},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Bridge.Mode {
	case BridgeModeServer, BridgeModeClient:
	default:
		return errors.Errorf("unknown bridge mode: %q", c.Bridge.Mode)
	}
	if c.Bridge.Addr == "" {
		return errors.New("bridge addr is empty")
	}
	if c.Migrator.BatchSize < 0 {
		return errors.New("migrator batch size must be >= 0")
	}
	return nil
}
