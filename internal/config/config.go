package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSqlite   = "sqlite"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	StorageDriver    string `toml:"storage_driver"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	SqlitePath       string `toml:"sqlite_path"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// identity provider
	AuthIssuer        string `toml:"auth_issuer"`
	AuthAudience      string `toml:"auth_audience"`
	LoginURL          string `toml:"login_url"`
	DevLoginEnabled   bool   `toml:"dev_login_enabled"`
	TrackRateLimitMin int    `toml:"track_rate_limit_per_min"`

	// fitness
	Timezone      string `toml:"timezone"`
	FlushInterval string `toml:"flush_interval"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the TOML config file and returns the config of the given environment.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.StorageDriver == "" {
		c.StorageDriver = StorageDriverPostgres
	}
	if c.FlushInterval == "" {
		c.FlushInterval = "2s"
	}
	if c.TrackRateLimitMin == 0 {
		c.TrackRateLimitMin = 120
	}
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverSqlite:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.StorageDriver)
	}
	if c.StorageDriver == StorageDriverSqlite && c.SqlitePath == "" {
		return fmt.Errorf("sqlite storage requires sqlite_path")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.FlushIntervalDuration(); err != nil {
		return err
	}
	return nil
}

// Location is the timezone used for day boundaries. Empty means server local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) FlushIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("parse flush interval %s: %w", c.FlushInterval, err)
	}
	return d, nil
}
