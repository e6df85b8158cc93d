// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Name          string        `mapstructure:"name"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	SSLMode       string        `mapstructure:"ssl_mode"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	MaxLifetime   time.Duration `mapstructure:"max_lifetime"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	LogQueries    bool          `mapstructure:"log_queries"`
}

// SearchConfig holds store search settings.
type SearchConfig struct {
	// TimeZone is the IANA zone used to resolve "now" for open-now and
	// deal validity.
	TimeZone         string        `mapstructure:"time_zone"`
	MaxPageSize      int           `mapstructure:"max_page_size"`
	TagFacetLimit    int           `mapstructure:"tag_facet_limit"`
	MorningSaleLimit int           `mapstructure:"morning_sale_limit"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	DealExpiry DealExpiryConfig `mapstructure:"deal_expiry"`
}

// DealExpiryConfig schedules the job that marks ended deals EXPIRED.
type DealExpiryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Schedule  string        `mapstructure:"schedule"` // cron spec, e.g. "@every 10m"
	Timeout   time.Duration `mapstructure:"timeout"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
	OnStartup bool          `mapstructure:"on_startup"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for caching and job locks.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds caching settings. Only anonymous searches and filter
// metadata are cached; results carrying a favorite flag never are.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SearchTTL  time.Duration `mapstructure:"search_ttl"`
	FiltersTTL time.Duration `mapstructure:"filters_ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if _, err := time.LoadLocation(c.Search.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("search.time_zone: %w", err))
	}
	if c.Search.MaxPageSize < 1 {
		errs = append(errs, errors.New("search.max_page_size must be positive"))
	}
	if c.Search.TagFacetLimit < 1 {
		errs = append(errs, errors.New("search.tag_facet_limit must be positive"))
	}
	if c.Search.MorningSaleLimit < 1 {
		errs = append(errs, errors.New("search.morning_sale_limit must be positive"))
	}
	if c.Jobs.DealExpiry.Enabled {
		if _, err := cron.ParseStandard(c.Jobs.DealExpiry.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("jobs.deal_expiry.schedule: %w", err))
		}
	}

	return errors.Join(errs...)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "store-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// HTTP defaults
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.cors_origins", "*")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "store_search")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.slow_threshold", "500ms")
	v.SetDefault("database.log_queries", false)

	// Search defaults
	v.SetDefault("search.time_zone", "Asia/Seoul")
	v.SetDefault("search.max_page_size", 100)
	v.SetDefault("search.tag_facet_limit", 50)
	v.SetDefault("search.morning_sale_limit", 20)
	v.SetDefault("search.query_timeout", "5s")

	// Job defaults
	v.SetDefault("jobs.deal_expiry.enabled", true)
	v.SetDefault("jobs.deal_expiry.schedule", "@every 10m")
	v.SetDefault("jobs.deal_expiry.timeout", "30s")
	v.SetDefault("jobs.deal_expiry.cooldown", "9m")
	v.SetDefault("jobs.deal_expiry.on_startup", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.search_ttl", "30s")
	v.SetDefault("cache.filters_ttl", "5m")
	v.SetDefault("cache.key_prefix", "store-search")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
