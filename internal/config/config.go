package config

import (
	"time"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/verify"
)

// Config is the complete application configuration. Values come from built-in
// defaults, then the user config file, then FINDER_ environment variables,
// then runtime overrides.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	AILink  ailink.Config `mapstructure:"ailink"`
	Output  OutputConfig  `mapstructure:"output"`
	Verify  verify.Config `mapstructure:"verify"`
	Input   InputConfig   `mapstructure:"input"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxBodyBytes caps request bodies on the /v1 routes.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level: SIMPLE or STRUCTURED.
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated metrics endpoint port (Prometheus format)
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LookupConfig controls the batch fan-out.
type LookupConfig struct {
	// Concurrency caps in-flight lookups; zero means one goroutine per name.
	Concurrency int `mapstructure:"concurrency"`
	// Timeout bounds each lookup; zero means no per-lookup deadline.
	Timeout time.Duration `mapstructure:"timeout"`
	// RatePerSecond throttles lookup starts; zero disables throttling.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
	// Model overrides the provider's default model.
	Model string `mapstructure:"model"`
}

// OutputConfig controls rendering of unknown values.
type OutputConfig struct {
	UnknownSentinel string `mapstructure:"unknown_sentinel"`
	BlankUnknown    bool   `mapstructure:"blank_unknown"`
	Format          string `mapstructure:"format"`
	Columns         string `mapstructure:"columns"`
}

// InputConfig controls how name files are decoded.
type InputConfig struct {
	// Encoding is auto, utf-8, shift_jis or euc-jp.
	Encoding string `mapstructure:"encoding"`
}
