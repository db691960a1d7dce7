package config

import "time"

// Config is the root settings structure.
type Config struct {
	// Rules locates the rule configuration file.
	Rules RulesConfig `yaml:"rules"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// History configures storage of validation reports.
	History HistoryConfig `yaml:"history"`

	// Server configures the HTTP validation service.
	Server ServerConfig `yaml:"server"`
}

// RulesConfig locates the rules file.
type RulesConfig struct {
	// Path is the rules file (JSON, or YAML for .yaml/.yml).
	// Default: DefaultRulesPath
	Path string `yaml:"path" validate:"required"`

	// DebounceInterval is how long watch mode waits for file events to settle.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval" validate:"gte=0"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	// Default: "warn"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format is the output format: json, text, console.
	// Default: "text"
	Format string `yaml:"format" validate:"oneof=json text console"`

	// AddSource includes file:line in log entries.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "sanitycheck"
	Namespace string `yaml:"namespace" validate:"required"`

	// Subsystem is the second metric name component.
	// Default: "validator"
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path serving metrics.
	// Default: "/metrics"
	Path string `yaml:"path" validate:"startswith=/"`
}

// HistoryConfig configures validation report storage.
type HistoryConfig struct {
	// Enabled turns report storage on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend" validate:"oneof=memory sqlite"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: "data/reports.db"
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`

	// RetentionDays deletes reports older than this many days. 0 keeps them forever.
	// Default: 90
	RetentionDays int `yaml:"retention_days" validate:"gte=0"`

	// MaxRecords caps the number of stored reports. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records" validate:"gte=0"`

	// PruneSchedule is a standard cron expression for scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule" validate:"omitempty,cronspec"`
}

// ServerConfig configures the HTTP validation service.
type ServerConfig struct {
	// ListenAddress is host:port to listen on.
	// Default: "127.0.0.1:8090"
	ListenAddress string `yaml:"listen_address" validate:"required,hostname_port"`

	// ReadTimeout bounds reading a request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout bounds writing a response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// MaxBodyBytes limits the size of a submitted record.
	// Default: 10MB
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gt=0"`
}
