package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SANITYCHECK_"

// DotEnvFile is the optional dotenv file read by LoadWithEnvOverrides.
const DotEnvFile = ".env"

// Load reads settings from a YAML file. An empty path yields defaults.
// Environment variables are not consulted; use LoadWithEnvOverrides for that.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %q: %w", path, err)
		}
		ApplyDefaults(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads settings, then applies .env and
// SANITYCHECK_* environment overrides and re-validates.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("settings invalid after environment overrides: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv exports variables from dotenv files that exist. Missing files
// are ignored and variables already in the environment are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnvOverrides applies SANITYCHECK_SECTION_FIELD variables.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Rules.Path, "RULES_PATH")
	setString(&cfg.Logging.Level, "LOGGING_LEVEL")
	setString(&cfg.Logging.Format, "LOGGING_FORMAT")
	setBool(&cfg.Metrics.Enabled, "METRICS_ENABLED")
	setBool(&cfg.History.Enabled, "HISTORY_ENABLED")
	setString(&cfg.History.Backend, "HISTORY_BACKEND")
	setString(&cfg.History.SQLitePath, "HISTORY_SQLITE_PATH")
	if val := os.Getenv(EnvPrefix + "HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}
	setString(&cfg.History.PruneSchedule, "HISTORY_PRUNE_SCHEDULE")
	setString(&cfg.Server.ListenAddress, "SERVER_LISTEN_ADDRESS")
}

func setString(dst *string, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}
