// Package config provides settings management for the sanitycheck tool.
//
// Settings are separate from the rules file: they say where the rules live
// and how logging, metrics, report history and the HTTP service behave. A
// settings file is optional; without one every field takes its default.
//
// # Loading
//
//	cfg, err := config.LoadWithEnvOverrides("sanitycheck.yaml")
//
// # Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Variables from a .env file in the working directory (never overriding the real environment)
//  4. SANITYCHECK_SECTION_FIELD environment variables
//  5. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	rules:
//	  path: "config/sanity_checks.json"
//	  debounce_interval: "200ms"
//
//	logging:
//	  level: "info"
//	  format: "text"
//
//	history:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite_path: "data/reports.db"
//	  retention_days: 30
//	  prune_schedule: "0 3 * * *"
//
//	server:
//	  listen_address: "127.0.0.1:8090"
package config
