package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/history"
)

// Open creates the backend named by cfg.Backend, creating the SQLite
// file's parent directory if needed.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (history.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite", "":
		if cfg.SQLitePath != ":memory:" {
			if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, history.NewStorageError(backendSQLite, "mkdir", err)
				}
			}
		}
		return NewSQLiteStorage(SQLiteConfig{Path: cfg.SQLitePath}, logger)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
