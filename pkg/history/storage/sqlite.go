package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"mercator-hq/sanitycheck/pkg/history"
)

const backendSQLite = "sqlite"

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path; ":memory:" for a private in-memory database.
	Path string

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration
}

// SQLiteStorage implements history.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
	closed atomic.Bool
}

var _ history.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database and creates the schema.
func NewSQLiteStorage(cfg SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, history.NewStorageError(backendSQLite, "open", fmt.Errorf("database path is required"))
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "open", err)
	}
	// SQLite allows a single writer; one connection also keeps pragmas and
	// ":memory:" databases consistent.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{db: db, config: cfg, logger: logger}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("SQLite storage initialized", "path", cfg.Path)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds()),
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return history.NewStorageError(backendSQLite, "pragma", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return history.NewStorageError(backendSQLite, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return history.NewStorageError(backendSQLite, "insert_schema_version", err)
	}

	var version sql.NullInt64
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return history.NewStorageError(backendSQLite, "get_schema_version", err)
	}
	if version.Int64 != SchemaVersion {
		return history.NewStorageError(backendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version.Int64))
	}
	return nil
}

// Store inserts or replaces an entry.
func (s *SQLiteStorage) Store(ctx context.Context, e *history.Entry) error {
	if s.closed.Load() {
		return history.ErrStorageClosed
	}

	violations, err := json.Marshal(e.Violations)
	if err != nil {
		return history.NewStorageError(backendSQLite, "store", err)
	}
	results, err := json.Marshal(e.Results)
	if err != nil {
		return history.NewStorageError(backendSQLite, "store", err)
	}

	var requestID any
	if e.RequestID != "" {
		requestID = e.RequestID
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reports (
			id, source, request_id, rules_origin, rule_count, passed,
			violation_count, violations, results, evaluated_at, duration_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, requestID, e.RulesOrigin, e.RuleCount, e.Passed,
		len(e.Violations), string(violations), string(results),
		e.EvaluatedAt.UnixNano(), int64(e.Duration),
	)
	if err != nil {
		return history.NewStorageError(backendSQLite, "store", err)
	}
	return nil
}

const selectColumns = `id, source, request_id, rules_origin, rule_count, passed,
	violations, results, evaluated_at, duration_ns`

// Get returns the entry with id.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*history.Entry, error) {
	if s.closed.Load() {
		return nil, history.ErrStorageClosed
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM reports WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.ErrNotFound
	}
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "get", err)
	}
	return e, nil
}

// Query returns matching entries.
func (s *SQLiteStorage) Query(ctx context.Context, q *history.Query) ([]*history.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, history.ErrStorageClosed
	}

	where, args := buildWhere(q)
	order := "DESC"
	if q.OldestFirst() {
		order = "ASC"
	}
	stmt := fmt.Sprintf(`SELECT %s FROM reports%s ORDER BY evaluated_at %s, id %s`, selectColumns, where, order, order)
	if q.Limit > 0 || q.Offset > 0 {
		limit := q.Limit
		if limit == 0 {
			limit = -1
		}
		stmt += ` LIMIT ? OFFSET ?`
		args = append(args, limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, history.NewStorageError(backendSQLite, "query", err)
	}
	defer rows.Close()

	entries := []*history.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, history.NewStorageError(backendSQLite, "scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError(backendSQLite, "query", err)
	}
	return entries, nil
}

// Count returns the number of matching entries.
func (s *SQLiteStorage) Count(ctx context.Context, q *history.Query) (int64, error) {
	if s.closed.Load() {
		return 0, history.ErrStorageClosed
	}
	where, args := buildWhere(q)
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`+where, args...).Scan(&n); err != nil {
		return 0, history.NewStorageError(backendSQLite, "count", err)
	}
	return n, nil
}

// Delete removes matching entries.
func (s *SQLiteStorage) Delete(ctx context.Context, q *history.Query) (int64, error) {
	if s.closed.Load() {
		return 0, history.ErrStorageClosed
	}
	where, args := buildWhere(q)
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports`+where, args...)
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError(backendSQLite, "delete", err)
	}
	s.logger.Debug("deleted reports", "count", n)
	return n, nil
}

// Ping checks the database connection.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return history.ErrStorageClosed
	}
	if err := s.db.PingContext(ctx); err != nil {
		return history.NewStorageError(backendSQLite, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return history.NewStorageError(backendSQLite, "close", err)
	}
	return nil
}

// buildWhere renders q's filters as a WHERE clause with placeholders.
func buildWhere(q *history.Query) (string, []any) {
	var conds []string
	var args []any

	if len(q.IDs) > 0 {
		conds = append(conds, "id IN ("+strings.TrimSuffix(strings.Repeat("?,", len(q.IDs)), ",")+")")
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}
	if q.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, q.Source)
	}
	if q.Passed != nil {
		conds = append(conds, "passed = ?")
		args = append(args, *q.Passed)
	}
	if q.Since != nil {
		conds = append(conds, "evaluated_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Before != nil {
		conds = append(conds, "evaluated_at < ?")
		args = append(args, q.Before.UnixNano())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*history.Entry, error) {
	var (
		e             history.Entry
		requestID     sql.NullString
		violations    string
		results       string
		evaluatedAtNs int64
		durationNs    int64
	)
	if err := row.Scan(&e.ID, &e.Source, &requestID, &e.RulesOrigin, &e.RuleCount, &e.Passed,
		&violations, &results, &evaluatedAtNs, &durationNs); err != nil {
		return nil, err
	}

	e.RequestID = requestID.String
	e.EvaluatedAt = time.Unix(0, evaluatedAtNs).UTC()
	e.Duration = time.Duration(durationNs)
	if err := json.Unmarshal([]byte(violations), &e.Violations); err != nil {
		return nil, fmt.Errorf("decode violations: %w", err)
	}
	if e.Violations == nil {
		e.Violations = []string{}
	}
	if err := json.Unmarshal([]byte(results), &e.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &e, nil
}
