package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the report history tables. Times are stored as Unix
// nanoseconds so range filters compare integers.
const Schema = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    request_id TEXT,
    rules_origin TEXT NOT NULL,
    rule_count INTEGER NOT NULL,
    passed INTEGER NOT NULL,
    violation_count INTEGER NOT NULL,
    violations TEXT NOT NULL,
    results TEXT NOT NULL,
    evaluated_at INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_evaluated_at ON reports(evaluated_at);
CREATE INDEX IF NOT EXISTS idx_reports_source ON reports(source);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest applied schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
