// Package storage provides history.Storage backends: an in-memory store for
// tests and one-off runs, and a SQLite store (modernc.org/sqlite, no cgo)
// for persistent history.
package storage
