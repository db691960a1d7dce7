// Package logging provides structured logging built on log/slog.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging: request, report and rules-origin identifiers
//     carried in a context.Context are added to every *Context call
//   - A runtime-adjustable level
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "record validated", "violations", 2)
//	// ... request_id=req-123 violations=2
//
// Libraries in this module accept a plain *slog.Logger; pass logger.Slog().
package logging
