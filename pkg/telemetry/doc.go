// Package telemetry groups the observability packages of the sanitycheck
// tool:
//
//   - logging: structured logging on log/slog with context fields
//   - metrics: Prometheus metrics for validations, rule loads and HTTP serving
//   - health: liveness and readiness probes
package telemetry
