// Package metrics provides Prometheus metrics for the sanitycheck tool.
//
// # Metrics
//
// With the default namespace "sanitycheck" and subsystem "validator":
//
//   - sanitycheck_validator_validations_total{result}: validations by result (passed, failed)
//   - sanitycheck_validator_violations_total{rule_id}: violations per rule
//   - sanitycheck_validator_rule_outcomes_total{outcome}: rule outcomes (skipped, not_applicable, passed, violated)
//   - sanitycheck_validator_validation_duration_seconds: time spent evaluating one record
//   - sanitycheck_validator_rules_loaded: rules in the most recently loaded set
//   - sanitycheck_validator_rule_loads_total{status}: rules file loads (ok, failed)
//   - sanitycheck_validator_http_requests_total{path,code}: HTTP requests served
//   - sanitycheck_validator_http_request_duration_seconds{path}: HTTP latency
//   - sanitycheck_validator_history_pruned_total: reports removed by retention
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	evaluator := engine.NewEvaluator(engine.WithRecorder(collector))
//	mux.Handle("/metrics", collector.Handler())
//
// Rule IDs are bounded by a cardinality limiter; once the limit is reached,
// new IDs are aggregated under "other".
package metrics
