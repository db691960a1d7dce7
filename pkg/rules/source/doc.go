// Package source provides rule sources for the sanity checker.
//
// A source loads an ordered rule set. This package provides a file-based
// implementation (JSON, or YAML for .yaml/.yml files) and an in-memory one.
//
// # Fail-Open Loading
//
// Validation never fails because of configuration. LoadOrEmpty converts any
// load error into an empty rule set and logs it, so a broken rules file
// disables all checks instead of aborting the export pipeline:
//
//	src := source.NewFileSource("sanity_checks.json", logger)
//	set := source.LoadOrEmpty(ctx, src, logger)
//
// Callers that want to surface configuration problems use Load directly.
package source
