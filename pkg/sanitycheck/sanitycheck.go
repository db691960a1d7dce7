// Package sanitycheck is the programmatic entry point for validating paper
// exports against a rules file.
//
//	violations := sanitycheck.Validate(doc, "sanity_checks.json")
//	if len(violations) > 0 {
//	    // report
//	}
//
// Rules are loaded on every call and configuration problems are never
// returned: an unreadable or malformed rules file validates with zero rules.
package sanitycheck

import (
	"context"
	"log/slog"

	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/record"
	"mercator-hq/sanitycheck/pkg/rules/source"
)

// Validate checks a decoded record document against the rules at configPath.
func Validate(doc map[string]any, configPath string) []string {
	return ValidateRecord(record.New(doc), configPath)
}

// ValidateRecord checks rec against the rules at configPath.
func ValidateRecord(rec *record.Record, configPath string) []string {
	logger := slog.Default()
	set := source.LoadOrEmpty(context.Background(), source.NewFileSource(configPath, logger), logger)
	return engine.Validate(rec, set.Rules)
}

// ValidateFile loads the record at recordPath and validates it. Only record
// problems are returned as errors.
func ValidateFile(recordPath, configPath string) ([]string, error) {
	rec, err := record.LoadFile(recordPath)
	if err != nil {
		return nil, err
	}
	return ValidateRecord(rec, configPath), nil
}
