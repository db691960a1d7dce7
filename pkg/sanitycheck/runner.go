package sanitycheck

import (
	"context"
	"log/slog"

	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/record"
	"mercator-hq/sanitycheck/pkg/rules"
	"mercator-hq/sanitycheck/pkg/rules/source"
	"mercator-hq/sanitycheck/pkg/telemetry/logging"
)

// RulesObserver is told about every rules load.
type RulesObserver interface {
	RecordRulesLoaded(n int)
	RecordRulesLoadFailure()
}

// Runner loads rules fresh for each run, evaluates a record and hands the
// report to history. It is safe for concurrent use.
type Runner struct {
	source    source.Source
	evaluator *engine.Evaluator
	history   *history.Recorder
	observer  RulesObserver
	logger    *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHistory stores every report.
func WithHistory(rec *history.Recorder) RunnerOption {
	return func(r *Runner) { r.history = rec }
}

// WithRulesObserver reports rules loads, typically to metrics.
func WithRulesObserver(o RulesObserver) RunnerOption {
	return func(r *Runner) { r.observer = o }
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner over src. A nil evaluator gets a default one.
func NewRunner(src source.Source, evaluator *engine.Evaluator, opts ...RunnerOption) *Runner {
	if evaluator == nil {
		evaluator = engine.NewEvaluator()
	}
	r := &Runner{
		source:    src,
		evaluator: evaluator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the rules source.
func (r *Runner) Source() source.Source {
	return r.source
}

// Rules loads the current rule set, falling back to zero rules when the
// source is unavailable.
func (r *Runner) Rules(ctx context.Context) *rules.RuleSet {
	set, err := r.source.Load(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "rules unavailable, validating with zero rules", "error", err)
		if r.observer != nil {
			r.observer.RecordRulesLoadFailure()
		}
		return rules.Empty(source.Origin(r.source))
	}
	if r.observer != nil {
		r.observer.RecordRulesLoaded(set.Len())
	}
	return set
}

// Run validates rec and returns its report. origin labels the record in
// history (a file path, or history.SourceHTTP).
func (r *Runner) Run(ctx context.Context, rec *record.Record, origin string) *engine.Report {
	set := r.Rules(ctx)
	ctx = logging.WithRulesOrigin(ctx, set.Origin)

	report := r.evaluator.Evaluate(ctx, rec, set)

	if r.history != nil {
		// A history failure is logged by the recorder and does not affect the result.
		_ = r.history.Record(logging.WithReportID(ctx, report.ID), report, origin)
	}
	return report
}

// RunFile loads and validates the record at path. Only record problems are
// returned as errors.
func (r *Runner) RunFile(ctx context.Context, path string) (*engine.Report, error) {
	rec, err := record.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, rec, path), nil
}
