package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mercator-hq/sanitycheck/pkg/record"
	"mercator-hq/sanitycheck/pkg/rules"
)

// Recorder receives every completed report, typically to update metrics.
type Recorder interface {
	RecordReport(report *Report)
}

// Evaluator validates records and produces reports.
type Evaluator struct {
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for per-rule debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder sets a recorder notified after each evaluation.
func WithRecorder(r Recorder) Option {
	return func(e *Evaluator) {
		e.recorder = r
	}
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator creates an evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks rec against rs and returns violation messages in rule order.
// An empty result means every applicable rule passed.
func Validate(rec *record.Record, rs []rules.Rule) []string {
	violations := []string{}
	for _, rule := range rs {
		if res := evaluateRule(rec, rule); res.Outcome == OutcomeViolated {
			violations = append(violations, res.Message)
		}
	}
	return violations
}

// Evaluate checks rec against set and returns a full report.
func (e *Evaluator) Evaluate(ctx context.Context, rec *record.Record, set *rules.RuleSet) *Report {
	start := e.now()
	report := &Report{
		ID:          e.newID(),
		RuleCount:   set.Len(),
		Violations:  []string{},
		Results:     make([]RuleResult, 0, set.Len()),
		EvaluatedAt: start,
	}
	if set != nil {
		report.RulesOrigin = set.Origin
		for _, rule := range set.Rules {
			res := evaluateRule(rec, rule)
			report.Results = append(report.Results, res)
			if res.Outcome == OutcomeViolated {
				report.Violations = append(report.Violations, res.Message)
			}
			e.logger.DebugContext(ctx, "rule evaluated",
				"report_id", report.ID,
				"rule_id", res.RuleID,
				"outcome", res.Outcome,
			)
		}
	}
	report.Duration = e.now().Sub(start)

	e.logger.DebugContext(ctx, "record validated",
		"report_id", report.ID,
		"rule_count", report.RuleCount,
		"violation_count", len(report.Violations),
		"duration", report.Duration,
	)

	if e.recorder != nil {
		e.recorder.RecordReport(report)
	}
	return report
}

func evaluateRule(rec *record.Record, rule rules.Rule) RuleResult {
	res := RuleResult{RuleID: rule.Label()}

	applicable, holds := conditionHolds(rec, rule.When)
	if !applicable {
		res.Outcome = OutcomeSkipped
		return res
	}
	if !holds {
		res.Outcome = OutcomeNotApplicable
		return res
	}

	applicable, holds = assertionHolds(rec, rule.Then)
	switch {
	case !applicable:
		res.Outcome = OutcomeSkipped
	case holds:
		res.Outcome = OutcomePassed
	default:
		res.Outcome = OutcomeViolated
		res.Message = rule.ViolationMessage()
	}
	return res
}

// conditionHolds evaluates a when clause. applicable is false for inert clauses.
func conditionHolds(rec *record.Record, c rules.Clause) (applicable, holds bool) {
	switch cl := c.(type) {
	case rules.ToggleClause:
		eq, ok := cl.Op.(rules.Equals)
		if !ok {
			return true, false
		}
		return true, toggleEnabled(rec, cl.Target) == eq.Value.Truthy()
	case rules.ResponseClause:
		eq, ok := cl.Op.(rules.Equals)
		if !ok {
			return true, false
		}
		return true, ValueMatches(responseValues(rec, cl.Target), eq.Value)
	default:
		return false, false
	}
}

// assertionHolds evaluates a then clause. A clause without an operator holds.
func assertionHolds(rec *record.Record, c rules.Clause) (applicable, holds bool) {
	switch cl := c.(type) {
	case rules.ToggleClause:
		actual := toggleEnabled(rec, cl.Target)
		switch op := cl.Op.(type) {
		case rules.MustEqual:
			return true, actual == op.Value.Truthy()
		case rules.MustNotEqual:
			return true, actual != op.Value.Truthy()
		default:
			return true, true
		}
	case rules.ResponseClause:
		values := responseValues(rec, cl.Target)
		switch op := cl.Op.(type) {
		case rules.MustEqual:
			return true, ValueMatches(values, op.Value)
		case rules.MustNotEqual:
			return true, !ValueMatches(values, op.Value)
		default:
			return true, true
		}
	default:
		return false, false
	}
}

func responseValues(rec *record.Record, t rules.Target) []any {
	if t.Unkeyed {
		return nil
	}
	return rec.ResponseValues(t.Question, t.Attribute)
}

func toggleEnabled(rec *record.Record, t rules.Target) bool {
	if t.Unkeyed {
		return false
	}
	return rec.ToggleEnabled(t.Question, t.Attribute)
}
