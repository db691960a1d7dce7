package engine

import "time"

// Outcome classifies what happened to a single rule during evaluation.
type Outcome string

const (
	// OutcomeSkipped means a clause was inert (missing question or attribute).
	OutcomeSkipped Outcome = "skipped"

	// OutcomeNotApplicable means the when clause did not hold.
	OutcomeNotApplicable Outcome = "not_applicable"

	// OutcomePassed means when held and then held.
	OutcomePassed Outcome = "passed"

	// OutcomeViolated means when held and then failed.
	OutcomeViolated Outcome = "violated"
)

// RuleResult is the outcome of one rule.
type RuleResult struct {
	// RuleID is the rule label ("<unknown>" when the rule has no id).
	RuleID string `json:"rule_id"`

	// Outcome is what happened to the rule.
	Outcome Outcome `json:"outcome"`

	// Message is the violation message; empty unless Outcome is OutcomeViolated.
	Message string `json:"message,omitempty"`
}

// Report is the result of validating one record against one rule set.
type Report struct {
	// ID uniquely identifies this validation run.
	ID string `json:"id"`

	// RulesOrigin is where the rules were loaded from.
	RulesOrigin string `json:"rules_origin,omitempty"`

	// RuleCount is the number of rules evaluated.
	RuleCount int `json:"rule_count"`

	// Violations are the violation messages in rule order.
	Violations []string `json:"violations"`

	// Results contains one entry per rule, in rule order.
	Results []RuleResult `json:"results"`

	// EvaluatedAt is when evaluation started.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Duration is how long evaluation took.
	Duration time.Duration `json:"duration_ns"`
}

// Passed reports whether the record had no violations.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

// Count returns how many rules ended with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
