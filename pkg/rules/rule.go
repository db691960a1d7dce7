package rules

import "fmt"

// UnknownID labels violations of rules that have no id.
const UnknownID = "<unknown>"

// Rule is a single conditional check. Rules are immutable once decoded.
type Rule struct {
	// ID is the rule label, rendered as JSON text when the source value was not a string.
	ID string

	// HasID is false when the rule had no id (or a null one).
	HasID bool

	// When is the trigger clause.
	When Clause

	// Then is the assertion evaluated once When holds.
	Then Clause

	// Message overrides the generated violation message when non-empty.
	Message string
}

// Label returns the rule id, or UnknownID when the rule has none.
func (r Rule) Label() string {
	if !r.HasID {
		return UnknownID
	}
	return r.ID
}

// ViolationMessage returns the text reported when the rule is violated.
func (r Rule) ViolationMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return fmt.Sprintf("Rule '%s' violated", r.Label())
}

// RuleSet is an ordered collection of rules from one configuration source.
type RuleSet struct {
	// Rules in definition order.
	Rules []Rule

	// Origin describes where the rules came from (a file path or "memory").
	Origin string
}

// Empty returns a rule set with no rules.
func Empty(origin string) *RuleSet {
	return &RuleSet{Rules: []Rule{}, Origin: origin}
}

// Len returns the number of rules, tolerating a nil set.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}
