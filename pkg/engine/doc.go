// Package engine evaluates consistency rules against paper export records.
//
// # Architecture
//
// The engine has two layers:
//
//  1. Matcher - decides whether an expected value is among a record's selected options
//  2. Evaluator - walks the rule set in order and collects violation messages
//
// # Evaluation Flow
//
//	Record + RuleSet
//	       ↓
//	For each rule in definition order:
//	  Inert clause? → skip
//	  Evaluate when → holds?
//	    No  → not applicable
//	    Yes → evaluate then → holds?
//	            Yes → passed
//	            No  → violation (message or "Rule '<id>' violated")
//	       ↓
//	Ordered violation messages
//
// # Matching
//
// Response values match an expected string exactly, after normalization
// (lowercase, punctuation folded to spaces, outer whitespace trimmed), or by
// the normalized prefix before the first colon, so a stored "Other: details"
// matches "Other". Boolean operands never match response values; they are
// only meaningful for toggle clauses.
//
// # Basic Usage
//
//	violations := engine.Validate(rec, set.Rules)
//
//	// Or, with logging, metrics and per-rule outcomes:
//	eval := engine.NewEvaluator(engine.WithLogger(logger), engine.WithRecorder(collector))
//	report := eval.Evaluate(ctx, rec, set)
//
// # Thread Safety
//
// Evaluation holds no state between calls. Validate is a pure function and an
// Evaluator may be shared by concurrent goroutines.
package engine
