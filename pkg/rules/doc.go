// Package rules defines the conditional consistency rules checked against
// paper exports and decodes them from JSON or YAML documents.
//
// A rule pairs a trigger clause (when) with an assertion clause (then):
//
//	{
//	  "id": "eval-requires-participants",
//	  "when": {"question": "Q5", "attribute": "Type of evaluation", "equals": "User study"},
//	  "then": {"source": "toggle", "question": "Q6", "attribute": "Participants", "must_equal": true},
//	  "message": "user studies must report participants"
//	}
//
// Clauses are decoded once into a closed set of variants (ResponseClause,
// ToggleClause, InertClause) whose operator is itself one of Equals,
// MustEqual, MustNotEqual or NoOp. The evaluator switches on those types and
// never re-inspects raw JSON.
//
// Decoding is lenient. A clause with no usable question or attribute becomes
// an InertClause and the rule is skipped at evaluation time; entries that are
// not objects are dropped.
package rules
