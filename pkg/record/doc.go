// Package record models a single exported paper entry and the value
// accessors the rule evaluator reads from it.
//
// A record is a semi-structured JSON object. Two top-level sections matter:
//
//	{
//	  "responses":     {"<question>": {"<attribute>": ["<value>", ...]}},
//	  "toggle_states": {"<question>": {"<attribute>": {"enabled": true}}}
//	}
//
// Accessors never fail. Any missing or wrongly shaped level resolves to an
// empty list (responses) or false (toggles), so a partially filled export can
// always be checked.
package record
