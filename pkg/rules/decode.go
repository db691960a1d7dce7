package rules

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Rule document keys.
const (
	keyRules        = "rules"
	keyID           = "id"
	keyWhen         = "when"
	keyThen         = "then"
	keyMessage      = "message"
	keySource       = "source"
	keyQuestion     = "question"
	keyAttribute    = "attribute"
	keyEquals       = "equals"
	keyMustEqual    = "must_equal"
	keyMustNotEqual = "must_not_equal"
)

// ErrUnsupportedShape is returned when a document is neither an object with a
// rules array nor a bare array of rules.
var ErrUnsupportedShape = errors.New("rule document must be an object with a \"rules\" array or an array of rules")

// role distinguishes trigger clauses from assertion clauses during decoding.
type role int

const (
	roleWhen role = iota
	roleThen
)

// ParseJSON decodes a JSON rule document.
func ParseJSON(data []byte) ([]Rule, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}
	return Decode(doc)
}

// Decode builds rules from a generic decoded document. It accepts
// {"rules": [...]} or a bare [...]; array entries that are not objects are skipped.
func Decode(doc any) ([]Rule, error) {
	var entries []any
	switch t := doc.(type) {
	case map[string]any:
		raw, ok := t[keyRules]
		if !ok {
			return nil, ErrUnsupportedShape
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: \"rules\" is %T", ErrUnsupportedShape, raw)
		}
		entries = list
	case []any:
		entries = t
	default:
		return nil, ErrUnsupportedShape
	}

	out := make([]Rule, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, DecodeRule(obj))
	}
	return out, nil
}

// DecodeRule builds a single rule from its object form.
func DecodeRule(obj map[string]any) Rule {
	r := Rule{
		When: decodeClause(obj[keyWhen], roleWhen),
		Then: decodeClause(obj[keyThen], roleThen),
	}
	if raw, ok := obj[keyID]; ok && raw != nil {
		r.ID = NewValue(raw).String()
		r.HasID = true
	}
	if msg, ok := obj[keyMessage].(string); ok {
		r.Message = msg
	}
	return r
}

func decodeClause(raw any, ro role) Clause {
	if raw == nil {
		return InertClause{Reason: "clause missing"}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return InertClause{Reason: fmt.Sprintf("clause is %T, not an object", raw)}
	}

	if obj[keyQuestion] == nil {
		return InertClause{Reason: "question missing"}
	}
	if obj[keyAttribute] == nil {
		return InertClause{Reason: "attribute missing"}
	}
	question, qok := obj[keyQuestion].(string)
	attribute, aok := obj[keyAttribute].(string)
	target := Target{Question: question, Attribute: attribute, Unkeyed: !qok || !aok}
	op := decodeOperator(obj, ro)

	// Any source other than "toggle" reads responses.
	if src, _ := obj[keySource].(string); Source(src) == SourceToggle {
		return ToggleClause{Target: target, Op: op}
	}
	return ResponseClause{Target: target, Op: op}
}

// decodeOperator picks the operator for a clause. Key presence, not value,
// selects the operator, so an explicit null operand is still an operand.
// must_equal takes precedence over must_not_equal.
func decodeOperator(obj map[string]any, ro role) Operator {
	if ro == roleWhen {
		if v, ok := obj[keyEquals]; ok {
			return Equals{Value: NewValue(v)}
		}
		return NoOp{}
	}
	if v, ok := obj[keyMustEqual]; ok {
		return MustEqual{Value: NewValue(v)}
	}
	if v, ok := obj[keyMustNotEqual]; ok {
		return MustNotEqual{Value: NewValue(v)}
	}
	return NoOp{}
}
