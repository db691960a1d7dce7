package rules

import (
	"encoding/json"
	"fmt"

	"mercator-hq/sanitycheck/pkg/record"
)

// Kind is the JSON type of a rule operand.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindComposite
)

// String returns the lowercase JSON type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an operand from a rule clause, such as the right-hand side of
// equals or must_equal.
type Value struct {
	kind Kind
	raw  any
}

// NewValue classifies a decoded JSON value.
func NewValue(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{kind: KindNull}
	case string:
		return Value{kind: KindString, raw: t}
	case bool:
		return Value{kind: KindBool, raw: t}
	case float64, float32, int, int64, uint64:
		return Value{kind: KindNumber, raw: t}
	default:
		return Value{kind: KindComposite, raw: t}
	}
}

// StringValue returns a string operand.
func StringValue(s string) Value { return Value{kind: KindString, raw: s} }

// BoolValue returns a boolean operand.
func BoolValue(b bool) Value { return Value{kind: KindBool, raw: b} }

// Kind returns the operand's JSON type.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the decoded JSON value.
func (v Value) Raw() any { return v.raw }

// Str returns the operand as a string when it is one.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok && v.kind == KindString
}

// IsBool reports whether the operand is a JSON boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// Truthy coerces the operand to a boolean using JSON truthiness.
func (v Value) Truthy() bool { return record.Truthy(v.raw) }

// Equal reports whether a record value is identical to the operand.
func (v Value) Equal(other any) bool { return record.Equal(v.raw, other) }

// String renders the operand as JSON text.
func (v Value) String() string {
	if s, ok := v.Str(); ok {
		return s
	}
	data, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Sprintf("%v", v.raw)
	}
	return string(data)
}
