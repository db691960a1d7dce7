package engine

import (
	"testing"

	"mercator-hq/sanitycheck/pkg/rules"
)

func TestValueMatches(t *testing.T) {
	tests := []struct {
		name     string
		values   []any
		expected rules.Value
		want     bool
	}{
		{name: "exact string", values: []any{"a", "b"}, expected: rules.StringValue("b"), want: true},
		{name: "prefix form", values: []any{"Other: foo"}, expected: rules.StringValue("Other"), want: true},
		{name: "prefix form mismatch", values: []any{"Other: foo"}, expected: rules.StringValue("Something"), want: false},
		{name: "prefix only before first colon", values: []any{"Discussion needed: a: b"}, expected: rules.StringValue("discussion needed"), want: true},
		{name: "full value with colon", values: []any{"Other: foo"}, expected: rules.StringValue("other  foo"), want: true},
		{name: "punctuation folded", values: []any{"User-Study!"}, expected: rules.StringValue("user study"), want: true},
		{name: "case insensitive", values: []any{"TECHNICAL"}, expected: rules.StringValue("technical"), want: true},
		{name: "inner whitespace kept", values: []any{"a   b"}, expected: rules.StringValue("a b"), want: false},
		{name: "inner whitespace identical", values: []any{"a   b"}, expected: rules.StringValue("A   B"), want: true},
		{name: "boolean never matches", values: []any{"true"}, expected: rules.BoolValue(true), want: false},
		{name: "boolean never matches booleans", values: []any{true}, expected: rules.BoolValue(true), want: false},
		{name: "empty values", values: []any{}, expected: rules.StringValue("x"), want: false},
		{name: "nil values", values: nil, expected: rules.StringValue("x"), want: false},
		{name: "non-string candidates skipped", values: []any{float64(1), nil, "x"}, expected: rules.StringValue("x"), want: true},
		{name: "number exact", values: []any{float64(3)}, expected: rules.NewValue(float64(3)), want: true},
		{name: "number not normalized", values: []any{"3"}, expected: rules.NewValue(float64(3)), want: false},
		{name: "null expected matches null entry", values: []any{nil}, expected: rules.NewValue(nil), want: true},
		{name: "null expected no match", values: []any{"null"}, expected: rules.NewValue(nil), want: false},
		{name: "expected with punctuation", values: []any{"Technical (Benchmark), Quantitative"}, expected: rules.StringValue("technical  benchmark   quantitative"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueMatches(tt.values, tt.expected); got != tt.want {
				t.Errorf("ValueMatches(%v, %v) = %v, want %v", tt.values, tt.expected, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "User-Study!", want: "user study"},
		{in: "  Padded  ", want: "padded"},
		{in: "a   b", want: "a   b"},
		{in: "a--b", want: "a  b"},
		{in: "Éa", want: "éa"},
		{in: "!!!", want: ""},
		{in: "", want: ""},
		{in: "Q1\tTab", want: "q1\ttab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func BenchmarkValueMatches(b *testing.B) {
	values := []any{"Technical (Benchmark), Quantitative", "User study, Qualitative", "Other: custom detail"}
	expected := rules.StringValue("Other")
	for i := 0; i < b.N; i++ {
		ValueMatches(values, expected)
	}
}
