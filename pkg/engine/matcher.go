package engine

import (
	"strings"
	"unicode"

	"mercator-hq/sanitycheck/pkg/rules"
)

// ValueMatches reports whether expected is present among values.
//
// Each candidate is tried in order until one matches:
//  1. a boolean expected value never matches
//  2. exact equality
//  3. "Prefix: free text" candidates whose normalized prefix equals the normalized expected string
//  4. normalized equality
func ValueMatches(values []any, expected rules.Value) bool {
	if expected.IsBool() {
		return false
	}

	want, isString := expected.Str()
	var normWant string
	if isString {
		normWant = Normalize(want)
	}

	for _, v := range values {
		if expected.Equal(v) {
			return true
		}
		if !isString {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if prefix, _, found := strings.Cut(s, ":"); found && Normalize(prefix) == normWant {
			return true
		}
		if Normalize(s) == normWant {
			return true
		}
	}
	return false
}

// Normalize lowercases s, replaces every rune that is neither a letter, a
// number nor whitespace with a single space, and trims outer whitespace.
// Runs of inner whitespace are kept as they are.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}
