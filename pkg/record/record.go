package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const (
	// SectionResponses holds multi-select answer sets keyed by question and attribute.
	SectionResponses = "responses"

	// SectionToggles holds on/off settings keyed by question and attribute.
	SectionToggles = "toggle_states"

	// enabledKey is the flag read from a toggle object.
	enabledKey = "enabled"
)

// ErrNotObject is returned when a record document is valid JSON but not an object.
var ErrNotObject = errors.New("record must be a JSON object")

// Record is a read-only view over a decoded paper export.
type Record struct {
	doc map[string]any
}

// New wraps an already decoded document. A nil document behaves as an empty record.
func New(doc map[string]any) *Record {
	if doc == nil {
		doc = map[string]any{}
	}
	return &Record{doc: doc}
}

// Parse decodes a JSON record document.
func Parse(data []byte) (*Record, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return New(obj), nil
}

// LoadFile reads and decodes the record stored at path.
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %q: %w", path, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// ResponseValues returns responses[question][attribute] when it is a list.
// Anything else, including missing keys at any level, yields an empty list.
func (r *Record) ResponseValues(question, attribute string) []any {
	attrs := r.lookup(SectionResponses, question)
	vals, ok := attrs[attribute].([]any)
	if !ok {
		return []any{}
	}
	return vals
}

// ToggleEnabled reports toggle_states[question][attribute].enabled.
// A missing or non-object toggle is false; the flag itself is read with JSON truthiness.
func (r *Record) ToggleEnabled(question, attribute string) bool {
	attrs := r.lookup(SectionToggles, question)
	toggle, ok := attrs[attribute].(map[string]any)
	if !ok {
		return false
	}
	return Truthy(toggle[enabledKey])
}

// lookup resolves doc[section][question] as a mapping, defaulting to empty.
func (r *Record) lookup(section, question string) map[string]any {
	if r == nil {
		return nil
	}
	sec, ok := r.doc[section].(map[string]any)
	if !ok {
		return nil
	}
	q, ok := sec[question].(map[string]any)
	if !ok {
		return nil
	}
	return q
}
