package record

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustParse(t *testing.T, doc string) *Record {
	t.Helper()
	rec, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return rec
}

func TestResponseValues(t *testing.T) {
	rec := mustParse(t, `{
		"responses": {
			"Q1": {"v": ["x", "Other: detail"], "scalar": "x", "empty": []},
			"Q2": "not an object"
		}
	}`)

	tests := []struct {
		name      string
		question  string
		attribute string
		want      []any
	}{
		{name: "list value", question: "Q1", attribute: "v", want: []any{"x", "Other: detail"}},
		{name: "empty list", question: "Q1", attribute: "empty", want: []any{}},
		{name: "scalar is not a list", question: "Q1", attribute: "scalar", want: []any{}},
		{name: "missing attribute", question: "Q1", attribute: "nope", want: []any{}},
		{name: "missing question", question: "Q9", attribute: "v", want: []any{}},
		{name: "question not an object", question: "Q2", attribute: "v", want: []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.ResponseValues(tt.question, tt.attribute)
			if got == nil {
				t.Fatal("ResponseValues() returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ResponseValues() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !Equal(got[i], tt.want[i]) {
					t.Errorf("ResponseValues()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResponseValues_MissingSection(t *testing.T) {
	rec := mustParse(t, `{"responses": ["wrong", "shape"]}`)
	if got := rec.ResponseValues("Q1", "v"); len(got) != 0 {
		t.Errorf("ResponseValues() = %v, want empty", got)
	}

	var nilRec *Record
	if got := nilRec.ResponseValues("Q1", "v"); len(got) != 0 {
		t.Errorf("nil record ResponseValues() = %v, want empty", got)
	}
}

func TestToggleEnabled(t *testing.T) {
	rec := mustParse(t, `{
		"toggle_states": {
			"Q1": {
				"on": {"enabled": true},
				"off": {"enabled": false},
				"absent": {},
				"legacy": true,
				"truthy": {"enabled": "yes"},
				"zero": {"enabled": 0}
			}
		}
	}`)

	tests := []struct {
		attribute string
		want      bool
	}{
		{"on", true},
		{"off", false},
		{"absent", false},
		{"legacy", false},
		{"truthy", true},
		{"zero", false},
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			if got := rec.ToggleEnabled("Q1", tt.attribute); got != tt.want {
				t.Errorf("ToggleEnabled(Q1, %s) = %v, want %v", tt.attribute, got, tt.want)
			}
		})
	}

	if New(nil).ToggleEnabled("Q1", "on") {
		t.Error("empty record ToggleEnabled() = true, want false")
	}
}

func TestParse_NotObject(t *testing.T) {
	if _, err := Parse([]byte(`[1, 2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("Parse(array) error = %v, want ErrNotObject", err)
	}
	if _, err := Parse([]byte(`{broken`)); err == nil {
		t.Error("Parse(invalid) expected error")
	}
	if _, err := Parse([]byte(`{"responses":{}} junk`)); err == nil {
		t.Error("Parse(trailing data) expected error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.json")
	if err := os.WriteFile(path, []byte(`{"responses": {"Q1": {"v": ["x"]}}}`), 0644); err != nil {
		t.Fatalf("failed to write record: %v", err)
	}

	rec, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := rec.ResponseValues("Q1", "v"); len(got) != 1 || got[0] != "x" {
		t.Errorf("ResponseValues() = %v, want [x]", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile(missing) expected error")
	}
}

func TestTruthyAndEqual(t *testing.T) {
	truthy := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{float64(0), false},
		{float64(2), true},
		{[]any{}, false},
		{[]any{1}, true},
		{map[string]any{}, false},
	}
	for _, tt := range truthy {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	equal := []struct {
		a, b any
		want bool
	}{
		{"x", "x", true},
		{"x", "X", false},
		{float64(1), 1, true},
		{true, true, true},
		{true, "true", false},
		{nil, nil, true},
		{nil, "", false},
		{[]any{"a"}, []any{"a"}, true},
	}
	for _, tt := range equal {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%#v, %#v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
