package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"mercator-hq/sanitycheck/pkg/engine"
)

func violatedReport() *engine.Report {
	return &engine.Report{
		ID:         "r1",
		RuleCount:  3,
		Violations: []string{"v2 must be y", "Rule 't1' violated"},
		Results: []engine.RuleResult{
			{RuleID: "e1", Outcome: engine.OutcomeViolated, Message: "v2 must be y"},
			{RuleID: "t1", Outcome: engine.OutcomeViolated, Message: "Rule 't1' violated"},
			{RuleID: "n1", Outcome: engine.OutcomeNotApplicable},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name   string
		report *engine.Report
		want   string
	}{
		{
			name:   "no violations",
			report: &engine.Report{Violations: []string{}},
			want:   "No violations\n",
		},
		{
			name:   "nil violations",
			report: &engine.Report{},
			want:   "No violations\n",
		},
		{
			name:   "violations",
			report: violatedReport(),
			want:   "Violations:\n- v2 must be y\n- Rule 't1' violated\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{}
			buf := &bytes.Buffer{}
			if err := formatter.FormatTo(buf, tt.report); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}

			out, err := formatter.Format(tt.report)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Format() = %q, want %q", string(out), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	for _, indent := range []bool{false, true} {
		formatter := &JSONFormatter{Indent: indent}
		out, err := formatter.Format(violatedReport())
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		var doc JSONReport
		if err := json.Unmarshal(out, &doc); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if doc.Passed {
			t.Error("passed = true, want false")
		}
		if len(doc.Violations) != 2 {
			t.Errorf("violations = %v, want 2 entries", doc.Violations)
		}
		if doc.Summary["violated"] != 2 || doc.Summary["not_applicable"] != 1 || doc.Summary["passed"] != 0 {
			t.Errorf("summary = %v", doc.Summary)
		}
	}
}

func TestJSONFormatter_EmptyViolationsIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&JSONFormatter{}).FormatTo(buf, &engine.Report{}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"violations":[]`)) {
		t.Errorf("expected empty violations array, got %s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) should return *TextFormatter")
	}
}
