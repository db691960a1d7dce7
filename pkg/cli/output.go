package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mercator-hq/sanitycheck/pkg/engine"
)

// OutputFormat represents the output format for validation reports.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Formatter formats validation reports.
type Formatter interface {
	Format(report *engine.Report) ([]byte, error)
	FormatTo(w io.Writer, report *engine.Report) error
}

// TextFormatter prints "No violations" or a "Violations:" list.
type TextFormatter struct{}

// Format converts report to text.
func (f *TextFormatter) Format(report *engine.Report) ([]byte, error) {
	var b strings.Builder
	if err := f.FormatTo(&b, report); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// FormatTo writes report to w as text.
func (f *TextFormatter) FormatTo(w io.Writer, report *engine.Report) error {
	if report.Passed() {
		_, err := fmt.Fprintln(w, "No violations")
		return err
	}
	if _, err := fmt.Fprintln(w, "Violations:"); err != nil {
		return err
	}
	for _, v := range report.Violations {
		if _, err := fmt.Fprintf(w, "- %s\n", v); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	Indent bool
}

// JSONReport is the document written by JSONFormatter.
type JSONReport struct {
	Passed     bool           `json:"passed"`
	Violations []string       `json:"violations"`
	Summary    map[string]int `json:"summary"`
	Report     *engine.Report `json:"report"`
}

func newJSONReport(report *engine.Report) JSONReport {
	summary := map[string]int{}
	for _, o := range []engine.Outcome{
		engine.OutcomePassed,
		engine.OutcomeViolated,
		engine.OutcomeNotApplicable,
		engine.OutcomeSkipped,
	} {
		summary[string(o)] = report.Count(o)
	}
	violations := report.Violations
	if violations == nil {
		violations = []string{}
	}
	return JSONReport{
		Passed:     report.Passed(),
		Violations: violations,
		Summary:    summary,
		Report:     report,
	}
}

// Format converts report to JSON.
func (f *JSONFormatter) Format(report *engine.Report) ([]byte, error) {
	doc := newJSONReport(report)
	if f.Indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// FormatTo writes report to w as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, report *engine.Report) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(newJSONReport(report))
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}
