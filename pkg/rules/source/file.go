package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/sanitycheck/pkg/rules"
)

// Source loads rule sets.
type Source interface {
	Load(ctx context.Context) (*rules.RuleSet, error)
}

// LoadError describes why a rule set could not be loaded.
type LoadError struct {
	Path  string
	Op    string
	Cause error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("rules %s %q: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// FileSource loads rules from a single file on disk.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based rule source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the rules file path.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and decodes the rules file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func (s *FileSource) Load(ctx context.Context) (*rules.RuleSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LoadError{Path: s.path, Op: "read", Cause: err}
	}

	var parsed []rules.Rule
	if isYAML(s.path) {
		parsed, err = parseYAML(data)
	} else {
		parsed, err = rules.ParseJSON(data)
	}
	if err != nil {
		return nil, &LoadError{Path: s.path, Op: "decode", Cause: err}
	}

	s.logger.DebugContext(ctx, "loaded rules",
		"path", s.path,
		"rule_count", len(parsed),
	)

	return &rules.RuleSet{Rules: parsed, Origin: s.path}, nil
}

// LoadOrEmpty loads from src and falls back to an empty rule set on any error.
// The error is logged at warn level and never returned.
func LoadOrEmpty(ctx context.Context, src Source, logger *slog.Logger) *rules.RuleSet {
	if logger == nil {
		logger = slog.Default()
	}
	set, err := src.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "rules unavailable, validating with zero rules",
			"error", err,
		)
		return rules.Empty(Origin(src))
	}
	return set
}

// Origin names where src loads from: the file path for a FileSource,
// MemoryOrigin for a MemorySource, and "" otherwise.
func Origin(src Source) string {
	switch s := src.(type) {
	case *FileSource:
		return s.Path()
	case *MemorySource:
		return MemoryOrigin
	default:
		return ""
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func parseYAML(data []byte) ([]rules.Rule, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}
	return rules.Decode(normalizeYAML(doc))
}

// normalizeYAML converts yaml.v3 output into the shapes encoding/json
// produces: string-keyed maps and float64 numbers.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
