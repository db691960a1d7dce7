package source

import (
	"context"
	"sync"

	"mercator-hq/sanitycheck/pkg/rules"
)

// MemoryOrigin is the origin reported by rule sets from a MemorySource.
const MemoryOrigin = "memory"

// MemorySource is an in-memory rule source for tests and embedding.
type MemorySource struct {
	mu    sync.RWMutex
	rules []rules.Rule
}

// NewMemorySource creates a new in-memory rule source.
func NewMemorySource(rs ...rules.Rule) *MemorySource {
	return &MemorySource{rules: rs}
}

// Load returns a copy of the stored rules.
func (s *MemorySource) Load(ctx context.Context) (*rules.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]rules.Rule, len(s.rules))
	copy(out, s.rules)
	return &rules.RuleSet{Rules: out, Origin: MemoryOrigin}, nil
}

// SetRules replaces the stored rules.
func (s *MemorySource) SetRules(rs []rules.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rs
}
