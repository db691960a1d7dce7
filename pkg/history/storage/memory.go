package storage

import (
	"context"
	"slices"
	"sync"

	"mercator-hq/sanitycheck/pkg/history"
)

// MemoryStorage keeps entries in a map.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*history.Entry
	closed  bool
}

var _ history.Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]*history.Entry)}
}

// Store saves a copy of entry.
func (s *MemoryStorage) Store(_ context.Context, entry *history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return history.ErrStorageClosed
	}
	s.entries[entry.ID] = copyEntry(entry)
	return nil
}

// Get returns a copy of the entry with id.
func (s *MemoryStorage) Get(_ context.Context, id string) (*history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, history.ErrStorageClosed
	}
	e, ok := s.entries[id]
	if !ok {
		return nil, history.ErrNotFound
	}
	return copyEntry(e), nil
}

// Query returns matching entries sorted by time.
func (s *MemoryStorage) Query(_ context.Context, q *history.Query) ([]*history.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, history.ErrStorageClosed
	}

	results := s.matching(q)
	slices.SortFunc(results, func(a, b *history.Entry) int {
		c := a.EvaluatedAt.Compare(b.EvaluatedAt)
		if c == 0 {
			c = compareStrings(a.ID, b.ID)
		}
		if q.OldestFirst() {
			return c
		}
		return -c
	})

	if q.Offset >= len(results) {
		return []*history.Entry{}, nil
	}
	results = results[q.Offset:]
	if q.Limit > 0 && q.Limit < len(results) {
		results = results[:q.Limit]
	}

	out := make([]*history.Entry, len(results))
	for i, e := range results {
		out[i] = copyEntry(e)
	}
	return out, nil
}

// Count returns the number of matching entries.
func (s *MemoryStorage) Count(_ context.Context, q *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, history.ErrStorageClosed
	}
	return int64(len(s.matching(q))), nil
}

// Delete removes matching entries.
func (s *MemoryStorage) Delete(_ context.Context, q *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, history.ErrStorageClosed
	}
	doomed := s.matching(q)
	for _, e := range doomed {
		delete(s.entries, e.ID)
	}
	return int64(len(doomed)), nil
}

// Ping fails once the store is closed.
func (s *MemoryStorage) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return history.ErrStorageClosed
	}
	return nil
}

// Close discards all entries.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}

// matching must be called with the lock held.
func (s *MemoryStorage) matching(q *history.Query) []*history.Entry {
	var ids map[string]struct{}
	if len(q.IDs) > 0 {
		ids = make(map[string]struct{}, len(q.IDs))
		for _, id := range q.IDs {
			ids[id] = struct{}{}
		}
	}

	var out []*history.Entry
	for _, e := range s.entries {
		if ids != nil {
			if _, ok := ids[e.ID]; !ok {
				continue
			}
		}
		if q.Source != "" && e.Source != q.Source {
			continue
		}
		if q.Passed != nil && e.Passed != *q.Passed {
			continue
		}
		if q.Since != nil && e.EvaluatedAt.Before(*q.Since) {
			continue
		}
		if q.Before != nil && !e.EvaluatedAt.Before(*q.Before) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func copyEntry(e *history.Entry) *history.Entry {
	c := *e
	c.Violations = slices.Clone(e.Violations)
	c.Results = slices.Clone(e.Results)
	return &c
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
