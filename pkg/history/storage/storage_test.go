package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/engine"
	"mercator-hq/sanitycheck/pkg/history"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func entry(id, source string, passed bool, age time.Duration) *history.Entry {
	e := &history.Entry{
		ID:          id,
		Source:      source,
		RulesOrigin: "sanity_checks.json",
		RuleCount:   2,
		Passed:      passed,
		Violations:  []string{},
		Results: []engine.RuleResult{
			{RuleID: "r1", Outcome: engine.OutcomePassed},
		},
		EvaluatedAt: base.Add(-age),
		Duration:    150 * time.Microsecond,
	}
	if !passed {
		e.Violations = []string{"Rule 'r2' violated"}
		e.Results = append(e.Results, engine.RuleResult{RuleID: "r2", Outcome: engine.OutcomeViolated, Message: "Rule 'r2' violated"})
	}
	return e
}

func seed(t *testing.T, s history.Storage) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []*history.Entry{
		entry("a", "one.json", true, 3*time.Hour),
		entry("b", "one.json", false, 2*time.Hour),
		entry("c", "two.json", false, time.Hour),
		entry("d", history.SourceHTTP, true, 0),
	} {
		if err := s.Store(ctx, e); err != nil {
			t.Fatalf("Store(%s) error = %v", e.ID, err)
		}
	}
}

func ids(entries []*history.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// backends returns a fresh instance of every backend.
func backends(t *testing.T) map[string]history.Storage {
	t.Helper()
	sqlite, err := NewSQLiteStorage(SQLiteConfig{Path: filepath.Join(t.TempDir(), "reports.db")}, nil)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]history.Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestStorage_GetRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := entry("x", "paper.json", false, 0)
			want.RequestID = "req-1"
			if err := s.Store(ctx, want); err != nil {
				t.Fatalf("Store() error = %v", err)
			}

			got, err := s.Get(ctx, "x")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Source != want.Source || got.RequestID != "req-1" || got.Passed {
				t.Errorf("Get() = %+v", got)
			}
			if !got.EvaluatedAt.Equal(want.EvaluatedAt) || got.Duration != want.Duration {
				t.Errorf("times differ: got %v/%v, want %v/%v", got.EvaluatedAt, got.Duration, want.EvaluatedAt, want.Duration)
			}
			if len(got.Violations) != 1 || len(got.Results) != 2 || got.Results[1].Outcome != engine.OutcomeViolated {
				t.Errorf("payload differs: %+v", got)
			}

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, history.ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStorage_Query(t *testing.T) {
	passed, failed := true, false
	since := base.Add(-150 * time.Minute)
	before := base.Add(-30 * time.Minute)

	tests := []struct {
		name  string
		query history.Query
		want  []string
	}{
		{"all newest first", history.Query{}, []string{"d", "c", "b", "a"}},
		{"oldest first", history.Query{Order: history.OrderOldestFirst}, []string{"a", "b", "c", "d"}},
		{"by source", history.Query{Source: "one.json"}, []string{"b", "a"}},
		{"passed only", history.Query{Passed: &passed}, []string{"d", "a"}},
		{"failed only", history.Query{Passed: &failed}, []string{"c", "b"}},
		{"time window", history.Query{Since: &since, Before: &before}, []string{"c", "b"}},
		{"ids", history.Query{IDs: []string{"a", "d"}}, []string{"d", "a"}},
		{"limit", history.Query{Limit: 2}, []string{"d", "c"}},
		{"offset", history.Query{Offset: 3}, []string{"a"}},
		{"limit and offset", history.Query{Limit: 1, Offset: 1}, []string{"c"}},
		{"offset past end", history.Query{Offset: 10}, []string{}},
	}

	for name, s := range backends(t) {
		seed(t, s)
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := s.Query(context.Background(), &tt.query)
				if err != nil {
					t.Fatalf("Query() error = %v", err)
				}
				if !equalIDs(ids(got), tt.want) {
					t.Errorf("Query() = %v, want %v", ids(got), tt.want)
				}
			})
		}
	}
}

func TestStorage_QueryInvalid(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Query(context.Background(), &history.Query{Limit: -1})
			var qe *history.QueryError
			if !errors.As(err, &qe) {
				t.Errorf("Query(limit=-1) error = %v, want QueryError", err)
			}
		})
	}
}

func TestStorage_CountAndDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, s)

			n, err := s.Count(ctx, &history.Query{Limit: 1})
			if err != nil || n != 4 {
				t.Fatalf("Count() = %d, %v; want 4 ignoring limit", n, err)
			}

			cutoff := base.Add(-90 * time.Minute)
			deleted, err := s.Delete(ctx, &history.Query{Before: &cutoff})
			if err != nil || deleted != 2 {
				t.Fatalf("Delete(before) = %d, %v; want 2", deleted, err)
			}

			remaining, _ := s.Query(ctx, &history.Query{})
			if !equalIDs(ids(remaining), []string{"d", "c"}) {
				t.Errorf("remaining = %v, want [d c]", ids(remaining))
			}
		})
	}
}

func TestStorage_StoreReplaces(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_ = s.Store(ctx, entry("same", "a.json", true, 0))
			_ = s.Store(ctx, entry("same", "b.json", false, 0))

			n, _ := s.Count(ctx, &history.Query{})
			if n != 1 {
				t.Errorf("Count() = %d, want 1", n)
			}
			got, _ := s.Get(ctx, "same")
			if got == nil || got.Source != "b.json" {
				t.Errorf("Get() = %+v, want replaced entry", got)
			}
		})
	}
}

func TestStorage_Closed(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := s.Ping(ctx); err != nil {
				t.Fatalf("Ping() error = %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if err := s.Store(ctx, entry("z", "p.json", true, 0)); !errors.Is(err, history.ErrStorageClosed) {
				t.Errorf("Store() after Close = %v, want ErrStorageClosed", err)
			}
			if err := s.Ping(ctx); !errors.Is(err, history.ErrStorageClosed) {
				t.Errorf("Ping() after Close = %v, want ErrStorageClosed", err)
			}
		})
	}
}

func TestSQLiteStorage_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.db")
	ctx := context.Background()

	s, err := Open(config.HistoryConfig{Backend: "sqlite", SQLitePath: path}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Store(ctx, entry("keep", "p.json", true, 0)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	_ = s.Close()

	reopened, err := NewSQLiteStorage(SQLiteConfig{Path: path}, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "keep"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.HistoryConfig{Backend: "memory"}, nil)
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Open(memory) = %T", s)
	}
	if _, err := Open(config.HistoryConfig{Backend: "postgres"}, nil); err == nil {
		t.Error("Open(postgres) expected error")
	}
	if _, err := NewSQLiteStorage(SQLiteConfig{}, nil); err == nil {
		t.Error("NewSQLiteStorage with empty path expected error")
	}
}
