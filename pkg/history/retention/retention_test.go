package retention

import (
	"context"
	"testing"
	"time"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/history"
	"mercator-hq/sanitycheck/pkg/history/storage"
	"mercator-hq/sanitycheck/pkg/telemetry/logging"
)

type countingObserver struct{ total int64 }

func (o *countingObserver) RecordPruned(n int64) { o.total += n }

func seed(t *testing.T, s history.Storage, now time.Time, ages ...int) {
	t.Helper()
	for i, days := range ages {
		e := &history.Entry{
			ID:          string(rune('a' + i)),
			Source:      "paper.json",
			Violations:  []string{},
			Passed:      true,
			EvaluatedAt: now.AddDate(0, 0, -days),
		}
		if err := s.Store(context.Background(), e); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}
}

func TestPruner_Prune(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cfg       Config
		ages      []int
		wantAge   int64
		wantCount int64
		remaining []string
	}{
		{"disabled", Config{}, []int{1, 10, 100}, 0, 0, []string{"a", "b", "c"}},
		{"by age", Config{RetentionDays: 7}, []int{1, 5, 8, 30}, 2, 0, []string{"a", "b"}},
		{"by count", Config{MaxRecords: 2}, []int{1, 2, 3, 4}, 0, 2, []string{"a", "b"}},
		{"under count", Config{MaxRecords: 10}, []int{1, 2}, 0, 0, []string{"a", "b"}},
		{"both", Config{RetentionDays: 7, MaxRecords: 1}, []int{1, 2, 9}, 1, 1, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			seed(t, store, now, tt.ages...)
			obs := &countingObserver{}

			p := NewPruner(store, tt.cfg, logging.Discard().Slog(), obs)
			p.now = func() time.Time { return now }

			res, err := p.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if res.ByAge != tt.wantAge || res.ByCount != tt.wantCount {
				t.Errorf("Prune() = %+v, want by_age=%d by_count=%d", res, tt.wantAge, tt.wantCount)
			}
			if obs.total != res.Total() {
				t.Errorf("observer saw %d, want %d", obs.total, res.Total())
			}

			left, _ := store.Query(context.Background(), &history.Query{Order: history.OrderOldestFirst})
			got := make(map[string]bool)
			for _, e := range left {
				got[e.ID] = true
			}
			if len(got) != len(tt.remaining) {
				t.Fatalf("remaining = %v, want %v", got, tt.remaining)
			}
			for _, id := range tt.remaining {
				if !got[id] {
					t.Errorf("expected %q to remain", id)
				}
			}
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.HistoryConfig{RetentionDays: 3, MaxRecords: 9, PruneSchedule: "@daily"})
	if cfg.RetentionDays != 3 || cfg.MaxRecords != 9 || cfg.PruneSchedule != "@daily" {
		t.Errorf("ConfigFrom() = %+v", cfg)
	}
}

func TestScheduler(t *testing.T) {
	store := storage.NewMemoryStorage()

	t.Run("empty schedule is a no-op", func(t *testing.T) {
		s := NewScheduler(NewPruner(store, Config{}, logging.Discard().Slog(), nil))
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if s.IsRunning() {
			t.Error("scheduler should not run without a schedule")
		}
	})

	t.Run("invalid schedule", func(t *testing.T) {
		s := NewScheduler(NewPruner(store, Config{PruneSchedule: "not cron"}, logging.Discard().Slog(), nil))
		if err := s.Start(context.Background()); err == nil {
			t.Error("expected error for invalid schedule")
		}
	})

	t.Run("start and stop on cancel", func(t *testing.T) {
		s := NewScheduler(NewPruner(store, Config{PruneSchedule: "0 3 * * *"}, logging.Discard().Slog(), nil))
		ctx, cancel := context.WithCancel(context.Background())
		if err := s.Start(ctx); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if !s.IsRunning() {
			t.Fatal("scheduler should be running")
		}
		if s.NextRun().IsZero() {
			t.Error("NextRun() should be set")
		}

		cancel()
		deadline := time.Now().Add(time.Second)
		for s.IsRunning() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if s.IsRunning() {
			t.Error("scheduler should stop after context cancel")
		}
	})
}
