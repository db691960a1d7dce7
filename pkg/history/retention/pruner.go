package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/history"
)

// Config controls pruning.
type Config struct {
	// RetentionDays deletes reports evaluated more than this many days ago.
	// 0 disables age pruning.
	RetentionDays int

	// MaxRecords keeps at most this many of the newest reports.
	// 0 disables count pruning.
	MaxRecords int64

	// PruneSchedule is a standard cron expression; empty disables scheduling.
	PruneSchedule string
}

// ConfigFrom extracts retention settings.
func ConfigFrom(cfg config.HistoryConfig) Config {
	return Config{
		RetentionDays: cfg.RetentionDays,
		MaxRecords:    cfg.MaxRecords,
		PruneSchedule: cfg.PruneSchedule,
	}
}

// Observer is told how many reports each prune removed.
type Observer interface {
	RecordPruned(n int64)
}

// Result describes one prune.
type Result struct {
	ByAge   int64 `json:"by_age"`
	ByCount int64 `json:"by_count"`
}

// Total returns all deleted reports.
func (r Result) Total() int64 {
	return r.ByAge + r.ByCount
}

// Pruner enforces retention on a history store.
type Pruner struct {
	storage  history.Storage
	config   Config
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewPruner creates a pruner. observer may be nil.
func NewPruner(storage history.Storage, cfg Config, logger *slog.Logger, observer Observer) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		storage:  storage,
		config:   cfg,
		logger:   logger.With("component", "history.retention"),
		observer: observer,
		now:      time.Now,
	}
}

// Prune deletes reports older than the retention period, then the oldest
// reports beyond MaxRecords.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var res Result

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		n, err := p.storage.Delete(ctx, &history.Query{Before: &cutoff})
		if err != nil {
			return res, fmt.Errorf("prune by age failed: %w", err)
		}
		res.ByAge = n
		p.logger.Debug("pruned reports by age", "deleted_count", n, "cutoff", cutoff)
	}

	if p.config.MaxRecords > 0 {
		n, err := p.pruneByCount(ctx)
		if err != nil {
			return res, fmt.Errorf("prune by count failed: %w", err)
		}
		res.ByCount = n
	}

	if p.observer != nil {
		p.observer.RecordPruned(res.Total())
	}
	if res.Total() > 0 {
		p.logger.Info("report pruning completed",
			"by_age", res.ByAge,
			"by_count", res.ByCount,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return res, nil
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &history.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	excess := count - p.config.MaxRecords
	if excess <= 0 {
		return 0, nil
	}

	oldest, err := p.storage.Query(ctx, &history.Query{
		Order: history.OrderOldestFirst,
		Limit: int(excess),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query oldest reports: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	ids := make([]string, len(oldest))
	for i, e := range oldest {
		ids[i] = e.ID
	}
	return p.storage.Delete(ctx, &history.Query{IDs: ids})
}
