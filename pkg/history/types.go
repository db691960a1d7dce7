package history

import (
	"context"
	"time"

	"mercator-hq/sanitycheck/pkg/engine"
)

// SourceHTTP is the Entry.Source for records submitted to the service.
const SourceHTTP = "http"

// Entry is one stored validation report.
type Entry struct {
	// ID is the report ID.
	ID string `json:"id"`

	// Source is the record file path, or SourceHTTP.
	Source string `json:"source"`

	// RequestID correlates service submissions with logs.
	RequestID string `json:"request_id,omitempty"`

	RulesOrigin string              `json:"rules_origin"`
	RuleCount   int                 `json:"rule_count"`
	Passed      bool                `json:"passed"`
	Violations  []string            `json:"violations"`
	Results     []engine.RuleResult `json:"results,omitempty"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
	Duration    time.Duration       `json:"duration_ns"`
}

// NewEntry converts a report into an Entry.
func NewEntry(report *engine.Report, source string) *Entry {
	violations := report.Violations
	if violations == nil {
		violations = []string{}
	}
	return &Entry{
		ID:          report.ID,
		Source:      source,
		RulesOrigin: report.RulesOrigin,
		RuleCount:   report.RuleCount,
		Passed:      report.Passed(),
		Violations:  violations,
		Results:     report.Results,
		EvaluatedAt: report.EvaluatedAt,
		Duration:    report.Duration,
	}
}

// Sort orders for Query.Order.
const (
	OrderNewestFirst = "desc"
	OrderOldestFirst = "asc"
)

// Query selects entries. Zero fields do not filter.
type Query struct {
	// IDs restricts to these entry IDs.
	IDs []string `json:"ids,omitempty"`

	// Source restricts to one record source.
	Source string `json:"source,omitempty"`

	// Passed restricts to passing (true) or failing (false) runs.
	Passed *bool `json:"passed,omitempty"`

	// Since is an inclusive lower bound on EvaluatedAt.
	Since *time.Time `json:"since,omitempty"`

	// Before is an exclusive upper bound on EvaluatedAt.
	Before *time.Time `json:"before,omitempty"`

	// Limit caps the number of results; 0 means no limit.
	Limit int `json:"limit,omitempty"`

	// Offset skips results.
	Offset int `json:"offset,omitempty"`

	// Order is OrderNewestFirst (default) or OrderOldestFirst.
	Order string `json:"order,omitempty"`
}

// Validate checks pagination and ordering.
func (q *Query) Validate() error {
	if q.Limit < 0 {
		return &QueryError{Field: "limit", Message: "must be >= 0"}
	}
	if q.Offset < 0 {
		return &QueryError{Field: "offset", Message: "must be >= 0"}
	}
	switch q.Order {
	case "", OrderNewestFirst, OrderOldestFirst:
	default:
		return &QueryError{Field: "order", Message: "must be \"asc\" or \"desc\""}
	}
	if q.Since != nil && q.Before != nil && !q.Since.Before(*q.Before) {
		return &QueryError{Field: "since", Message: "must be before \"before\""}
	}
	return nil
}

// OldestFirst reports whether results ascend by time.
func (q *Query) OldestFirst() bool {
	return q.Order == OrderOldestFirst
}

// Storage persists entries. Implementations are safe for concurrent use.
type Storage interface {
	// Store saves an entry, replacing any entry with the same ID.
	Store(ctx context.Context, entry *Entry) error

	// Get returns the entry with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// Query returns matching entries; an empty slice when none match.
	Query(ctx context.Context, query *Query) ([]*Entry, error)

	// Count returns the number of matching entries, ignoring pagination.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes matching entries, ignoring pagination, and returns how
	// many were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases resources. Later calls fail with ErrStorageClosed.
	Close() error
}
