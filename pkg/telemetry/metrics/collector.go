package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/sanitycheck/pkg/config"
	"mercator-hq/sanitycheck/pkg/engine"
)

// DefaultMaxRuleIDs bounds the rule_id label.
const DefaultMaxRuleIDs = 1000

// Collector owns the metrics registry and records metrics for validation,
// rule loading, HTTP serving and report history.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validation *ValidationMetrics
	rules      *RulesMetrics
	http       *HTTPMetrics
	history    *HistoryMetrics

	ruleIDs *CardinalityLimiter
}

var _ engine.Recorder = (*Collector)(nil)

// NewCollector creates a collector. If registry is nil, a fresh registry is
// created; the process-wide default registry is never used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.MetricsConfig{Enabled: true}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		validation: NewValidationMetrics(cfg, registry),
		rules:      NewRulesMetrics(cfg, registry),
		http:       NewHTTPMetrics(cfg, registry),
		history:    NewHistoryMetrics(cfg, registry),
		ruleIDs:    NewCardinalityLimiter(DefaultMaxRuleIDs),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordReport records a completed validation. It implements engine.Recorder.
func (c *Collector) RecordReport(report *engine.Report) {
	if !c.Enabled() || report == nil {
		return
	}

	result := "passed"
	if !report.Passed() {
		result = "failed"
	}
	c.validation.validationsTotal.WithLabelValues(result).Inc()
	c.validation.duration.Observe(report.Duration.Seconds())

	for _, res := range report.Results {
		c.validation.outcomesTotal.WithLabelValues(string(res.Outcome)).Inc()
		if res.Outcome == engine.OutcomeViolated {
			id := res.RuleID
			if !c.ruleIDs.Allow(id) {
				id = "other"
			}
			c.validation.violationsTotal.WithLabelValues(id).Inc()
		}
	}
}

// RecordRulesLoaded records a successful rules load of n rules.
func (c *Collector) RecordRulesLoaded(n int) {
	if !c.Enabled() {
		return
	}
	c.rules.loaded.Set(float64(n))
	c.rules.loadsTotal.WithLabelValues("ok").Inc()
}

// RecordRulesLoadFailure records a rules load that fell back to zero rules.
func (c *Collector) RecordRulesLoadFailure() {
	if !c.Enabled() {
		return
	}
	c.rules.loaded.Set(0)
	c.rules.loadsTotal.WithLabelValues("failed").Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(path, code string, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.http.requestsTotal.WithLabelValues(path, code).Inc()
	c.http.duration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordPruned records reports deleted by retention.
func (c *Collector) RecordPruned(n int64) {
	if !c.Enabled() || n <= 0 {
		return
	}
	c.history.prunedTotal.Add(float64(n))
}

// CardinalityLimiter caps the number of distinct values admitted for a label.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already admitted or can still be admitted.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Size returns the number of admitted values.
func (cl *CardinalityLimiter) Size() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
