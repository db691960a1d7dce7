package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/sanitycheck/pkg/config"
)

// ValidationMetrics tracks record validations.
type ValidationMetrics struct {
	validationsTotal *prometheus.CounterVec
	violationsTotal  *prometheus.CounterVec
	outcomesTotal    *prometheus.CounterVec
	duration         prometheus.Histogram
}

// NewValidationMetrics creates and registers validation metrics.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of record validations by result",
			},
			[]string{"result"},
		),
		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of rule violations by rule",
			},
			[]string{"rule_id"},
		),
		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_outcomes_total",
				Help:      "Total number of rule evaluations by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of one record validation in seconds",
				// Validations are in-memory and fast.
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
			},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.violationsTotal,
		vm.outcomesTotal,
		vm.duration,
	)
	return vm
}

// RulesMetrics tracks rules file loading.
type RulesMetrics struct {
	loaded     prometheus.Gauge
	loadsTotal *prometheus.CounterVec
}

// NewRulesMetrics creates and registers rules metrics.
func NewRulesMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RulesMetrics {
	rm := &RulesMetrics{
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rules_loaded",
			Help:      "Number of rules in the most recently loaded rule set",
		}),
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_loads_total",
				Help:      "Total number of rules file loads by status",
			},
			[]string{"status"},
		),
	}
	registry.MustRegister(rm.loaded, rm.loadsTotal)
	return rm
}

// HTTPMetrics tracks the validation service.
type HTTPMetrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path and status code",
			},
			[]string{"path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
	registry.MustRegister(hm.requestsTotal, hm.duration)
	return hm
}

// HistoryMetrics tracks report retention.
type HistoryMetrics struct {
	prunedTotal prometheus.Counter
}

// NewHistoryMetrics creates and registers history metrics.
func NewHistoryMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HistoryMetrics {
	hm := &HistoryMetrics{
		prunedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "history_pruned_total",
			Help:      "Total number of stored reports removed by retention",
		}),
	}
	registry.MustRegister(hm.prunedTotal)
	return hm
}
