package routes

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Navigation outcomes recorded by Metrics.
const (
	OutcomeMatched      = "matched"
	OutcomeRedirected   = "redirected"
	OutcomeNotFound     = "not_found"
	OutcomeRedirectLoop = "redirect_loop"
)

// MetricsConfig configures shell metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "shellkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "routes").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for lazy load duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures shell metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the lazy load histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "shellkit",
		Subsystem: "routes",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by shells. A nil
// *Metrics records nothing.
type Metrics struct {
	navigations  *prometheus.CounterVec
	lazyLoads    *prometheus.CounterVec
	lazyDuration prometheus.Histogram
	activeShells prometheus.Gauge
}

// NewMetrics registers the shell collectors.
//
// Metrics collected:
//   - shellkit_routes_navigations_total: navigations by outcome
//   - shellkit_routes_lazy_loads_total: lazy loads by status
//   - shellkit_routes_lazy_load_duration_seconds: lazy load duration
//   - shellkit_routes_active_shells: mounted shells
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of shell navigations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		lazyLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_loads_total",
			Help:        "Total number of settled lazy route loads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		lazyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_load_duration_seconds",
			Help:        "Lazy route load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeShells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_shells",
			Help:        "Number of mounted route shells",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordNavigation(outcome string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordLazyLoad(err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.lazyLoads.WithLabelValues(status).Inc()
	m.lazyDuration.Observe(d.Seconds())
}

func (m *Metrics) shellMounted() {
	if m != nil {
		m.activeShells.Inc()
	}
}

func (m *Metrics) shellClosed() {
	if m != nil {
		m.activeShells.Dec()
	}
}
