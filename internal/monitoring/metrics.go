package monitoring

import (
	"strconv"
	"time"

	"nestsync/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry

	statusComputations *prometheus.CounterVec
	daysRemaining      *prometheus.GaugeVec
	usageEvents        *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	statusComputations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depletion_status_computations_total",
			Help: "Depletion classifications performed, by product type and resulting level",
		},
		[]string{"product_type", "status_level"},
	)

	daysRemaining := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "depletion_days_remaining",
			Help: "Last computed days of cover per child and product type",
		},
		[]string{"child_id", "product_type"},
	)

	usageEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_events_logged_total",
			Help: "Usage events logged, by product type",
		},
		[]string{"product_type"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	registry.MustRegister(statusComputations, daysRemaining, usageEvents, requestDuration)

	return &MetricsCollector{
		registry:           registry,
		statusComputations: statusComputations,
		daysRemaining:      daysRemaining,
		usageEvents:        usageEvents,
		requestDuration:    requestDuration,
	}
}

// Registry exposes the underlying registry for the metrics HTTP handler
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStatusComputation records one depletion classification result
func (m *MetricsCollector) RecordStatusComputation(status models.DepletionStatus) {
	m.statusComputations.WithLabelValues(string(status.ProductType), string(status.StatusLevel)).Inc()
	if !status.Unbounded {
		m.daysRemaining.WithLabelValues(status.ChildID, string(status.ProductType)).Set(status.DaysRemaining)
	}
}

// RecordUsageEvent records one logged consumption action
func (m *MetricsCollector) RecordUsageEvent(productType models.ProductType) {
	m.usageEvents.WithLabelValues(string(productType)).Inc()
}

// RecordRequest records one HTTP request observation
func (m *MetricsCollector) RecordRequest(method, path string, statusCode int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, path, strconv.Itoa(statusCode)).Observe(elapsed.Seconds())
}
