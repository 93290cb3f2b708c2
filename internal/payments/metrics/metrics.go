package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the payments module.
type Metrics struct {
	OperationDuration *prometheus.HistogramVec
	OperationsTotal   *prometheus.CounterVec
	SCADuration       *prometheus.HistogramVec
	HealthProbeStatus *prometheus.GaugeVec
}

// New creates and registers all payments metrics.
func New() *Metrics {
	return &Metrics{
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railhub_payment_operation_duration_seconds",
			Help:    "Duration of dispatched payment operations by category and outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"category", "operation", "success"}),
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhub_payment_operations_total",
			Help: "Total dispatched payment operations by category and outcome",
		}, []string{"category", "operation", "success"}),
		SCADuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railhub_sca_operation_duration_seconds",
			Help:    "Duration of SCA gate operations by method and outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "method", "success"}),
		HealthProbeStatus: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "railhub_provider_health_status",
			Help: "Last health probe outcome per category (1 up, 0 otherwise)",
		}, []string{"category"}),
	}
}

// ObserveOperation records one dispatched operation.
func (m *Metrics) ObserveOperation(category, operation string, d time.Duration, success bool) {
	labels := []string{category, operation, strconv.FormatBool(success)}
	m.OperationDuration.WithLabelValues(labels...).Observe(d.Seconds())
	m.OperationsTotal.WithLabelValues(labels...).Inc()
}

// ObserveSCA records one SCA gate call.
func (m *Metrics) ObserveSCA(operation, method string, d time.Duration, success bool) {
	m.SCADuration.WithLabelValues(operation, method, strconv.FormatBool(success)).Observe(d.Seconds())
}

// SetHealthStatus records the last probe outcome for a category.
func (m *Metrics) SetHealthStatus(category string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.HealthProbeStatus.WithLabelValues(category).Set(v)
}
