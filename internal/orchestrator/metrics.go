package orchestrator

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors that report pipeline activity.
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	failuresTotal      *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	tasksInFlight      prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// defaultMetrics returns the package-level metrics instance registered with
// the global Prometheus registry. Created once to avoid duplicate
// registration panics when multiple orchestrators exist.
func defaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Tests should supply a fresh registry. Registration errors panic, mirroring
// promauto semantics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loft",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Handled pipeline requests by classified kind.",
		},
		[]string{"kind"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loft",
			Subsystem: "pipeline",
			Name:      "failures_total",
			Help:      "Pipeline failures by error category.",
		},
		[]string{"category"},
	)
	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loft",
			Subsystem: "pipeline",
			Name:      "generation_duration_seconds",
			Help:      "Duration of the generation completion call.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	tasksInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loft",
			Subsystem: "pipeline",
			Name:      "tasks_in_flight",
			Help:      "Generation tasks currently between creation and settlement.",
		},
	)

	for _, collector := range []prometheus.Collector{requestsTotal, failuresTotal, generationDuration, tasksInFlight} {
		reg.MustRegister(collector)
	}

	return &Metrics{
		requestsTotal:      requestsTotal,
		failuresTotal:      failuresTotal,
		generationDuration: generationDuration,
		tasksInFlight:      tasksInFlight,
	}
}
