package infrastructure

import (
	"closest-pair/internal/domain"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects per-run metrics in a private registry that is written out
// as a node_exporter textfile once the run is over.
type Metrics struct {
	registry *prometheus.Registry

	Runs     prometheus.Counter
	Workers  prometheus.Counter
	Distance prometheus.Gauge
	Duration prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "closest_pair_runs_total",
			Help: "Total number of solver runs",
		}),
		Workers: factory.NewCounter(prometheus.CounterOpts{
			Name: "closest_pair_workers_spawned_total",
			Help: "Total number of workers spawned across all runs",
		}),
		Distance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "closest_pair_min_distance",
			Help: "Minimum distance found by the last run",
		}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "closest_pair_run_duration_seconds",
			Help:    "Wall time of a solver run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// ObserveRun implements domain.MetricsRecorder.
func (m *Metrics) ObserveRun(res domain.Result, elapsed time.Duration) {
	m.Runs.Inc()
	m.Workers.Add(float64(res.Workers))
	m.Distance.Set(res.Distance)
	m.Duration.Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
