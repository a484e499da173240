package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset pipeline and its query surface.
type Metrics struct {
	Loads          *prometheus.CounterVec // labels: outcome={ok,fallback}
	LoadDuration   prometheus.Histogram
	DatasetRecords prometheus.Gauge
	RowsSkipped    prometheus.Counter
	ParseChunks    prometheus.Counter

	// Query metrics.
	Queries *prometheus.CounterVec // labels: endpoint={intensity,records,availability}, outcome={ok,no_data}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_map",
			Name:      "dataset_loads_total",
			Help:      "Completed dataset loads by outcome.",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "carbon_map",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of a complete fetch-validate-parse cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carbon_map",
			Name:      "dataset_records",
			Help:      "Records in the currently served dataset.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_map",
			Name:      "dataset_rows_skipped_total",
			Help:      "Malformed rows dropped during parsing.",
		}),
		ParseChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carbon_map",
			Name:      "dataset_parse_chunks_total",
			Help:      "Bounded parse steps executed.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carbon_map",
			Name:      "queries_total",
			Help:      "Dataset API queries by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}

	prometheus.MustRegister(
		m.Loads,
		m.LoadDuration,
		m.DatasetRecords,
		m.RowsSkipped,
		m.ParseChunks,
		m.Queries,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Loads:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "carbon_map", Name: "dataset_loads_total"}, []string{"outcome"}),
		LoadDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "carbon_map", Name: "dataset_load_duration_seconds"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "carbon_map", Name: "dataset_records"}),
		RowsSkipped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_map", Name: "dataset_rows_skipped_total"}),
		ParseChunks:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "carbon_map", Name: "dataset_parse_chunks_total"}),
		Queries:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "carbon_map", Name: "queries_total"}, []string{"endpoint", "outcome"}),
	}
}
