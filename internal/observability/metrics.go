package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for
// the dataset pipeline.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec // labels: result={ok,no_source,schema_error,error}
	RunDuration    prometheus.Histogram
	RowsLoaded     prometheus.Gauge
	QualityIssues  prometheus.Gauge
	FilteredRows   prometheus.Histogram
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss}
	ExportsTotal   prometheus.Counter
	SamplesWritten prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casemap",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline passes by result.",
		}, []string{"result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "casemap",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Duration of one load-validate-normalize-filter pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casemap",
			Name:      "dataset_rows",
			Help:      "Row count of the most recently loaded dataset.",
		}),
		QualityIssues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casemap",
			Name:      "dataset_quality_issues",
			Help:      "Flagged rows in the most recently loaded dataset.",
		}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "casemap",
			Name:      "filtered_rows",
			Help:      "Rows remaining after filtering, per pass.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casemap",
			Name:      "load_cache_total",
			Help:      "Dataset load cache lookups by result.",
		}, []string{"result"}),
		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casemap",
			Name:      "exports_total",
			Help:      "Filtered CSV exports served.",
		}),
		SamplesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casemap",
			Name:      "samples_written_total",
			Help:      "Starter datasets written.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RowsLoaded,
		m.QualityIssues,
		m.FilteredRows,
		m.CacheLookups,
		m.ExportsTotal,
		m.SamplesWritten,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests. One-shot
// CLI invocations use it too, since they never serve /metrics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "casemap", Name: "pipeline_runs_total"}, []string{"result"}),
		RunDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "casemap", Name: "pipeline_run_duration_seconds"}),
		RowsLoaded:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "casemap", Name: "dataset_rows"}),
		QualityIssues:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "casemap", Name: "dataset_quality_issues"}),
		FilteredRows:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "casemap", Name: "filtered_rows"}),
		CacheLookups:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "casemap", Name: "load_cache_total"}, []string{"result"}),
		ExportsTotal:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "casemap", Name: "exports_total"}),
		SamplesWritten: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "casemap", Name: "samples_written_total"}),
	}
}
