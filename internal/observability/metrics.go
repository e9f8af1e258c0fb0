package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// indicator pipeline.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec // label: status={advisory-clean,advisory-warnings,blocked,error}
	RunDuration prometheus.Histogram

	RowsFetched   prometheus.Gauge
	RowsProcessed prometheus.Gauge

	CheckFindings *prometheus.GaugeVec   // labels: check
	ChecksFailed  *prometheus.CounterVec // labels: check, severity

	LastRunTimestamp prometheus.Gauge
	PipelineRunning  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RowsFetched,
		m.RowsProcessed,
		m.CheckFindings,
		m.ChecksFailed,
		m.LastRunTimestamp,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "runs_total",
			Help:      "Pipeline runs by final status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-validate-derive-render run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RowsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "rows_fetched",
			Help:      "Raw rows in the most recently fetched dataset.",
		}),
		RowsProcessed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "rows_processed",
			Help:      "Processed rows after cleaning, dedup, and country filtering.",
		}),
		CheckFindings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "check_findings",
			Help:      "Offending row count reported by each quality check in the last run.",
		}, []string{"check"}),
		ChecksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "checks_failed_total",
			Help:      "Non-passing check outcomes by check and severity.",
		}, []string{"check", "severity"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
	}
}
