package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alert pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // label: outcome={success,fetch_error}
	AlertsProcessed prometheus.Counter
	PersistFailures prometheus.Counter
	PublishFailures prometheus.Counter
	PipelineRunning prometheus.Gauge
	SnapshotSize    prometheus.Gauge

	// Summarization metrics.
	SummarySource *prometheus.CounterVec // label: source={openrouter,huggingface,placeholder}

	// Per-run metrics.
	FeedBatchSize prometheus.Histogram
	RunDuration   prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "runs_total",
			Help:      "Pipeline invocations by outcome.",
		}, []string{"outcome"}),
		AlertsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "alerts_processed_total",
			Help:      "Total feed items normalized into alert records.",
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "persist_failures_total",
			Help:      "Total best-effort durable-store writes that failed.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "publish_failures_total",
			Help:      "Total snapshot publications that failed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_etl",
			Name:      "pipeline_running",
			Help:      "1 when the scheduled runner is active, 0 when shut down.",
		}),
		SnapshotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_etl",
			Name:      "snapshot_size",
			Help:      "Number of alerts in the most recently published snapshot.",
		}),
		SummarySource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "summary_source_total",
			Help:      "Summaries produced by provider, or placeholder on full fallback.",
		}, []string{"source"}),
		FeedBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "feed_batch_size",
			Help:      "Number of items returned by the upstream feed per run.",
			Buckets:   []float64{1, 5, 10, 20, 40, 80, 160, 320},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-process-publish invocation.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.AlertsProcessed,
		m.PersistFailures,
		m.PublishFailures,
		m.PipelineRunning,
		m.SnapshotSize,
		m.SummarySource,
		m.FeedBatchSize,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_etl", Name: "runs_total"}, []string{"outcome"}),
		AlertsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "alerts_processed_total"}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "persist_failures_total"}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_etl", Name: "publish_failures_total"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_etl", Name: "pipeline_running"}),
		SnapshotSize:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_etl", Name: "snapshot_size"}),
		SummarySource:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_etl", Name: "summary_source_total"}, []string{"source"}),
		FeedBatchSize:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_etl", Name: "feed_batch_size"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_etl", Name: "run_duration_seconds"}),
	}
}
