package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus metrics for the scheduler component.
//
// Exposed metrics:
//   - scheduler_runs_total: total daily runs by status (success/error)
//   - scheduler_run_duration_seconds: duration histogram of daily runs
//   - scheduler_articles_ingested_total: total new articles ingested
//   - scheduler_backlog_processed_total: total backlog articles summarized
//   - scheduler_articles_pending: current number of pending articles
//   - scheduler_last_success_timestamp: Unix time of the last successful run
type Metrics struct {
	RunsTotal             *prometheus.CounterVec
	RunDurationSeconds    prometheus.Histogram
	ArticlesIngestedTotal prometheus.Counter
	BacklogProcessedTotal prometheus.Counter
	ArticlesPending       prometheus.Gauge
	LastSuccessTimestamp  prometheus.Gauge
}

// NewMetrics creates scheduler metrics registered on reg. Pass
// prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_runs_total",
			Help: "Total number of daily runs by status (success/error)",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_run_duration_seconds",
			Help:    "Duration of daily runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		ArticlesIngestedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_articles_ingested_total",
			Help: "Total number of new articles ingested",
		}),

		BacklogProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_backlog_processed_total",
			Help: "Total number of backlog articles summarized",
		}),

		ArticlesPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_articles_pending",
			Help: "Current number of articles awaiting summarization",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scheduler_last_success_timestamp",
			Help: "Unix timestamp of the last successful daily run",
		}),
	}
}

// RecordRun increments the run counter for the given status and
// observes the run duration.
func (m *Metrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
}

// RecordIngested counts a newly ingested article.
func (m *Metrics) RecordIngested() {
	m.ArticlesIngestedTotal.Inc()
}

// RecordBacklogProcessed adds the number of backlog articles summarized
// in a single run.
func (m *Metrics) RecordBacklogProcessed(count int) {
	m.BacklogProcessedTotal.Add(float64(count))
}

// SetPending updates the pending article gauge.
func (m *Metrics) SetPending(count int64) {
	m.ArticlesPending.Set(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *Metrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
