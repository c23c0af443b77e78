package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder records summarization outcomes. The interface
// keeps the adapters testable without a live Prometheus registry.
type SummaryMetricsRecorder interface {
	// RecordRequest counts one summarization request by terminal status
	// (success, escalation, error).
	RecordRequest(status string)
	// RecordDuration records the wall-clock time of one request.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics is the production SummaryMetricsRecorder.
type PrometheusSummaryMetrics struct {
	requestsTotal     *prometheus.CounterVec
	durationHistogram prometheus.Histogram
}

var (
	promMetricsOnce sync.Once
	promMetrics     *PrometheusSummaryMetrics
)

// NewPrometheusSummaryMetrics returns the process-wide Prometheus recorder.
// Registration happens once; both summarizer implementations share it.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	promMetricsOnce.Do(func() {
		promMetrics = &PrometheusSummaryMetrics{
			requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "summarizer_requests_total",
				Help: "Total summarization requests by terminal status",
			}, []string{"status"}),
			durationHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarizer_request_duration_seconds",
				Help:    "Duration of summarization requests in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60},
			}),
		}
	})
	return promMetrics
}

// RecordRequest implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordRequest(status string) {
	p.requestsTotal.WithLabelValues(status).Inc()
}

// RecordDuration implements SummaryMetricsRecorder.
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}
