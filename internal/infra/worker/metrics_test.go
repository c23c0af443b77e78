package worker_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"quantum-news-agent/internal/infra/worker"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestMetrics_RecordRun(t *testing.T) {
	metrics := worker.NewMetrics(prometheus.NewRegistry())

	metrics.RecordRun("success", 12.5)
	metrics.RecordRun("success", 3.0)
	metrics.RecordRun("error", 1.0)

	if got := counterValue(t, metrics.RunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := counterValue(t, metrics.RunsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
}

func TestMetrics_Counters(t *testing.T) {
	metrics := worker.NewMetrics(prometheus.NewRegistry())

	metrics.RecordIngested()
	metrics.RecordIngested()
	metrics.RecordBacklogProcessed(5)

	if got := counterValue(t, metrics.ArticlesIngestedTotal); got != 2 {
		t.Errorf("ingested = %v, want 2", got)
	}
	if got := counterValue(t, metrics.BacklogProcessedTotal); got != 5 {
		t.Errorf("backlog processed = %v, want 5", got)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	metrics := worker.NewMetrics(prometheus.NewRegistry())

	metrics.SetPending(17)
	if got := gaugeValue(t, metrics.ArticlesPending); got != 17 {
		t.Errorf("pending = %v, want 17", got)
	}

	metrics.RecordLastSuccess()
	if got := gaugeValue(t, metrics.LastSuccessTimestamp); got == 0 {
		t.Error("last success timestamp not set")
	}
}
