// Package daily composes the ingestion orchestrator and the backlog
// reconciler into one reported run.
package daily

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quantum-news-agent/internal/usecase/backlog"
	"quantum-news-agent/internal/usecase/ingest"
)

const banner = "============================================================"

// Coordinator executes the ingestion phase followed unconditionally by the
// backlog phase and assembles a Report. It is the catch-all boundary: a
// panic escaping either phase is converted into an error-status report
// instead of crashing the process.
type Coordinator struct {
	Ingest  *ingest.Service
	Backlog *backlog.Service
	Logger  *slog.Logger
}

// NewCoordinator creates a Coordinator over the two pipeline phases.
func NewCoordinator(ingestSvc *ingest.Service, backlogSvc *backlog.Service, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{Ingest: ingestSvc, Backlog: backlogSvc, Logger: logger}
}

// Run executes one daily run and returns its report. The backlog phase
// runs even when ingestion failed; duration is measured from coordinator
// start to report assembly.
func (c *Coordinator) Run(ctx context.Context) (report Report) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			report = Report{
				Status:     StatusError,
				Err:        fmt.Sprintf("critical error in daily run: %v", r),
				Duration:   time.Since(start),
				FinishedAt: time.Now(),
			}
			report.Summary = buildSummary(report)
			c.Logger.Error("daily run panicked",
				slog.Any("panic", r),
				slog.Duration("duration", report.Duration))
		}
	}()

	c.Logger.Info(banner)
	c.Logger.Info("daily news processing started")
	c.Logger.Info(banner)

	c.Logger.Info("step 1: processing new articles from feed")
	outcome := c.Ingest.ProcessNewArticle(ctx)

	c.Logger.Info("step 2: processing backlog of unsummarized articles")
	backlogResult, backlogErr := c.Backlog.Reconcile(ctx)

	report = Report{
		Status:     StatusSuccess,
		Ingest:     outcome,
		Backlog:    backlogResult,
		Duration:   time.Since(start),
		FinishedAt: time.Now(),
	}
	if backlogErr != nil {
		report.Status = StatusError
		report.BacklogErr = backlogErr.Error()
		report.Err = report.BacklogErr
	}
	report.Summary = buildSummary(report)

	c.Logger.Info(banner)
	c.Logger.Info("DAILY PROCESSING SUMMARY")
	c.Logger.Info(banner)
	for _, line := range strings.Split(report.Summary, "\n") {
		c.Logger.Info(line)
	}
	c.Logger.Info(banner)
	c.Logger.Info("daily run finished",
		slog.String("status", string(report.Status)),
		slog.Duration("duration", report.Duration))

	return report
}
