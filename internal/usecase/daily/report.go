package daily

import (
	"fmt"
	"strings"
	"time"

	"quantum-news-agent/internal/usecase/backlog"
	"quantum-news-agent/internal/usecase/ingest"
)

// Status is the overall outcome of one daily run.
type Status string

const (
	// StatusSuccess means both phases ran to completion. Soft failures
	// inside a phase (extraction, summarization) do not demote the run.
	StatusSuccess Status = "success"
	// StatusError means a critical failure escaped a phase: a panic caught
	// at the coordinator boundary or a backlog scan failure.
	StatusError Status = "error"
)

// Report describes one coordinator run: the new-article outcome, the
// backlog outcome, wall-clock duration and a human-readable summary. It is
// ephemeral; it exists for the log sink and the process exit code.
type Report struct {
	Status     Status
	Ingest     ingest.Outcome
	Backlog    backlog.Result
	BacklogErr string
	Err        string
	Duration   time.Duration
	Summary    string
	FinishedAt time.Time
}

// buildSummary renders the multi-line human-readable run summary.
func buildSummary(report Report) string {
	var lines []string

	switch report.Ingest.Status {
	case ingest.StatusSuccess:
		article := report.Ingest.Article
		lines = append(lines,
			"NEW ARTICLE PROCESSED:",
			fmt.Sprintf("  Title: %s", article.Title),
			fmt.Sprintf("  Author: %s", article.Author),
			fmt.Sprintf("  Publish Date: %s", article.PublishDate),
			fmt.Sprintf("  Link: %s", article.Link),
			fmt.Sprintf("  Summary Generated: %d chars", len(report.Ingest.Summary)),
		)
	case ingest.StatusNoNewArticles:
		lines = append(lines, "NO NEW ARTICLES: feed had no new articles to process")
	default:
		lines = append(lines, fmt.Sprintf("NEW ARTICLE ERROR: %s", report.Ingest.Reason))
	}

	switch {
	case report.BacklogErr != "":
		lines = append(lines, fmt.Sprintf("BACKLOG ERROR: %s", report.BacklogErr))
	case report.Backlog.Processed > 0:
		lines = append(lines, fmt.Sprintf("BACKLOG: %d/%d articles summarized",
			report.Backlog.Processed, report.Backlog.Total))
	default:
		lines = append(lines, "BACKLOG: no articles requiring summarization")
	}

	lines = append(lines,
		fmt.Sprintf("PROCESSING TIME: %s", report.Duration.Round(time.Millisecond)),
		fmt.Sprintf("COMPLETED AT: %s", report.FinishedAt.Format("2006-01-02 15:04:05")),
	)

	return strings.Join(lines, "\n")
}
