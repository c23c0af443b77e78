package daily_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quantum-news-agent/internal/domain/entity"
	"quantum-news-agent/internal/repository"
	"quantum-news-agent/internal/usecase/backlog"
	"quantum-news-agent/internal/usecase/daily"
	"quantum-news-agent/internal/usecase/ingest"
)

type stubArticleRepo struct {
	existsMap  map[string]bool
	pending    []*entity.Article
	pendingErr error
	summaries  map[int64]string
	nextID     int64
}

func (s *stubArticleRepo) Create(_ context.Context, a *entity.Article) error {
	s.nextID++
	a.ID = s.nextID
	return nil
}

func (s *stubArticleRepo) ExistsByLink(_ context.Context, link string) (bool, error) {
	return s.existsMap[link], nil
}

func (s *stubArticleRepo) ListPending(_ context.Context) ([]*entity.Article, error) {
	return s.pending, s.pendingErr
}

func (s *stubArticleRepo) UpdateSummary(_ context.Context, id int64, summary string) error {
	if s.summaries == nil {
		s.summaries = make(map[int64]string)
	}
	s.summaries[id] = summary
	return nil
}

func (s *stubArticleRepo) ListRecentSummarized(_ context.Context, _ int) ([]*entity.Article, error) {
	return nil, nil
}

func (s *stubArticleRepo) Stats(_ context.Context) (repository.ArticleStats, error) {
	return repository.ArticleStats{}, nil
}

type stubFeedFetcher struct {
	entry *ingest.Entry
	err   error
	panic bool
}

func (s *stubFeedFetcher) FetchLatest(_ context.Context) (*ingest.Entry, error) {
	if s.panic {
		panic("feed fetcher exploded")
	}
	return s.entry, s.err
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, _ string) (*ingest.ExtractedContent, error) {
	return &ingest.ExtractedContent{
		Title:       "Extracted title",
		Content:     "Extracted body.",
		PublishDate: "2025-10-26",
	}, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	return "Summary: " + text, nil
}

func newCoordinator(repo *stubArticleRepo, feed *stubFeedFetcher) *daily.Coordinator {
	ingestSvc := ingest.NewService(repo, feed, stubExtractor{}, stubSummarizer{}, nil)
	backlogSvc := backlog.NewService(repo, stubSummarizer{}, 0, nil)
	return daily.NewCoordinator(ingestSvc, backlogSvc, nil)
}

func TestRun_FullRun(t *testing.T) {
	repo := &stubArticleRepo{
		existsMap: map[string]bool{},
		pending: []*entity.Article{
			{ID: 100, Title: "Old pending", Link: "https://example.com/old", Content: "old body"},
		},
	}
	feed := &stubFeedFetcher{
		entry: &ingest.Entry{
			Title:     "Fresh article",
			Author:    "Jane Smith",
			Link:      "https://example.com/fresh",
			Published: "2025-10-26",
		},
	}

	report := newCoordinator(repo, feed).Run(context.Background())

	if report.Status != daily.StatusSuccess {
		t.Fatalf("Status = %q, want %q", report.Status, daily.StatusSuccess)
	}
	if report.Ingest.Status != ingest.StatusSuccess {
		t.Errorf("Ingest.Status = %q, want success", report.Ingest.Status)
	}
	if diff := cmp.Diff(backlog.Result{Processed: 1, Total: 1}, report.Backlog); diff != "" {
		t.Errorf("Backlog result mismatch (-want +got):\n%s", diff)
	}

	for _, want := range []string{
		"NEW ARTICLE PROCESSED:",
		"  Title: Fresh article",
		"  Author: Jane Smith",
		"  Link: https://example.com/fresh",
		"BACKLOG: 1/1 articles summarized",
		"PROCESSING TIME:",
		"COMPLETED AT:",
	} {
		if !strings.Contains(report.Summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, report.Summary)
		}
	}
}

func TestRun_NoNewArticlesAndEmptyBacklog(t *testing.T) {
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	feed := &stubFeedFetcher{entry: nil}

	report := newCoordinator(repo, feed).Run(context.Background())

	if report.Status != daily.StatusSuccess {
		t.Fatalf("Status = %q, want success", report.Status)
	}
	if !strings.Contains(report.Summary, "NO NEW ARTICLES: feed had no new articles to process") {
		t.Errorf("Summary missing no-new-articles line:\n%s", report.Summary)
	}
	if !strings.Contains(report.Summary, "BACKLOG: no articles requiring summarization") {
		t.Errorf("Summary missing empty-backlog line:\n%s", report.Summary)
	}
}

func TestRun_IngestFailureDoesNotDemoteRun(t *testing.T) {
	// Soft ingest failures are reported but the run still succeeds; only
	// critical failures flip the overall status.
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	feed := &stubFeedFetcher{err: errors.New("network down")}

	report := newCoordinator(repo, feed).Run(context.Background())

	if report.Status != daily.StatusSuccess {
		t.Fatalf("Status = %q, want success despite ingest error", report.Status)
	}
	if !strings.Contains(report.Summary, "NEW ARTICLE ERROR: failed to fetch feed") {
		t.Errorf("Summary missing ingest error line:\n%s", report.Summary)
	}
}

func TestRun_BacklogScanFailureDemotesRun(t *testing.T) {
	repo := &stubArticleRepo{
		existsMap:  map[string]bool{},
		pendingErr: errors.New("query failed"),
	}
	feed := &stubFeedFetcher{entry: nil}

	report := newCoordinator(repo, feed).Run(context.Background())

	if report.Status != daily.StatusError {
		t.Fatalf("Status = %q, want %q", report.Status, daily.StatusError)
	}
	if report.BacklogErr == "" {
		t.Error("BacklogErr is empty, want scan failure message")
	}
	if !strings.Contains(report.Summary, "BACKLOG ERROR:") {
		t.Errorf("Summary missing backlog error line:\n%s", report.Summary)
	}
}

func TestRun_PanicRecovered(t *testing.T) {
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	feed := &stubFeedFetcher{panic: true}

	report := newCoordinator(repo, feed).Run(context.Background())

	if report.Status != daily.StatusError {
		t.Fatalf("Status = %q, want %q after panic", report.Status, daily.StatusError)
	}
	if !strings.Contains(report.Err, "critical error in daily run") {
		t.Errorf("Err = %q, want critical error message", report.Err)
	}
	if report.Summary == "" {
		t.Error("Summary is empty, want rendered report")
	}
}
