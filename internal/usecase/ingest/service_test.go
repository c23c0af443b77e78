package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"quantum-news-agent/internal/domain/entity"
	"quantum-news-agent/internal/repository"
	"quantum-news-agent/internal/usecase/ingest"
)

type stubArticleRepo struct {
	mu        sync.Mutex
	articles  []*entity.Article
	existsMap map[string]bool
	existsErr error
	createErr error
	updateErr error
	summaries map[int64]string
	nextID    int64
}

func (s *stubArticleRepo) Create(_ context.Context, a *entity.Article) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	s.articles = append(s.articles, a)
	return nil
}

func (s *stubArticleRepo) ExistsByLink(_ context.Context, link string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existsMap[link], nil
}

func (s *stubArticleRepo) UpdateSummary(_ context.Context, id int64, summary string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summaries == nil {
		s.summaries = make(map[int64]string)
	}
	s.summaries[id] = summary
	return nil
}

func (s *stubArticleRepo) ListPending(_ context.Context) ([]*entity.Article, error) {
	return nil, nil
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
}

func (s *stubFeedFetcher) FetchLatest(_ context.Context) (*ingest.Entry, error) {
	return s.entry, s.err
}

type stubExtractor struct {
	content *ingest.ExtractedContent
	err     error
	called  int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (*ingest.ExtractedContent, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	return s.content, nil
}

type stubSummarizer struct {
	result string
	err    error
	called int
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	s.called++
	if s.err != nil {
		return "", s.err
	}
	if s.result != "" {
		return s.result, nil
	}
	return "Summary of: " + text, nil
}

func newEntry() *ingest.Entry {
	return &ingest.Entry{
		Title:     "Quantum breakthrough",
		Author:    "Jane Smith",
		Link:      "https://example.com/quantum",
		Published: "2025-10-26",
	}
}

func newExtracted() *ingest.ExtractedContent {
	return &ingest.ExtractedContent{
		Title:       "Quantum breakthrough (page)",
		Content:     "Full article body.",
		Authors:     []string{"Page Author"},
		PublishDate: "2025-10-25",
	}
}

func TestProcessNewArticle_Success(t *testing.T) {
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	sum := &stubSummarizer{result: "Test summary"}

	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, &stubExtractor{content: newExtracted()}, sum, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusSuccess {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusSuccess)
	}
	if outcome.Summary != "Test summary" {
		t.Errorf("Summary = %q, want %q", outcome.Summary, "Test summary")
	}
	if outcome.Article == nil {
		t.Fatal("Article is nil, want inserted article")
	}
	// Feed-declared fields win over extracted ones.
	if outcome.Article.Title != "Quantum breakthrough" {
		t.Errorf("Title = %q, want feed title", outcome.Article.Title)
	}
	if outcome.Article.Author != "Jane Smith" {
		t.Errorf("Author = %q, want feed author", outcome.Article.Author)
	}
	if outcome.Article.PublishDate != "2025-10-26" {
		t.Errorf("PublishDate = %q, want feed date", outcome.Article.PublishDate)
	}
	if got := repo.summaries[outcome.Article.ID]; got != "Test summary" {
		t.Errorf("persisted summary = %q, want %q", got, "Test summary")
	}
}

func TestProcessNewArticle_DuplicateLink(t *testing.T) {
	repo := &stubArticleRepo{
		existsMap: map[string]bool{"https://example.com/quantum": true},
	}
	extractor := &stubExtractor{content: newExtracted()}
	sum := &stubSummarizer{}

	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, extractor, sum, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusNoNewArticles {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusNoNewArticles)
	}
	// The duplicate check happens before extraction, so a stale feed costs
	// no page fetch and no summarization call.
	if extractor.called != 0 {
		t.Errorf("Extract called %d times, want 0", extractor.called)
	}
	if sum.called != 0 {
		t.Errorf("Summarize called %d times, want 0", sum.called)
	}
}

func TestProcessNewArticle_EmptyFeed(t *testing.T) {
	repo := &stubArticleRepo{}
	svc := ingest.NewService(repo, &stubFeedFetcher{entry: nil}, &stubExtractor{}, &stubSummarizer{}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusNoNewArticles {
		t.Errorf("Status = %q, want %q", outcome.Status, ingest.StatusNoNewArticles)
	}
}

func TestProcessNewArticle_FeedParseError(t *testing.T) {
	feedErr := fmt.Errorf("%w: malformed document", ingest.ErrFeedParse)
	svc := ingest.NewService(&stubArticleRepo{}, &stubFeedFetcher{err: feedErr}, &stubExtractor{}, &stubSummarizer{}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusNoNewArticles {
		t.Errorf("Status = %q, want %q for a parse failure", outcome.Status, ingest.StatusNoNewArticles)
	}
}

func TestProcessNewArticle_ExistsCheckError(t *testing.T) {
	repo := &stubArticleRepo{existsErr: errors.New("connection refused")}
	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, &stubExtractor{content: newExtracted()}, &stubSummarizer{}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusError {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusError)
	}
	if outcome.Reason != "failed to query article store" {
		t.Errorf("Reason = %q", outcome.Reason)
	}
}

func TestProcessNewArticle_ExtractError(t *testing.T) {
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	extractor := &stubExtractor{err: errors.New("page fetch timeout")}

	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, extractor, &stubSummarizer{}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusError {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusError)
	}
	if outcome.Reason != "failed to extract content" {
		t.Errorf("Reason = %q", outcome.Reason)
	}
	if len(repo.articles) != 0 {
		t.Errorf("articles stored = %d, want 0", len(repo.articles))
	}
}

func TestProcessNewArticle_ConcurrentInsertRace(t *testing.T) {
	// ExistsByLink saw nothing, but the insert collides with a row another
	// run created in between. The run treats it as nothing new.
	repo := &stubArticleRepo{
		existsMap: map[string]bool{},
		createErr: entity.ErrDuplicateLink,
	}
	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, &stubExtractor{content: newExtracted()}, &stubSummarizer{}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusNoNewArticles {
		t.Errorf("Status = %q, want %q", outcome.Status, ingest.StatusNoNewArticles)
	}
}

func TestProcessNewArticle_SummarizeFailureLeavesPending(t *testing.T) {
	repo := &stubArticleRepo{existsMap: map[string]bool{}}
	sum := &stubSummarizer{err: errors.New("api unavailable")}

	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, &stubExtractor{content: newExtracted()}, sum, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusError {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusError)
	}
	if outcome.Reason != "failed to generate summary" {
		t.Errorf("Reason = %q", outcome.Reason)
	}
	// The article stays inserted without a summary for the backlog pass.
	if len(repo.articles) != 1 {
		t.Fatalf("articles stored = %d, want 1", len(repo.articles))
	}
	if outcome.Article == nil || outcome.Article.ID != repo.articles[0].ID {
		t.Error("outcome does not reference the inserted pending article")
	}
	if len(repo.summaries) != 0 {
		t.Errorf("summaries persisted = %d, want 0", len(repo.summaries))
	}
}

func TestProcessNewArticle_UpdateSummaryError(t *testing.T) {
	repo := &stubArticleRepo{
		existsMap: map[string]bool{},
		updateErr: errors.New("write failed"),
	}
	svc := ingest.NewService(repo, &stubFeedFetcher{entry: newEntry()}, &stubExtractor{content: newExtracted()}, &stubSummarizer{result: "s"}, nil)

	outcome := svc.ProcessNewArticle(context.Background())

	if outcome.Status != ingest.StatusError {
		t.Fatalf("Status = %q, want %q", outcome.Status, ingest.StatusError)
	}
	if outcome.Reason != "failed to save summary" {
		t.Errorf("Reason = %q", outcome.Reason)
	}
}

func TestProcessNewArticle_FieldFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		entry      *ingest.Entry
		extracted  *ingest.ExtractedContent
		wantTitle  string
		wantAuthor string
		wantDate   string
	}{
		{
			name:       "feed fields win",
			entry:      &ingest.Entry{Title: "Feed title", Author: "Feed author", Link: "https://example.com/a", Published: "2025-01-01"},
			extracted:  &ingest.ExtractedContent{Title: "Page title", Content: "body", Authors: []string{"Page author"}, PublishDate: "2025-02-02"},
			wantTitle:  "Feed title",
			wantAuthor: "Feed author",
			wantDate:   "2025-01-01",
		},
		{
			name:       "extractor fills gaps",
			entry:      &ingest.Entry{Link: "https://example.com/a"},
			extracted:  &ingest.ExtractedContent{Title: "Page title", Content: "body", Authors: []string{"A", "B"}, PublishDate: "2025-02-02"},
			wantTitle:  "Page title",
			wantAuthor: "A, B",
			wantDate:   "2025-02-02",
		},
		{
			name:       "unknown author fallback",
			entry:      &ingest.Entry{Title: "T", Link: "https://example.com/a", Published: "2025-01-01"},
			extracted:  &ingest.ExtractedContent{Title: "Page title", Content: "body", PublishDate: "2025-02-02"},
			wantTitle:  "T",
			wantAuthor: "Unknown Author",
			wantDate:   "2025-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubArticleRepo{existsMap: map[string]bool{}}
			svc := ingest.NewService(repo, &stubFeedFetcher{entry: tt.entry}, &stubExtractor{content: tt.extracted}, &stubSummarizer{result: "s"}, nil)

			outcome := svc.ProcessNewArticle(context.Background())
			if outcome.Status != ingest.StatusSuccess {
				t.Fatalf("Status = %q, want success", outcome.Status)
			}
			if outcome.Article.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", outcome.Article.Title, tt.wantTitle)
			}
			if outcome.Article.Author != tt.wantAuthor {
				t.Errorf("Author = %q, want %q", outcome.Article.Author, tt.wantAuthor)
			}
			if outcome.Article.PublishDate != tt.wantDate {
				t.Errorf("PublishDate = %q, want %q", outcome.Article.PublishDate, tt.wantDate)
			}
		})
	}
}
