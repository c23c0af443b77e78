// Package ingest implements the article ingestion orchestrator: it decides
// new-vs-duplicate for the latest feed entry, drives content extraction,
// persists the article and attempts an immediate summarization.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quantum-news-agent/internal/domain/entity"
	"quantum-news-agent/internal/repository"
)

// fallbackAuthor is used when neither the feed nor the extractor names one.
const fallbackAuthor = "Unknown Author"

// Service orchestrates one ingestion attempt per invocation. It processes
// at most one new article by design; it is driven once per scheduled run,
// not as a continuous drain.
type Service struct {
	Articles   repository.ArticleRepository
	Feed       FeedFetcher
	Extractor  ContentExtractor
	Summarizer Summarizer
	Logger     *slog.Logger
}

// NewService creates an ingest Service with the provided collaborators.
func NewService(
	articles repository.ArticleRepository,
	feed FeedFetcher,
	extractor ContentExtractor,
	summarizer Summarizer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Articles:   articles,
		Feed:       feed,
		Extractor:  extractor,
		Summarizer: summarizer,
		Logger:     logger,
	}
}

// ProcessNewArticle runs one ingestion attempt and resolves every failure
// into the returned Outcome; it never panics and never returns an error.
//
// The duplicate check by link happens before any extraction so a feed that
// has not moved costs no page fetch and no summarization call. A failed
// summarization leaves the inserted article pending for the backlog
// reconciler rather than rolling anything back.
func (s *Service) ProcessNewArticle(ctx context.Context) Outcome {
	entry, err := s.Feed.FetchLatest(ctx)
	if err != nil {
		if errors.Is(err, ErrFeedParse) {
			s.Logger.Warn("feed could not be parsed, treating as no new articles",
				slog.Any("error", err))
			return noNewArticles()
		}
		s.Logger.Error("feed fetch failed", slog.Any("error", err))
		return failed("failed to fetch feed", nil)
	}
	if entry == nil {
		s.Logger.Info("feed has no entries")
		return noNewArticles()
	}

	exists, err := s.Articles.ExistsByLink(ctx, entry.Link)
	if err != nil {
		s.Logger.Error("article existence check failed",
			slog.String("link", entry.Link), slog.Any("error", err))
		return failed("failed to query article store", nil)
	}
	if exists {
		s.Logger.Info("article already ingested, skipping",
			slog.String("link", entry.Link))
		return noNewArticles()
	}

	extracted, err := s.Extractor.Extract(ctx, entry.Link)
	if err != nil {
		s.Logger.Warn("content extraction failed",
			slog.String("link", entry.Link), slog.Any("error", err))
		return failed("failed to extract content", nil)
	}

	article := mergeEntry(entry, extracted)
	if err := s.Articles.Create(ctx, article); err != nil {
		if errors.Is(err, entity.ErrDuplicateLink) {
			// Lost the race against a concurrent run; the other run owns
			// the article now.
			s.Logger.Info("article inserted by concurrent run, skipping",
				slog.String("link", entry.Link))
			return noNewArticles()
		}
		s.Logger.Error("article insert failed",
			slog.String("link", entry.Link), slog.Any("error", err))
		return failed("failed to save article", nil)
	}

	s.Logger.Info("new article ingested",
		slog.Int64("article_id", article.ID),
		slog.String("title", article.Title),
		slog.String("link", article.Link))

	summary, err := s.Summarizer.Summarize(ctx, article.Content)
	if err != nil {
		s.Logger.Warn("summarization failed, article left pending",
			slog.Int64("article_id", article.ID), slog.Any("error", err))
		return failed("failed to generate summary", article)
	}

	if err := s.Articles.UpdateSummary(ctx, article.ID, summary); err != nil {
		s.Logger.Error("summary persist failed, article left pending",
			slog.Int64("article_id", article.ID), slog.Any("error", err))
		return failed("failed to save summary", article)
	}
	article.Summary = summary
	article.UpdatedAt = time.Now()

	s.Logger.Info("article summarized",
		slog.Int64("article_id", article.ID),
		slog.Int("summary_length", len(summary)))

	return success(article, summary)
}

// mergeEntry combines feed-declared fields with extractor-derived ones.
// The feed takes precedence where present; the author falls back through
// the extractor's author list to "Unknown Author".
func mergeEntry(entry *Entry, extracted *ExtractedContent) *entity.Article {
	title := entry.Title
	if title == "" {
		title = extracted.Title
	}

	author := entry.Author
	if author == "" {
		author = strings.Join(extracted.Authors, ", ")
	}
	if author == "" {
		author = fallbackAuthor
	}

	publishDate := entry.Published
	if publishDate == "" {
		publishDate = extracted.PublishDate
	}

	return &entity.Article{
		Title:       title,
		Author:      author,
		PublishDate: publishDate,
		Link:        entry.Link,
		Content:     extracted.Content,
	}
}
