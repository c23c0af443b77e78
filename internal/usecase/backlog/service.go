// Package backlog implements the reconciler that drives summarization to
// closure for articles that were persisted without a summary.
package backlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"quantum-news-agent/internal/repository"
	"quantum-news-agent/internal/usecase/ingest"
)

// Result reports how much of the backlog one pass resolved.
type Result struct {
	Processed int
	Total     int
}

// Service scans the article store for pending rows and summarizes each one
// sequentially. A row whose summarization fails is left untouched and
// retried on the next scheduled pass; the pass itself never aborts early
// on a single row's failure.
type Service struct {
	Articles   repository.ArticleRepository
	Summarizer ingest.Summarizer
	Logger     *slog.Logger

	// limiter throttles summarization calls so a large backlog does not
	// hammer the generative service.
	limiter *rate.Limiter
}

// NewService creates a backlog Service. requestsPerSecond bounds the rate
// of summarization calls; zero or negative disables throttling.
func NewService(
	articles repository.ArticleRepository,
	summarizer ingest.Summarizer,
	requestsPerSecond float64,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Service{
		Articles:   articles,
		Summarizer: summarizer,
		Logger:     logger,
		limiter:    limiter,
	}
}

// Reconcile runs one full backlog pass. It returns an error only when the
// pending scan itself fails or the run context ends; per-row summarization
// failures are logged, skipped and reflected in the Processed count.
func (s *Service) Reconcile(ctx context.Context) (Result, error) {
	pending, err := s.Articles.ListPending(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list pending articles: %w", err)
	}

	result := Result{Total: len(pending)}
	if result.Total == 0 {
		s.Logger.Info("backlog is empty")
		return result, nil
	}

	s.Logger.Info("backlog pass started", slog.Int("pending", result.Total))

	for _, article := range pending {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return result, fmt.Errorf("backlog pass interrupted: %w", err)
			}
		}

		summary, err := s.Summarizer.Summarize(ctx, article.Content)
		if err != nil {
			// The run timeout is the only cancellation primitive; stop the
			// pass when it fires instead of burning attempts on a dead ctx.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, fmt.Errorf("backlog pass interrupted: %w", err)
			}
			s.Logger.Warn("backlog summarization failed, leaving article pending",
				slog.Int64("article_id", article.ID),
				slog.String("title", article.Title),
				slog.Any("error", err))
			continue
		}

		if err := s.Articles.UpdateSummary(ctx, article.ID, summary); err != nil {
			s.Logger.Error("backlog summary persist failed, leaving article pending",
				slog.Int64("article_id", article.ID),
				slog.Any("error", err))
			continue
		}

		article.Summary = summary
		result.Processed++
		s.Logger.Info("backlog article summarized",
			slog.Int64("article_id", article.ID),
			slog.String("title", article.Title))
	}

	s.Logger.Info("backlog pass completed",
		slog.Int("processed", result.Processed),
		slog.Int("total", result.Total))

	return result, nil
}
