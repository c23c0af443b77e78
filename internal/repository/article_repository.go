package repository

import (
	"context"

	"quantum-news-agent/internal/domain/entity"
)

// ArticleStats aggregates counts over the article table, split by whether a
// summary has been attached yet.
type ArticleStats struct {
	Total      int64
	Summarized int64
	Pending    int64
}

// ArticleRepository is the persistence contract for articles. The store
// enforces link uniqueness; Create returns entity.ErrDuplicateLink when an
// insert collides with an existing link so callers can absorb the race.
type ArticleRepository interface {
	// Create inserts a new article and assigns its ID.
	Create(ctx context.Context, article *entity.Article) error
	// ExistsByLink reports whether an article with the given link is stored.
	ExistsByLink(ctx context.Context, link string) (bool, error)
	// ListPending returns all articles whose summary is NULL or empty.
	ListPending(ctx context.Context) ([]*entity.Article, error)
	// UpdateSummary attaches a summary to an article and refreshes updated_at.
	UpdateSummary(ctx context.Context, id int64, summary string) error
	// ListRecentSummarized returns the most recently created articles that
	// already carry a summary, newest first.
	ListRecentSummarized(ctx context.Context, limit int) ([]*entity.Article, error)
	// Stats returns aggregate article counts.
	Stats(ctx context.Context) (ArticleStats, error)
}
