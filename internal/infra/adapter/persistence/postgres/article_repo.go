// Package postgres provides the PostgreSQL implementation of the article
// repository. It runs over database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"quantum-news-agent/internal/domain/entity"
	"quantum-news-agent/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// ArticleRepo implements repository.ArticleRepository using PostgreSQL.
type ArticleRepo struct{ db *sql.DB }

// NewArticleRepo creates a new PostgreSQL-backed article repository.
func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

// Create inserts a new article and assigns its generated ID and timestamps.
// A collision on the link unique constraint is reported as
// entity.ErrDuplicateLink so callers can treat the race as a no-op.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (title, author, publish_date, link, content, summary)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING id, created_at, updated_at
`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Author, article.PublishDate,
		article.Link, article.Content, article.Summary,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", entity.ErrDuplicateLink, article.Link)
		}
		return fmt.Errorf("Create: QueryRowContext: %w", err)
	}
	return nil
}

// ExistsByLink reports whether an article with the given link is stored.
func (repo *ArticleRepo) ExistsByLink(ctx context.Context, link string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE link = $1)`

	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, link).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByLink: QueryRowContext: %w", err)
	}
	return exists, nil
}

// ListPending returns all articles whose summary is NULL or empty.
// The scan is a single unpaginated pass; the reconciler processes the
// whole backlog in one run.
func (repo *ArticleRepo) ListPending(ctx context.Context) ([]*entity.Article, error) {
	const query = `
SELECT id, title, author, publish_date, link, content, summary, created_at, updated_at
FROM articles
WHERE summary IS NULL OR summary = ''
`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListPending: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPending: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPending: rows.Err: %w", err)
	}

	return articles, nil
}

// UpdateSummary attaches a summary to an article and refreshes updated_at.
func (repo *ArticleRepo) UpdateSummary(ctx context.Context, id int64, summary string) error {
	const query = `
UPDATE articles
SET summary = $1, updated_at = now()
WHERE id = $2
`
	result, err := repo.db.ExecContext(ctx, query, summary, id)
	if err != nil {
		return fmt.Errorf("UpdateSummary: ExecContext: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateSummary: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("UpdateSummary: article %d not found", id)
	}
	return nil
}

// ListRecentSummarized returns the newest summarized articles, newest first.
func (repo *ArticleRepo) ListRecentSummarized(ctx context.Context, limit int) ([]*entity.Article, error) {
	const query = `
SELECT id, title, author, publish_date, link, content, summary, created_at, updated_at
FROM articles
WHERE summary IS NOT NULL AND summary != ''
ORDER BY created_at DESC
LIMIT $1
`

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecentSummarized: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecentSummarized: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecentSummarized: rows.Err: %w", err)
	}

	return articles, nil
}

// Stats returns aggregate article counts split by summarization state.
func (repo *ArticleRepo) Stats(ctx context.Context) (repository.ArticleStats, error) {
	const query = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE summary IS NOT NULL AND summary != ''),
    COUNT(*) FILTER (WHERE summary IS NULL OR summary = '')
FROM articles
`
	var stats repository.ArticleStats
	err := repo.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Summarized, &stats.Pending)
	if err != nil {
		return repository.ArticleStats{}, fmt.Errorf("Stats: QueryRowContext: %w", err)
	}
	return stats, nil
}

// scanArticle scans one row of the canonical article column list.
// Nullable text columns are mapped to empty strings.
func scanArticle(rows *sql.Rows) (*entity.Article, error) {
	var article entity.Article
	var author, publishDate, content, summary sql.NullString
	err := rows.Scan(&article.ID, &article.Title, &author, &publishDate,
		&article.Link, &content, &summary, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("Scan: %w", err)
	}
	article.Author = author.String
	article.PublishDate = publishDate.String
	article.Content = content.String
	article.Summary = summary.String
	return &article, nil
}
