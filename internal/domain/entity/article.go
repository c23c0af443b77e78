// Package entity defines the core domain entities and validation logic for the application.
package entity

import "time"

// Article represents one ingested news article. The Link is the canonical
// identity for deduplication; Content holds the full extracted body text and
// Summary is empty until a summarization pass has completed for the row.
type Article struct {
	ID          int64
	Title       string
	Author      string
	PublishDate string
	Link        string
	Content     string
	Summary     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summarized reports whether the article has a non-empty summary.
// Articles without one form the backlog for the reconciler.
func (a *Article) Summarized() bool {
	return a.Summary != ""
}

// Validate checks the invariants required before persisting an article.
func (a *Article) Validate() error {
	if a.Title == "" {
		return ErrTitleRequired
	}
	if a.Link == "" {
		return ErrLinkRequired
	}
	return nil
}
