package ingest

import "quantum-news-agent/internal/domain/entity"

// Status is the terminal state of one ingestion attempt.
type Status string

const (
	// StatusSuccess means a new article was inserted and summarized.
	StatusSuccess Status = "success"
	// StatusNoNewArticles means the feed had nothing new to process. A
	// duplicate link, an empty feed and a malformed feed all end here.
	StatusNoNewArticles Status = "no_new_articles"
	// StatusError means a step failed after a new entry was found. The
	// Reason field carries the failure description.
	StatusError Status = "error"
)

// Outcome is the result of one ingestion attempt. Article and Summary are
// set only on success; Article alone is set when an inserted article could
// not be summarized and remains pending for the backlog reconciler.
type Outcome struct {
	Status  Status
	Article *entity.Article
	Summary string
	Reason  string
}

func success(article *entity.Article, summary string) Outcome {
	return Outcome{Status: StatusSuccess, Article: article, Summary: summary}
}

func noNewArticles() Outcome {
	return Outcome{Status: StatusNoNewArticles}
}

func failed(reason string, article *entity.Article) Outcome {
	return Outcome{Status: StatusError, Reason: reason, Article: article}
}
