// Package scraper implements feed polling on top of the gofeed parser.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"quantum-news-agent/internal/resilience/circuitbreaker"
	"quantum-news-agent/internal/resilience/retry"
	"quantum-news-agent/internal/usecase/ingest"
)

// RSSFetcher implements ingest.FeedFetcher using the gofeed library.
// It polls a single configured feed URL and only ever yields the most
// recent entry; older entries are never inspected by this path.
type RSSFetcher struct {
	feedURL        string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher creates an RSSFetcher for the given feed URL.
// It automatically configures circuit breaker and retry logic.
func NewRSSFetcher(feedURL string, client *http.Client) *RSSFetcher {
	return &RSSFetcher{
		feedURL:        feedURL,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// FetchLatest retrieves the feed and returns its most recent entry.
// It returns (nil, nil) when the feed parses but is empty, and an error
// wrapping ingest.ErrFeedParse when the document is malformed or the
// fetch ultimately fails.
func (f *RSSFetcher) FetchLatest(ctx context.Context) (*ingest.Entry, error) {
	var entry *ingest.Entry

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", f.feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		entry, _ = cbResult.(*ingest.Entry)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ingest.ErrFeedParse, f.feedURL, retryErr)
	}

	return entry, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
// Returns a nil entry for an empty feed.
func (f *RSSFetcher) doFetch(ctx context.Context) (*ingest.Entry, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "QuantumNewsBot/1.0"
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	if len(feed.Items) == 0 {
		return nil, nil
	}

	latest := feed.Items[0]

	author := ""
	if latest.Author != nil {
		author = latest.Author.Name
	}
	if author == "" && len(latest.Authors) > 0 && latest.Authors[0] != nil {
		author = latest.Authors[0].Name
	}

	return &ingest.Entry{
		Title:     latest.Title,
		Author:    author,
		Link:      latest.Link,
		Published: latest.Published,
	}, nil
}
