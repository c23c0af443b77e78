package ingest

import "context"

// Entry is one candidate article reference yielded by the feed source.
// Only Link is guaranteed; the other fields may be empty and are merged
// with extractor-derived values by the orchestrator.
type Entry struct {
	Title     string
	Author    string
	Link      string
	Published string
}

// ExtractedContent is the normalized output of the page content extractor.
// The extractor applies field fallbacks at its boundary, so Title, Content
// and PublishDate are always non-empty; Authors may be empty.
type ExtractedContent struct {
	Title       string
	Content     string
	Authors     []string
	PublishDate string
}

// FeedFetcher yields the single most recent entry of the polled feed.
// It returns (nil, nil) when the feed parses but contains no entries, and
// an error wrapping ErrFeedParse when the feed document is malformed or
// unreachable.
type FeedFetcher interface {
	FetchLatest(ctx context.Context) (*Entry, error)
}

// ContentExtractor fetches a page and extracts its article text. Any
// failure (network, parse, timeout) is returned as an error the caller
// treats as soft.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (*ExtractedContent, error)
}

// Summarizer produces a natural-language summary of the given text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
