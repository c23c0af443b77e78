package ingest

import "errors"

var (
	// ErrFeedParse indicates the feed document could not be fetched or parsed.
	// The orchestrator treats it as "no new articles", not a run failure.
	ErrFeedParse = errors.New("feed parse failed")

	// ErrInvalidURL indicates a page URL that cannot be fetched.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrTimeout indicates a page fetch exceeded its deadline.
	ErrTimeout = errors.New("request timeout")

	// ErrBodyTooLarge indicates a page response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractFailed indicates readable content could not be produced
	// from a fetched page.
	ErrExtractFailed = errors.New("content extraction failed")

	// ErrEscalation indicates the summarization service returned an
	// escalation signal instead of a final summary.
	ErrEscalation = errors.New("summarizer escalation")
)
