// Package fetcher implements the page content extractor. It fetches an
// article URL and extracts clean text with the Mozilla Readability
// algorithm, falling back to document metadata for author and date.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"quantum-news-agent/internal/resilience/circuitbreaker"
	"quantum-news-agent/internal/resilience/retry"
	"quantum-news-agent/internal/usecase/ingest"
)

// Field fallbacks applied at the adapter boundary so downstream components
// always receive non-empty strings.
const (
	fallbackTitle   = "No Title"
	fallbackContent = "No Content"
	dateLayout      = "2006-01-02"
)

// ReadabilityExtractor implements ingest.ContentExtractor. Extraction
// failures of any kind (network, parse, timeout, oversized response) are
// returned as errors the orchestrator treats as soft.
type ReadabilityExtractor struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewReadabilityExtractor creates a ReadabilityExtractor with the given
// configuration.
func NewReadabilityExtractor(config Config) *ReadabilityExtractor {
	extractor := &ReadabilityExtractor{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         config,
	}

	extractor.client = &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ingest.ErrInvalidURL, len(via))
			}
			return nil
		},
	}

	return extractor
}

// Extract fetches the page at the given URL and returns its normalized
// content record.
func (e *ReadabilityExtractor) Extract(ctx context.Context, urlStr string) (*ingest.ExtractedContent, error) {
	var content *ingest.ExtractedContent

	retryErr := retry.WithBackoff(ctx, e.retryConfig, func() error {
		cbResult, err := e.circuitBreaker.Execute(func() (interface{}, error) {
			return e.doExtract(ctx, urlStr)
		})
		if err != nil {
			return err
		}
		content = cbResult.(*ingest.ExtractedContent)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return content, nil
}

// doExtract performs the fetch-then-parse without retry or circuit breaker.
func (e *ReadabilityExtractor) doExtract(ctx context.Context, urlStr string) (*ingest.ExtractedContent, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", e.config.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request exceeded %v", ingest.ErrTimeout, e.config.Timeout)
		}
		return nil, fmt.Errorf("page fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, e.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > e.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes",
			ingest.ErrBodyTooLarge, e.config.MaxBodySize)
	}

	pageURL, err := url.Parse(urlStr)
	if err != nil {
		pageURL = nil // readability can work without the URL
	}
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(htmlBytes), pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrExtractFailed, err)
	}

	content := article.TextContent
	if content == "" {
		content = article.Content
	}

	meta := parseMetadata(htmlBytes)

	extracted := &ingest.ExtractedContent{
		Title:       firstNonEmpty(article.Title, meta.title, fallbackTitle),
		Content:     firstNonEmpty(strings.TrimSpace(content), fallbackContent),
		Authors:     meta.authors,
		PublishDate: meta.publishDate,
	}
	if len(extracted.Authors) == 0 && article.Byline != "" {
		extracted.Authors = []string{article.Byline}
	}
	if extracted.PublishDate == "" && article.PublishedTime != nil {
		extracted.PublishDate = article.PublishedTime.Format(dateLayout)
	}
	if extracted.PublishDate == "" {
		extracted.PublishDate = time.Now().Format(dateLayout)
	}

	slog.Debug("content extracted",
		slog.String("url", urlStr),
		slog.String("title", extracted.Title),
		slog.Int("content_length", len(extracted.Content)),
		slog.Int("authors", len(extracted.Authors)))

	return extracted, nil
}

// pageMetadata carries fields scraped from document meta tags.
type pageMetadata struct {
	title       string
	authors     []string
	publishDate string
}

// parseMetadata scrapes title, author and published-time meta tags. It is
// best effort; a document that fails to parse yields empty metadata.
func parseMetadata(htmlBytes []byte) pageMetadata {
	var meta pageMetadata

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return meta
	}

	meta.title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("content"); ok {
			name = strings.TrimSpace(name)
			if name != "" {
				meta.authors = append(meta.authors, name)
			}
		}
	})

	doc.Find(`meta[property="article:published_time"], meta[name="date"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw, ok := s.Attr("content")
		if !ok {
			return true
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return true
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			meta.publishDate = t.Format(dateLayout)
			return false
		}
		if t, err := time.Parse(dateLayout, raw); err == nil {
			meta.publishDate = t.Format(dateLayout)
			return false
		}
		return true
	})

	return meta
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
