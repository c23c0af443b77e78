// Package summarizer provides the generative summarization adapters. It
// includes implementations for Claude (Anthropic) and OpenAI with retry
// and circuit-breaker reliability patterns; all failures are resolved into
// returned errors so callers can treat them as soft.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"quantum-news-agent/internal/resilience/circuitbreaker"
	"quantum-news-agent/internal/resilience/retry"
	"quantum-news-agent/internal/usecase/ingest"
)

// LoadClaudeConfig loads the Claude summarizer configuration from the
// environment. An out-of-range SUMMARIZER_WORD_LIMIT is an error.
func LoadClaudeConfig() (Config, error) {
	wordLimit, err := loadWordLimit()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		WordLimit: wordLimit,
		Model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid claude configuration: %w", err)
	}
	return cfg, nil
}

// Claude implements ingest.Summarizer using Anthropic's streaming Messages
// API. The response stream is consumed event by event; the adapter returns
// the text of the first final event, or an escalation error when the
// stream terminates without one.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude creates a Claude summarizer with the given API key.
func NewClaude(apiKey string, config Config) *Claude {
	slog.Info("initialized claude summarizer",
		slog.Int("word_limit", config.WordLimit),
		slog.String("model", config.Model))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.SummarizerConfig()),
		retryConfig:     retry.SummarizerConfig(),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates a summary of the given text. It truncates oversized
// input, wraps the API call with retry and circuit-breaker logic, and
// resolves every failure into a returned error.
func (c *Claude) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, text)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs one streaming API call without retry or circuit
// breaker and consumes the event stream to the first terminal event.
func (c *Claude) doSummarize(ctx context.Context, inputText string) (string, error) {
	requestID := uuid.New().String()

	truncated := truncateInput(inputText)
	if len(truncated) < len(inputText) {
		slog.Warn("input truncated for claude api",
			slog.String("request_id", requestID),
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncated)))
	}

	prompt := buildPrompt(c.config.WordLimit, truncated)

	slog.InfoContext(ctx, "starting summarization",
		slog.String("request_id", requestID),
		slog.Int("input_length", len(truncated)),
		slog.Int("word_limit", c.config.WordLimit))

	start := time.Now()

	stream := c.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	defer func() { _ = stream.Close() }()

	var message anthropic.Message
	for stream.Next() {
		raw := stream.Current()
		if err := message.Accumulate(raw); err != nil {
			c.recordFailure(start)
			return "", fmt.Errorf("claude api stream accumulation: %w", err)
		}

		event := classifyEvent(raw, &message)
		switch event.kind {
		case eventFinal:
			duration := time.Since(start)
			slog.InfoContext(ctx, "summarization completed",
				slog.String("request_id", requestID),
				slog.Int("summary_length", len(event.text)),
				slog.Duration("duration", duration))
			c.metricsRecorder.RecordRequest("success")
			c.metricsRecorder.RecordDuration(duration)
			return event.text, nil
		case eventEscalation:
			duration := time.Since(start)
			slog.WarnContext(ctx, "summarization escalated",
				slog.String("request_id", requestID),
				slog.String("reason", event.reason),
				slog.Duration("duration", duration))
			c.metricsRecorder.RecordRequest("escalation")
			c.metricsRecorder.RecordDuration(duration)
			return "", fmt.Errorf("%w: %s", ingest.ErrEscalation, event.reason)
		case eventIntermediate:
			// keep consuming
		}
	}

	if err := stream.Err(); err != nil {
		c.recordFailure(start)
		slog.ErrorContext(ctx, "summarization failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	c.recordFailure(start)
	return "", fmt.Errorf("claude api stream ended without a final event")
}

func (c *Claude) recordFailure(start time.Time) {
	c.metricsRecorder.RecordRequest("error")
	c.metricsRecorder.RecordDuration(time.Since(start))
}
