package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"quantum-news-agent/internal/resilience/circuitbreaker"
	"quantum-news-agent/internal/resilience/retry"
)

// LoadOpenAIConfig loads the OpenAI summarizer configuration from the
// environment. An out-of-range SUMMARIZER_WORD_LIMIT is an error.
func LoadOpenAIConfig() (Config, error) {
	wordLimit, err := loadWordLimit()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		WordLimit: wordLimit,
		Model:     openai.GPT4oMini,
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid openai configuration: %w", err)
	}
	return cfg, nil
}

// OpenAI implements ingest.Summarizer using OpenAI's chat completion API.
// Unlike the Claude adapter it receives the whole response in one payload;
// the two share truncation policy, prompt, retry and circuit breaker.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates an OpenAI summarizer with the given API key.
func NewOpenAI(apiKey string, config Config) *OpenAI {
	slog.Info("initialized openai summarizer",
		slog.Int("word_limit", config.WordLimit),
		slog.String("model", config.Model))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.SummarizerConfig()),
		retryConfig:     retry.SummarizerConfig(),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates a summary of the given text.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, text)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs one API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, inputText string) (string, error) {
	truncated := truncateInput(inputText)
	if len(truncated) < len(inputText) {
		slog.Warn("input truncated for openai api",
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncated)))
	}

	prompt := buildPrompt(o.config.WordLimit, truncated)
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})

	duration := time.Since(start)

	if err != nil {
		o.metricsRecorder.RecordRequest("error")
		o.metricsRecorder.RecordDuration(duration)
		slog.ErrorContext(ctx, "summarization failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordRequest("error")
		o.metricsRecorder.RecordDuration(duration)
		return "", fmt.Errorf("openai api returned empty response")
	}

	summary := resp.Choices[0].Message.Content

	slog.InfoContext(ctx, "summarization completed",
		slog.Int("summary_length", len(summary)),
		slog.Duration("duration", duration))
	o.metricsRecorder.RecordRequest("success")
	o.metricsRecorder.RecordDuration(duration)

	return summary, nil
}
