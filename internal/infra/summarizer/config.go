package summarizer

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// maxInputChars is the truncation point for submitted text, chosen to
	// respect the collaborator's input-size limits.
	maxInputChars = 8000

	// truncationMarker is appended when the input is cut.
	truncationMarker = "..."

	// minWordLimit and maxWordLimit bound the configurable summary length.
	minWordLimit = 50
	maxWordLimit = 1000
)

// systemPrompt is the fixed system instruction sent with every request.
const systemPrompt = "You are an expert science communicator specializing in quantum computing. " +
	"Create engaging, accessible summaries that make complex quantum concepts " +
	"understandable to general audiences."

// Config holds configuration shared by the summarizer implementations.
type Config struct {
	// WordLimit is the requested summary length in words.
	WordLimit int
	// Model is the API model identifier.
	Model string
	// MaxTokens caps the API response.
	MaxTokens int
	// Timeout bounds a single summarization API call.
	Timeout time.Duration
}

// Validate checks the configuration fields.
func (c *Config) Validate() error {
	if err := ValidateWordLimit(c.WordLimit); err != nil {
		return fmt.Errorf("invalid word limit: %w", err)
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// ValidateWordLimit validates that the word limit is within 50-1000.
func ValidateWordLimit(limit int) error {
	if limit < minWordLimit {
		return fmt.Errorf("word limit %d is below minimum %d", limit, minWordLimit)
	}
	if limit > maxWordLimit {
		return fmt.Errorf("word limit %d exceeds maximum %d", limit, maxWordLimit)
	}
	return nil
}

// loadWordLimit reads SUMMARIZER_WORD_LIMIT from the environment, falling
// back to the default on absence and failing on an out-of-range value.
func loadWordLimit() (int, error) {
	const defaultWordLimit = 250

	envLimit := os.Getenv("SUMMARIZER_WORD_LIMIT")
	if envLimit == "" {
		return defaultWordLimit, nil
	}
	parsed, err := strconv.Atoi(envLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid SUMMARIZER_WORD_LIMIT format: %s: %w", envLimit, err)
	}
	if err := ValidateWordLimit(parsed); err != nil {
		return 0, fmt.Errorf("SUMMARIZER_WORD_LIMIT out of valid range: %w", err)
	}
	return parsed, nil
}

// buildPrompt constructs the summarization prompt for the given word limit.
func buildPrompt(wordLimit int, text string) string {
	return fmt.Sprintf("Please summarize the following article in about %d words. "+
		"Make the summary engaging and accessible to general readers while "+
		"preserving the key technical concepts. Use plain English and avoid "+
		"jargon where possible.\n\nArticle content:\n%s", wordLimit, text)
}

// truncateInput cuts text to the fixed input limit and appends the
// truncation marker. Text at or below the limit is returned unchanged.
func truncateInput(text string) string {
	if len(text) <= maxInputChars {
		return text
	}
	return text[:maxInputChars] + truncationMarker
}
