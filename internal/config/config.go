// Package config defines the pipeline configuration. Configuration is an
// explicit value constructed in main and passed into components; nothing
// in this package holds process-wide mutable state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pkgconfig "quantum-news-agent/pkg/config"
)

// defaultFeedURL is the quantum-computing topic feed polled by default.
const defaultFeedURL = "https://news.mit.edu/topic/mitquantum-computing-rss.xml"

// AgentConfig holds the pipeline-level configuration: which feed to poll
// and which summarization backend to use.
type AgentConfig struct {
	// FeedURL is the polled feed document.
	FeedURL string `yaml:"feed_url"`
	// SummarizerType selects the summarization backend: claude, openai
	// or noop.
	SummarizerType string `yaml:"summarizer_type"`
	// BacklogRequestsPerSecond throttles summarization calls during a
	// backlog pass. Zero disables throttling.
	BacklogRequestsPerSecond float64 `yaml:"backlog_requests_per_second"`
}

// DefaultAgentConfig returns the default pipeline configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		FeedURL:                  defaultFeedURL,
		SummarizerType:           "claude",
		BacklogRequestsPerSecond: 0.5,
	}
}

// LoadAgentConfig builds the pipeline configuration. A YAML file named by
// CONFIG_FILE provides base values; individual environment variables
// override it. Missing file and missing variables fall back to defaults.
func LoadAgentConfig() (AgentConfig, error) {
	cfg := DefaultAgentConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AgentConfig{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AgentConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.FeedURL = pkgconfig.GetEnvString("FEED_URL", cfg.FeedURL)
	cfg.SummarizerType = pkgconfig.GetEnvString("SUMMARIZER_TYPE", cfg.SummarizerType)
	cfg.BacklogRequestsPerSecond = pkgconfig.GetEnvFloat(
		"BACKLOG_REQUESTS_PER_SECOND", cfg.BacklogRequestsPerSecond)

	if err := cfg.Validate(); err != nil {
		return AgentConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *AgentConfig) Validate() error {
	if c.FeedURL == "" {
		return fmt.Errorf("feed_url cannot be empty")
	}
	switch c.SummarizerType {
	case "claude", "openai", "noop":
	default:
		return fmt.Errorf("invalid summarizer_type %q (expected claude, openai or noop)", c.SummarizerType)
	}
	if c.BacklogRequestsPerSecond < 0 {
		return fmt.Errorf("backlog_requests_per_second cannot be negative")
	}
	return nil
}
