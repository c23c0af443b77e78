// Command runner executes a single pipeline run and exits. It is intended
// for manual invocation and external schedulers; exit code 0 means the run
// completed, 1 means a critical failure, 130 means an interrupt.
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"quantum-news-agent/internal/config"
	pgRepo "quantum-news-agent/internal/infra/adapter/persistence/postgres"
	"quantum-news-agent/internal/infra/db"
	"quantum-news-agent/internal/infra/fetcher"
	"quantum-news-agent/internal/infra/scraper"
	"quantum-news-agent/internal/infra/summarizer"
	"quantum-news-agent/internal/observability/logging"
	"quantum-news-agent/internal/usecase/backlog"
	"quantum-news-agent/internal/usecase/daily"
	"quantum-news-agent/internal/usecase/ingest"
	pkgconfig "quantum-news-agent/pkg/config"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	agentConfig, err := config.LoadAgentConfig()
	if err != nil {
		logger.Error("failed to load pipeline configuration", slog.Any("error", err))
		return exitError
	}

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		return exitError
	}

	runTimeout := pkgconfig.GetEnvDuration("RUN_TIMEOUT", 30*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Cancel the run context on SIGINT/SIGTERM so the coordinator can
	// return a partial report before the process exits.
	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		logger.Warn("interrupt received, cancelling run", slog.String("signal", sig.String()))
		interrupted.Store(true)
		cancel()
	}()

	artRepo := pgRepo.NewArticleRepo(database)
	sum := createSummarizer(logger, agentConfig.SummarizerType)
	if sum == nil {
		return exitError
	}
	feedFetcher := scraper.NewRSSFetcher(agentConfig.FeedURL, createHTTPClient())
	extractor := fetcher.NewReadabilityExtractor(fetcher.DefaultConfig())

	ingestSvc := ingest.NewService(artRepo, feedFetcher, extractor, sum, logger)
	backlogSvc := backlog.NewService(artRepo, sum, agentConfig.BacklogRequestsPerSecond, logger)
	coordinator := daily.NewCoordinator(ingestSvc, backlogSvc, logger)

	report := coordinator.Run(ctx)

	if interrupted.Load() {
		return exitInterrupted
	}
	if report.Status == daily.StatusError {
		return exitError
	}
	return exitOK
}

// createSummarizer creates a summarizer for the configured backend type.
// It returns nil after logging when the configuration is unusable.
func createSummarizer(logger *slog.Logger, summarizerType string) ingest.Summarizer {
	switch summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			return nil
		}
		cfg, err := summarizer.LoadClaudeConfig()
		if err != nil {
			logger.Error("failed to load claude configuration", slog.Any("error", err))
			return nil
		}
		return summarizer.NewClaude(apiKey, cfg)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			return nil
		}
		cfg, err := summarizer.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load openai configuration", slog.Any("error", err))
			return nil
		}
		return summarizer.NewOpenAI(apiKey, cfg)
	case "noop":
		logger.Warn("using noop summarizer, summaries will be truncated article text")
		return summarizer.NewNoOp()
	default:
		logger.Error("invalid summarizer type",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai or noop"))
		return nil
	}
}

func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
