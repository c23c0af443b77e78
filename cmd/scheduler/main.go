// Command scheduler runs the article pipeline on a cron schedule. Each
// scheduled run ingests at most one new article from the configured feed
// and then reconciles the summary backlog.
package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"quantum-news-agent/internal/config"
	pgRepo "quantum-news-agent/internal/infra/adapter/persistence/postgres"
	"quantum-news-agent/internal/infra/db"
	"quantum-news-agent/internal/infra/fetcher"
	"quantum-news-agent/internal/infra/scraper"
	"quantum-news-agent/internal/infra/summarizer"
	workerPkg "quantum-news-agent/internal/infra/worker"
	"quantum-news-agent/internal/observability/logging"
	"quantum-news-agent/internal/repository"
	"quantum-news-agent/internal/usecase/backlog"
	"quantum-news-agent/internal/usecase/daily"
	"quantum-news-agent/internal/usecase/ingest"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	agentConfig, err := config.LoadAgentConfig()
	if err != nil {
		logger.Error("failed to load pipeline configuration", slog.Any("error", err))
		os.Exit(1)
	}

	workerConfig, err := workerPkg.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load scheduler configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("scheduler configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := workerPkg.NewMetrics(prometheus.DefaultRegisterer)
	startMetricsServer(ctx, logger)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	artRepo := pgRepo.NewArticleRepo(database)
	coordinator := buildCoordinator(logger, artRepo, agentConfig)

	startCron(logger, coordinator, artRepo, agentConfig, workerConfig, metrics, healthServer)
}

// initDatabase opens the connection pool and applies schema migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// buildCoordinator wires the ingest and backlog services behind the daily
// coordinator.
func buildCoordinator(logger *slog.Logger, artRepo repository.ArticleRepository, cfg config.AgentConfig) *daily.Coordinator {
	sum := createSummarizer(logger, cfg.SummarizerType)
	feedFetcher := scraper.NewRSSFetcher(cfg.FeedURL, createHTTPClient())
	extractor := fetcher.NewReadabilityExtractor(fetcher.DefaultConfig())

	ingestSvc := ingest.NewService(artRepo, feedFetcher, extractor, sum, logger)
	backlogSvc := backlog.NewService(artRepo, sum, cfg.BacklogRequestsPerSecond, logger)

	return daily.NewCoordinator(ingestSvc, backlogSvc, logger)
}

// createSummarizer creates a summarizer for the configured backend type.
func createSummarizer(logger *slog.Logger, summarizerType string) ingest.Summarizer {
	switch summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		cfg, err := summarizer.LoadClaudeConfig()
		if err != nil {
			logger.Error("failed to load claude configuration", slog.Any("error", err))
			os.Exit(1)
		}
		return summarizer.NewClaude(apiKey, cfg)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		cfg, err := summarizer.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load openai configuration", slog.Any("error", err))
			os.Exit(1)
		}
		return summarizer.NewOpenAI(apiKey, cfg)
	case "noop":
		logger.Warn("using noop summarizer, summaries will be truncated article text")
		return summarizer.NewNoOp()
	default:
		logger.Error("invalid summarizer type",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai or noop"))
		os.Exit(1)
		return nil
	}
}

// createHTTPClient creates the shared HTTP client used for feed fetching.
// TLS 1.2+ is enforced.
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

// startMetricsServer exposes Prometheus metrics on METRICS_PORT (default 9090).
func startMetricsServer(ctx context.Context, logger *slog.Logger) {
	port := os.Getenv("METRICS_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}()
}

// startCron registers the daily job and blocks forever.
func startCron(
	logger *slog.Logger,
	coordinator *daily.Coordinator,
	artRepo repository.ArticleRepository,
	agentConfig config.AgentConfig,
	cfg workerPkg.Config,
	metrics *workerPkg.Metrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runDailyJob(logger, coordinator, artRepo, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("scheduler started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.String("feed_url", agentConfig.FeedURL),
		slog.String("summarizer", agentConfig.SummarizerType))
	select {}
}

// runDailyJob executes one scheduled run with a timeout and records metrics.
func runDailyJob(
	logger *slog.Logger,
	coordinator *daily.Coordinator,
	artRepo repository.ArticleRepository,
	cfg workerPkg.Config,
	metrics *workerPkg.Metrics,
) {
	logger.Info("daily run started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	report := coordinator.Run(ctx)

	metrics.RecordRun(string(report.Status), report.Duration.Seconds())
	if report.Ingest.Status == ingest.StatusSuccess {
		metrics.RecordIngested()
	}
	metrics.RecordBacklogProcessed(report.Backlog.Processed)
	if report.Status == daily.StatusSuccess {
		metrics.RecordLastSuccess()
	}

	if stats, err := artRepo.Stats(ctx); err == nil {
		metrics.SetPending(stats.Pending)
	} else {
		logger.Warn("failed to refresh pending gauge", slog.Any("error", err))
	}

	logger.Info("daily run finished",
		slog.String("status", string(report.Status)),
		slog.String("ingest_status", string(report.Ingest.Status)),
		slog.Int("backlog_processed", report.Backlog.Processed),
		slog.Int("backlog_total", report.Backlog.Total),
		slog.Duration("duration", report.Duration))
}
