// Command api serves the read-only HTTP API over the article store:
// recently summarized articles and aggregate statistics.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quantum-news-agent/internal/handler/http/article"
	"quantum-news-agent/internal/handler/http/respond"
	pgRepo "quantum-news-agent/internal/infra/adapter/persistence/postgres"
	"quantum-news-agent/internal/infra/db"
	"quantum-news-agent/internal/observability/logging"
	pkgconfig "quantum-news-agent/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	server := buildServer(logger, database)
	runServer(logger, server)
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

// buildServer wires the route handlers into an http.Server.
func buildServer(logger *slog.Logger, database *sql.DB) *http.Server {
	artRepo := pgRepo.NewArticleRepo(database)

	mux := http.NewServeMux()
	article.Register(mux, artRepo, logger)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	addr := pkgconfig.GetEnvString("API_ADDR", ":8080")
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// runServer starts the HTTP server and blocks until shutdown.
func runServer(logger *slog.Logger, srv *http.Server) {
	go func() {
		logger.Info("api server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("api server stopped")
}
