package article

import (
	"log/slog"
	"net/http"

	"quantum-news-agent/internal/repository"
)

// Register registers the read-only article endpoints with the given mux.
func Register(mux *http.ServeMux, repo repository.ArticleRepository, logger *slog.Logger) {
	mux.Handle("GET /articles/recent", RecentHandler{Repo: repo, Logger: logger})
	mux.Handle("GET /stats", StatsHandler{Repo: repo, Logger: logger})
}
