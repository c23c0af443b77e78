package article

import (
	"log/slog"
	"net/http"

	"quantum-news-agent/internal/handler/http/respond"
	"quantum-news-agent/internal/repository"
)

// StatsHandler serves GET /stats, returning aggregate counts for the
// article store: total rows, summarized rows, and the pending backlog.
type StatsHandler struct {
	Repo   repository.ArticleRepository
	Logger *slog.Logger
}

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Stats(r.Context())
	if err != nil {
		h.Logger.Error("failed to load article stats", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, StatsDTO{
		Total:      stats.Total,
		Summarized: stats.Summarized,
		Pending:    stats.Pending,
	})
}
