package article

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"quantum-news-agent/internal/handler/http/respond"
	"quantum-news-agent/internal/repository"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// RecentHandler serves GET /articles/recent, returning the most recently
// ingested articles that already have a summary.
type RecentHandler struct {
	Repo   repository.ArticleRepository
	Logger *slog.Logger
}

func (h RecentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := parseLimit(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	articles, err := h.Repo.ListRecentSummarized(ctx, limit)
	if err != nil {
		h.Logger.Error("failed to list recent articles",
			slog.Int("limit", limit),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(articles))
	for _, a := range articles {
		dtos = append(dtos, DTO{
			ID:          a.ID,
			Title:       a.Title,
			Author:      a.Author,
			PublishDate: a.PublishDate,
			Link:        a.Link,
			Summary:     a.Summary,
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		})
	}

	respond.JSON(w, http.StatusOK, dtos)
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultRecentLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return limit, nil
}
