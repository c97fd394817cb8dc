package handler

import (
	"net/http"
	"strconv"

	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/internal/trending"
	"github.com/bookcrews/community-platform/pkg/logger"
)

// trendingPages is the exhaustive trending window, in pages of 5.
const trendingPages = 6

// TrendingHandler handles the trending books endpoint.
type TrendingHandler struct {
	cache  *trending.Cache
	logger *logger.Logger
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(cache *trending.Cache, log *logger.Logger) *TrendingHandler {
	return &TrendingHandler{
		cache:  cache,
		logger: log,
	}
}

// List handles GET /api/v1/books/trending?page=&refresh=
func (h *TrendingHandler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed >= 1 {
			page = parsed
		}
	}

	force := r.URL.Query().Get("refresh") == "true"

	books, cached, source := h.cache.Get(r.Context(), page, force)

	writeJSON(w, http.StatusOK, &model.TrendingResponse{
		Books:   books,
		Page:    page,
		HasMore: page < trendingPages,
		Cached:  cached,
		Source:  source,
	})
}
