package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookcrews/community-platform/internal/engine"
	"github.com/bookcrews/community-platform/internal/middleware"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
)

// searchPages is the direct-search paging window.
const searchPages = 5

// RecommendHandler handles the session-less recommendation endpoints.
type RecommendHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(eng *engine.Engine, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{
		engine: eng,
		logger: log,
	}
}

// Search handles POST /api/v1/recommendations/search
func (h *RecommendHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	recs, source := h.engine.Search(r.Context(), req.Query, req.Page)

	writeJSON(w, http.StatusOK, &model.RecommendResponse{
		Recommendations: recs,
		Page:            req.Page,
		HasMore:         req.Page < searchPages,
		Source:          source,
	})
}

// ByCharacter handles POST /api/v1/recommendations/character
func (h *RecommendHandler) ByCharacter(w http.ResponseWriter, r *http.Request) {
	var req model.CharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, source := h.engine.ByCharacter(r.Context(), req.Character)

	writeJSON(w, http.StatusOK, &model.RecommendResponse{
		Recommendations: recs,
		Page:            1,
		HasMore:         false,
		Source:          source,
	})
}

// Similar handles POST /api/v1/recommendations/similar
func (h *RecommendHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req model.SimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, source := h.engine.Similar(r.Context(), req.Title)

	writeJSON(w, http.StatusOK, &model.RecommendResponse{
		Recommendations: recs,
		Page:            1,
		HasMore:         false,
		Source:          source,
	})
}

// Detail handles GET /api/v1/books/detail?title=
func (h *RecommendHandler) Detail(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	detail, source := h.engine.Detail(r.Context(), title)

	writeJSON(w, http.StatusOK, &model.DetailResponse{
		Book:   detail,
		Source: source,
	})
}
