// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookcrews/community-platform/internal/engine"
	"github.com/bookcrews/community-platform/internal/middleware"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
)

// ChatHandler handles the conversational recommendation endpoint.
type ChatHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(eng *engine.Engine, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		engine: eng,
		logger: log,
	}
}

// Chat handles POST /api/v1/recommendations/chat
//
// Input validation is the only caller-visible failure; everything past this
// point is total and responds 200 with a best-effort body.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = model.DefaultSessionID
	}

	resp := h.engine.Chat(r.Context(), req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, resp)
}
