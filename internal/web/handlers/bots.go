package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blockedby/botpulse/internal/models"
	"github.com/blockedby/botpulse/internal/repository"
)

// BotsHandler handles the bot registry routes.
type BotsHandler struct {
	repo BotsRepository
}

// NewBotsHandler creates a bots handler.
func NewBotsHandler(repo BotsRepository) *BotsHandler {
	return &BotsHandler{repo: repo}
}

// List handles GET /api/bots.
func (h *BotsHandler) List(w http.ResponseWriter, r *http.Request) {
	bots, err := h.repo.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bots":    bots,
	})
}

// Create handles POST /api/bots.
func (h *BotsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if req.Name == "" || req.Username == "" || req.Token == "" {
		respondError(w, http.StatusBadRequest, "name, username, and token are required")
		return
	}
	if !models.ValidToken(req.Token) {
		respondError(w, http.StatusBadRequest, "invalid token format")
		return
	}

	bot := &models.RegisteredBot{
		BotID:    models.BotIDFromToken(req.Token),
		Name:     req.Name,
		Username: strings.TrimPrefix(req.Username, "@"),
		Token:    req.Token,
	}

	if err := h.repo.Create(r.Context(), bot); err != nil {
		if errors.Is(err, repository.ErrBotExists) {
			respondError(w, http.StatusBadRequest, "this bot is already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bot":     bot,
	})
}

// GetByID handles GET /api/bots/{botID}.
func (h *BotsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	bot, err := h.repo.GetByBotID(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bot == nil {
		respondError(w, http.StatusNotFound, "bot not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"bot":     bot,
	})
}

// Delete handles DELETE /api/bots/{botID}.
func (h *BotsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.repo.Delete(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "bot not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "bot removed",
	})
}
