package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MonitorHandler controls per-bot polling monitors.
type MonitorHandler struct {
	registry MonitorRegistry
	bots     BotsRepository
}

// NewMonitorHandler creates a monitor handler.
func NewMonitorHandler(registry MonitorRegistry, bots BotsRepository) *MonitorHandler {
	return &MonitorHandler{registry: registry, bots: bots}
}

// Start handles POST /api/bots/{botID}/monitor/start.
func (h *MonitorHandler) Start(w http.ResponseWriter, r *http.Request) {
	bot, err := h.bots.GetByBotID(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bot == nil || bot.Token == "" {
		respondError(w, http.StatusNotFound, "bot not found or no token available")
		return
	}

	if err := h.registry.Start(bot.Token, bot.BotID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "monitoring started for bot " + bot.Username,
	})
}

// Stop handles POST /api/bots/{botID}/monitor/stop.
func (h *MonitorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Stop(chi.URLParam(r, "botID")) {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "monitor was not running",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "monitoring stopped",
	})
}

// Status handles GET /api/monitor/status.
func (h *MonitorHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"monitors": h.registry.Active(),
	})
}
