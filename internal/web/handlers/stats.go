package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// StatsHandler serves aggregated bot statistics.
type StatsHandler struct {
	svc TrackerService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(svc TrackerService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/bots/{botID}/stats. An optional range query
// parameter restricts the window to the last N milliseconds.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var rangeMillis *int64
	if raw := r.URL.Query().Get("range"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "range must be a positive integer of milliseconds")
			return
		}
		rangeMillis = &parsed
	}

	stats, err := h.svc.GetStats(r.Context(), chi.URLParam(r, "botID"), rangeMillis)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

// GetActivity handles GET /api/bots/{botID}/activity with a named period
// (1h, 24h, 7d, 30d). Unknown or missing periods fall back to 24h.
func (h *StatsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetActivityByPeriod(r.Context(), chi.URLParam(r, "botID"), r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
