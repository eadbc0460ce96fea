package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blockedby/botpulse/internal/models"
	"github.com/blockedby/botpulse/internal/tracker"
)

// TrackRequest is one activity record submitted over the tracking API.
type TrackRequest struct {
	ActivityType   string         `json:"activityType"`
	ChatID         string         `json:"chatId"`
	UserID         string         `json:"userId"`
	MessageType    string         `json:"messageType"`
	ContentPreview string         `json:"contentPreview"`
	Metadata       map[string]any `json:"metadata"`
}

func (r *TrackRequest) fields() tracker.Fields {
	return tracker.Fields{
		ChatID:         r.ChatID,
		UserID:         r.UserID,
		MessageType:    models.MessageType(r.MessageType),
		ContentPreview: r.ContentPreview,
		Metadata:       r.Metadata,
	}
}

// TrackHandler handles the fire-and-forget tracking endpoints bots call.
type TrackHandler struct {
	svc TrackerService
}

// NewTrackHandler creates a track handler.
func NewTrackHandler(svc TrackerService) *TrackHandler {
	return &TrackHandler{svc: svc}
}

// Track handles POST /api/track/{botToken}.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if req.ActivityType == "" {
		respondError(w, http.StatusBadRequest, "activityType is required")
		return
	}

	botID := models.BotIDFromToken(chi.URLParam(r, "botToken"))

	if err := h.svc.LogActivity(r.Context(), botID, models.ActivityType(req.ActivityType), req.fields()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// TrackBatch handles POST /api/track-batch/{botToken}.
func (h *TrackHandler) TrackBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activities []TrackRequest `json:"activities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if len(req.Activities) == 0 {
		respondError(w, http.StatusBadRequest, "activities array is required")
		return
	}

	botID := models.BotIDFromToken(chi.URLParam(r, "botToken"))

	tracked := 0
	for _, activity := range req.Activities {
		if activity.ActivityType == "" {
			continue
		}
		if err := h.svc.LogActivity(r.Context(), botID, models.ActivityType(activity.ActivityType), activity.fields()); err != nil {
			continue
		}
		tracked++
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tracked": tracked,
	})
}
