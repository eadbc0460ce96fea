package web

import (
	"encoding/json"

	"github.com/blockedby/botpulse/internal/tracker"
)

// WebSocket event types
const (
	EventActivityLogged = "activity.logged"
)

// WSEvent is the structured WebSocket message envelope.
type WSEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// BroadcastActivity pushes one logged activity to all connected clients.
// Implements tracker.Broadcaster.
func (h *Hub) BroadcastActivity(event tracker.ActivityLogged) {
	b, err := json.Marshal(WSEvent{Type: EventActivityLogged, Payload: event})
	if err != nil {
		return
	}
	h.broadcast <- b
}
