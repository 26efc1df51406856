package apiserver

import (
	"net/http"

	"social-go/internal/middleware"
	"social-go/internal/ws"
)

// PresenceHandler upgrades authenticated requests to presence websocket
// connections.
type PresenceHandler struct {
	hub *ws.Hub
}

// NewPresenceHandler creates a new PresenceHandler instance.
func NewPresenceHandler(hub *ws.Hub) *PresenceHandler {
	return &PresenceHandler{hub: hub}
}

// Connect handles GET /ws/presence.
func (h *PresenceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		writeJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	ws.ServePresence(h.hub, username, w, r)
}
