package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"social-go/internal/models"
	"social-go/internal/services"
)

// Hub maintains the set of connected presence clients, one per username.
// A new connection for a username replaces the previous one.
type Hub struct {
	// Registered clients keyed by username.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Status changes parsed from client messages.
	statusUpdates chan statusUpdate

	profiles services.ProfileService
	logger   *zap.Logger
}

type statusUpdate struct {
	username string
	status   models.ProfileStatus
}

// NewHub creates a new Hub.
func NewHub(profiles services.ProfileService, logger *zap.Logger) *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		statusUpdates: make(chan statusUpdate, 256),
		profiles:      profiles,
		logger:        logger,
	}
}

// Run starts the hub loop. It owns the clients map; all mutations happen here.
func (h *Hub) Run() {
	h.logger.Info("presence hub started")
	for {
		select {
		case client := <-h.register:
			if existing, ok := h.clients[client.username]; ok {
				h.logger.Warn("replacing existing presence connection",
					zap.String("username", client.username))
				close(existing.send)
			}
			h.clients[client.username] = client
			h.setStatus(client.username, models.ProfileStatusOnline)

		case client := <-h.unregister:
			if stored, ok := h.clients[client.username]; ok && stored == client {
				delete(h.clients, client.username)
				close(client.send)
				h.setStatus(client.username, models.ProfileStatusOffline)
			}

		case update := <-h.statusUpdates:
			// Ignore updates from connections that were already replaced.
			if _, ok := h.clients[update.username]; ok {
				h.setStatus(update.username, update.status)
			}
		}
	}
}

func (h *Hub) setStatus(username string, status models.ProfileStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.profiles.UpdateStatus(ctx, username, status); err != nil {
		h.logger.Warn("failed to update presence status",
			zap.String("username", username),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
