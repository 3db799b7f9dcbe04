package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
)

// Hub tracks connected clients and delivers user-directed events.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	direct     chan *directMsg

	logger *slog.Logger
}

type directMsg struct {
	userID uuid.UUID
	data   []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan *directMsg, 256),
		logger:     logger,
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			// A reconnect replaces the old client; close it so its pumps
			// stop and its later unregister cannot evict the new one.
			old, replaced := h.clients[client.userID]
			if replaced {
				close(old.send)
				close(old.done)
			}
			h.clients[client.userID] = client
			h.logger.Info("ws client connected",
				slog.String("user_id", client.userID.String()),
				slog.Int("total", len(h.clients)))

			if !replaced {
				h.broadcastPresence(client.userID, "online")
			}

		case client := <-h.unregister:
			// Ignore a stale unregister from a connection that was already
			// replaced by a newer one.
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
				close(client.done)
				h.logger.Info("ws client disconnected",
					slog.String("user_id", client.userID.String()),
					slog.Int("total", len(h.clients)))

				h.broadcastPresence(client.userID, "offline")
			}

		case msg := <-h.direct:
			client, ok := h.clients[msg.userID]
			if !ok {
				continue
			}
			select {
			case client.send <- msg.data:
			default:
				// Client buffer full - disconnect
				delete(h.clients, client.userID)
				close(client.send)
				close(client.done)
			}
		}
	}
}

// SendToUser delivers an event to a user if they are connected. Delivery is
// best-effort; an offline user simply misses the event.
func (h *Hub) SendToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("ws hub: marshal error", slog.String("error", err.Error()))
		return
	}
	h.direct <- &directMsg{userID: userID, data: data}
}

// broadcastPresence sends online/offline to all other connected clients.
func (h *Hub) broadcastPresence(userID uuid.UUID, status string) {
	evt, err := NewEvent(EventTypePresence, PresencePayload{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		if client.userID == userID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}
