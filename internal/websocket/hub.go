package websocket

import (
	"encoding/json"
	"sync"

	"github.com/storify/storify-backend/internal/app/model"
	"github.com/storify/storify-backend/pkg/logger"
)

// Hub fans cart notifications out to every connected client. It implements
// service.Notifier.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Notification

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan model.Notification, 256),
	}
}

// Publish queues a notification for delivery to all connected clients.
// It never blocks the cart store; when the hub is saturated the
// notification is dropped (it is an ephemeral advisory, not state).
func (h *Hub) Publish(n model.Notification) {
	select {
	case h.broadcast <- n:
	default:
		logger.Warn("Notification hub saturated, dropping notification", map[string]interface{}{
			"kind": n.Kind,
		})
	}
}

// Run processes registrations and broadcasts. Call once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("Notification client connected", map[string]interface{}{
				"clients": h.clientCount(),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("Notification client disconnected", map[string]interface{}{
				"clients": h.clientCount(),
			})

		case n := <-h.broadcast:
			data, err := json.Marshal(n)
			if err != nil {
				logger.Error("Failed to encode notification", err, nil)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// slow client, skip this notification
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
