package notification

import (
	"context"
	"log/slog"
	"sync"
)

type delivery struct {
	userID  int64
	message []byte
}

// Hub keeps the open websocket sessions of each user and fans messages out
// to them.
type Hub struct {
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}

	logger *slog.Logger
	mu     sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and deliveries until ctx ends, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; !ok {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket session opened", "user_id", client.userID)

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients[d.userID] {
				select {
				case client.send <- d.message:
				default:
					h.logger.Warn("websocket client too slow, closing session", "user_id", d.userID)
					close(client.send)
					delete(h.clients[d.userID], client)
				}
			}
			if len(h.clients[d.userID]) == 0 {
				delete(h.clients, d.userID)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for userID, sessions := range h.clients {
				for client := range sessions {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

// SendToUser queues message for every session of userID. It drops the
// message when the hub is backed up.
func (h *Hub) SendToUser(userID int64, message []byte) {
	select {
	case h.deliver <- delivery{userID: userID, message: message}:
	default:
		h.logger.Warn("websocket delivery queue full, dropping message", "user_id", userID)
	}
}

// Sessions returns the number of open sessions of userID.
func (h *Hub) Sessions(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.clients[client.userID]
	if !ok || !sessions[client] {
		return
	}
	delete(sessions, client)
	close(client.send)
	if len(sessions) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug("websocket session closed", "user_id", client.userID)
}
