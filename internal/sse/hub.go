package sse

import (
	"context"
	"sync"

	"homeward_notifications/internal/model"
)

// Client is one open notification stream for a user. A user may hold
// several clients (multiple tabs/devices); each gets every broadcast.
type Client struct {
	UserID string
	Ch     chan model.Notification
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Notification
	users      map[string]map[*Client]struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.Notification, 64),
		users:      make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast delivers a freshly created notification to the owning
// user's connected clients, if any.
func (h *Hub) Broadcast(notification model.Notification) {
	h.broadcast <- notification
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case notification := <-h.broadcast:
			h.broadcastToUser(notification)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[*Client]struct{})
	}
	h.users[client.UserID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[client.UserID]
	if clients == nil {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.UserID)
	}
}

func (h *Hub) broadcastToUser(notification model.Notification) {
	h.mu.RLock()
	clients := h.users[notification.UserID]
	h.mu.RUnlock()
	for client := range clients {
		select {
		case client.Ch <- notification:
		default:
			// Drop if the client is too slow.
		}
	}
}
