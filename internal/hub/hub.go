package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SessionChanged builds the render-invalidation event fired after every
// committed mutation of a session's queue, roster or status. Subscribers
// re-read the session; the event carries no rendered content.
func SessionChanged(sessionID uint) Event {
	return Event{
		Type:    "session_changed",
		Payload: map[string]uint{"session_id": sessionID},
	}
}

// Client represents a single subscriber to a session's event stream.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub manages the subscribers of every watched session.
type Hub struct {
	sessions map[uint]map[Client]bool
	mu       sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific session's stream.
func (h *Hub) Subscribe(sessionID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sessionID]; !ok {
		h.sessions[sessionID] = make(map[Client]bool)
	}
	h.sessions[sessionID][client] = true
}

// Unsubscribe removes a client from a session's stream.
func (h *Hub) Unsubscribe(sessionID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.sessions[sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.sessions, sessionID)
			}
		}
	}
}

// Broadcast sends an event to all clients watching a session.
func (h *Hub) Broadcast(sessionID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.sessions[sessionID]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}
