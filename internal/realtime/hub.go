package realtime

import (
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active connections keyed by channel and broadcasts task
// events to them. A channel is a vertical name or the club-wide channel;
// every connection subscribes to its own vertical plus club-wide.
type Hub struct {
	mu               sync.RWMutex
	channelToClients map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// NewHub constructs an empty hub; tests use this to avoid the singleton.
func NewHub() *Hub {
	return &Hub{channelToClients: make(map[string]map[Client]struct{})}
}

// Register adds a client under a channel.
func (h *Hub) Register(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.channelToClients[channel]; !ok {
		h.channelToClients[channel] = make(map[Client]struct{})
	}
	h.channelToClients[channel][client] = struct{}{}
}

// Unregister removes a client; if the channel has no more clients, cleans up map.
func (h *Hub) Unregister(channel string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.channelToClients[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channelToClients, channel)
		}
	}
}

// Broadcast sends a message to all clients of a channel.
func (h *Hub) Broadcast(channel string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.channelToClients[channel]
	for c := range clients {
		// a failed write is handled by the client's own reader loop
		c.Send(message)
	}
}
