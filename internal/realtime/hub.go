package realtime

import (
	"github.com/memehustle/backend/internal/logger"
)

// Hub owns the set of connected clients and fans broadcast frames out to all
// of them. A single goroutine (Run) serializes registration, unregistration,
// and broadcasting, so frames reach every client in emission order.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub creates a hub. Run must be started before clients connect.
// Parameters: none.
// Returns:
//   - *Hub: initialized hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes hub events until the process exits. Intended to be started
// once as a goroutine from main.
// Parameters: none.
// Returns: none.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.With(logger.Fields{logger.FieldCount: len(h.clients)}).
				Info(nil, "Client connected: %s", client.id)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				logger.With(logger.Fields{logger.FieldCount: len(h.clients)}).
					Info(nil, "Client disconnected: %s", client.id)
			}
		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.clients, client)
					client.closeSend()
				}
			}
		}
	}
}

// Broadcast fans an event out to every connected client, including whichever
// client triggered the underlying mutation. Delivery is fire-and-forget and
// never acknowledged.
// Parameters:
//   - event: event name.
//   - data: JSON-serializable payload.
// Returns: none.
func (h *Hub) Broadcast(event string, data interface{}) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		logger.With(logger.Fields{logger.FieldEvent: event}).
			Error(nil, "Failed to encode broadcast: %v", err)
		return
	}
	h.broadcast <- frame
}
