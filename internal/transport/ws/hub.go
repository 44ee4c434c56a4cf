package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/civiform/civiform-go/internal/model"
)

// Hub manages the WebSocket connections of admin consoles subscribed
// to draft-change events. Every event fans out to every subscriber.
type Hub struct {
	conns map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
}

// Connection represents one subscribed admin console
type Connection struct {
	AccountID string
	Send      chan []byte
	Hub       *Hub
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Admin %s subscribed to draft events", conn.AccountID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
				log.Printf("Admin %s unsubscribed from draft events", conn.AccountID)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastDraftEvent sends an event to every subscriber (implements service.Broadcaster)
func (h *Hub) BroadcastDraftEvent(event model.DraftEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal draft event: %v", err)
		return
	}
	h.broadcast <- data
}
