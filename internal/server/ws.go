package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stackTD/NextSight-v2/internal/intersect"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local exhibition tool; all origins are allowed.
		return true
	},
}

// EventsHandler pushes interaction events to connected WebSocket clients.
type EventsHandler struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	send    chan intersect.Event
	done    chan struct{}
}

// NewEventsHandler creates an EventsHandler and starts its broadcast loop.
func NewEventsHandler() *EventsHandler {
	h := &EventsHandler{
		clients: make(map[*websocket.Conn]bool),
		send:    make(chan intersect.Event, 64),
		done:    make(chan struct{}),
	}
	go h.broadcastLoop()
	return h
}

// Broadcast queues an event for delivery to all connected clients. Events
// are dropped when the queue is full rather than blocking the frame loop.
func (h *EventsHandler) Broadcast(ev intersect.Event) {
	select {
	case h.send <- ev:
	default:
		log.Printf("ws: event queue full, dropping %s", ev.Kind)
	}
}

// broadcastLoop fans queued events out to every connected client.
func (h *EventsHandler) broadcastLoop() {
	for {
		select {
		case ev := <-h.send:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		case <-h.done:
			return
		}
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain reads so control frames are processed; drop the client on
	// error.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected clients.
func (h *EventsHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close shuts down the broadcast loop and disconnects all clients.
func (h *EventsHandler) Close() {
	close(h.done)
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
}
