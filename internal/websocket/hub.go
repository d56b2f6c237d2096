// Package websocket pushes change notifications to connected clients.
// The hub fans every published event out to all registered connections;
// clients only ever send ping messages back.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ray/bizdesk/internal/api/metrics"
	"github.com/rs/zerolog"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			metrics.WSClientsConnected.Set(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
				metrics.WSClientsConnected.Set(float64(len(h.clients)))
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					client.Close()
					metrics.WSClientsConnected.Set(float64(len(h.clients)))
				}
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop the event rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts the hub down and closes every client connection. It blocks
// until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// Broadcast publishes an event to every connected client. Events published
// after Stop are discarded.
func (h *Hub) Broadcast(eventType string, payload any) {
	msg, err := NewMessage(eventType, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Msg("failed to encode event")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister safely removes a client, tolerating a hub that is stopping.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
