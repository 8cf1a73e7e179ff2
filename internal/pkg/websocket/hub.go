package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const broadcastBuffer = 256

// Hub fans live messages out to every connected admin client.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients map[*Client]struct{}

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	// count mirrors len(clients) for readers outside Run
	countMu sync.RWMutex
	count   int

	logger zerolog.Logger
}

// NewHub creates a new Hub. Call Run in its own goroutine and Stop on shutdown.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount()
			h.logger.Info().Int64("userID", client.userID).Int("clients", len(h.clients)).Msg("Live feed client registered")

		case client := <-h.unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					h.logger.Warn().Int64("userID", client.userID).Msg("Dropping slow live feed client")
					h.removeClient(client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				h.removeClient(client)
			}
			h.logger.Info().Msg("Live feed hub stopped")
			return
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.setCount()
	h.logger.Debug().Int64("userID", client.userID).Msg("Live feed client unregistered")
}

func (h *Hub) setCount() {
	h.countMu.Lock()
	h.count = len(h.clients)
	h.countMu.Unlock()
}

// Broadcast queues msg for every connected client. It never blocks:
// when the hub is stopped or its queue is full the message is dropped.
func (h *Hub) Broadcast(msg LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal live message")
		return
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Str("action", msg.Action).Msg("Live feed queue full, message dropped")
	}
}

// Register adds a client. It reports false when the hub is already stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; safe to call after Stop
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.count
}

// Stop closes every client and waits for Run to return
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	<-h.stopped
}
