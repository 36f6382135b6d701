package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/huddlesocial/huddle/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Message types pushed on the live feed.
const (
	TypeEventCreated = "event.created"
	TypeEventUpdated = "event.updated"
	TypeEventDeleted = "event.deleted"
)

const broadcastBuffer = 64

// Message is one item of the live event feed.
type Message struct {
	Type string `json:"type"`

	// Category of the event; subscribers filtering on another category skip it.
	Category string `json:"category"`

	Payload interface{} `json:"payload"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub fans feed messages out to subscribed clients.
type Hub struct {
	// Registered clients keyed by their category filter; "" receives everything.
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.category]; !ok {
		h.clients[client.category] = make(map[*Client]bool)
	}
	h.clients[client.category][client] = true
	metrics.LiveSubscribers.Inc()

	h.logger.Info().
		Str("category", client.category).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Live feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	group, ok := h.clients[client.category]
	if !ok || !group[client] {
		return
	}
	delete(group, client)
	close(client.send)
	metrics.LiveSubscribers.Dec()

	if len(group) == 0 {
		delete(h.clients, client.category)
	}

	h.logger.Info().
		Str("category", client.category).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Live feed client unregistered")
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("type", message.Type).Msg("Failed to marshal feed message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, category := range []string{"", message.Category} {
		for client := range h.clients[category] {
			select {
			case client.send <- data:
				delivered++
			default:
				// Slow consumer: drop it rather than stall the feed.
				h.removeLocked(client)
			}
		}
		if message.Category == "" {
			break
		}
	}

	h.logger.Debug().
		Str("type", message.Type).
		Str("category", message.Category).
		Int("clientCount", delivered).
		Msg("Feed message broadcasted")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.clients {
		for client := range group {
			h.removeLocked(client)
		}
	}
}

// Publish queues message for delivery. It never blocks: when the queue is
// full the message is dropped and logged.
func (h *Hub) Publish(message *Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Str("type", message.Type).Msg("Live feed queue full, message dropped")
	}
}

// ClientCount returns the number of connected clients across all filters.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, group := range h.clients {
		n += len(group)
	}
	return n
}
