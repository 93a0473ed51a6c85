package websocket

import (
	"errors"
	"sync"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	BudgetType() domain.BudgetType
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by budget type.
// It is safe for concurrent use.
type Hub struct {
	channels map[domain.BudgetType]map[string]ClientInterface
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		channels: make(map[domain.BudgetType]map[string]ClientInterface),
	}
}

// Register adds a client under its budget type
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	budgetType := client.BudgetType()
	if h.channels[budgetType] == nil {
		h.channels[budgetType] = make(map[string]ClientInterface)
	}
	h.channels[budgetType][client.ID()] = client

	log.Debug().
		Str("budget_type", budgetType.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	budgetType := client.BudgetType()
	clients, ok := h.channels[budgetType]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}

	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.channels, budgetType)
	}

	log.Debug().
		Str("budget_type", budgetType.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Move re-files a client registered under from under its current budget type.
// A client that has already been unregistered stays out of the hub.
func (h *Hub) Move(client ClientInterface, from domain.BudgetType) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.channels[from]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.channels, from)
	}

	to := client.BudgetType()
	if h.channels[to] == nil {
		h.channels[to] = make(map[string]ClientInterface)
	}
	h.channels[to][client.ID()] = client
}

// Broadcast sends an event to every client subscribed to budgetType
func (h *Hub) Broadcast(budgetType domain.BudgetType, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("budget_type", budgetType.String()).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.channels[budgetType]))
	for _, client := range h.channels[budgetType] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("budget_type", budgetType.String()).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("budget_type", budgetType.String()).
		Str("event_type", event.Type).
		Int("client_count", len(clients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of clients subscribed to a budget type
func (h *Hub) ClientCount(budgetType domain.BudgetType) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[budgetType])
}

// TotalClientCount returns the number of connected clients across budget types
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.channels {
		total += len(clients)
	}
	return total
}
