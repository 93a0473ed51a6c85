package websocket

import "github.com/dafibh/budgetking/budgetking-backend/internal/domain"

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all clients subscribed to the budget type
	Publish(budgetType domain.BudgetType, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the budget type's subscribers
func (h *Hub) Publish(budgetType domain.BudgetType, event Event) {
	h.Broadcast(budgetType, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(budgetType domain.BudgetType, event Event) {}
