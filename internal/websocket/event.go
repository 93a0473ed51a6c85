package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeSaved    EventType = "saved"
	EventTypeUpdated  EventType = "updated"
	EventTypeAck      EventType = "ack"
	EventTypeRejected EventType = "rejected"
)

// EntityType represents the kind of document the event is about
type EntityType string

const (
	EntityTypeBudget       EntityType = "budget"
	EntityTypeActuals      EntityType = "actuals"
	EntityTypeSubscription EntityType = "subscription"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "actuals.saved"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "actuals"
	Payload   interface{} `json:"payload"`   // Identifies the saved document
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BudgetSaved creates a budget.saved event
func BudgetSaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeBudget, payload)
}

// ActualsSaved creates an actuals.saved event
func ActualsSaved(payload interface{}) Event {
	return NewEvent(EventTypeSaved, EntityTypeActuals, payload)
}

// ActualsUpdated creates an actuals.updated event for single-item edits
func ActualsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeActuals, payload)
}

// SubscriptionAck confirms the budget type a connection now follows
func SubscriptionAck(budgetType domain.BudgetType) Event {
	return NewEvent(EventTypeAck, EntityTypeSubscription, map[string]string{"type": budgetType.String()})
}

// SubscriptionRejected reports an inbound command that was not applied
func SubscriptionRejected(reason string) Event {
	return NewEvent(EventTypeRejected, EntityTypeSubscription, map[string]string{"reason": reason})
}
