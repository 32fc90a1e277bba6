package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-resolution-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderResolved         EventType = "order_resolved"
	EventOrderUnresolved       EventType = "order_unresolved"
	EventSplitShipmentDetected EventType = "split_shipment_detected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, ticketID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: at,
		Payload:   payload,
	}
}

// OrderResolvedPayload payload.
type OrderResolvedPayload struct {
	OrderNumber int64                      `json:"order_number"`
	Method      domain.ResolutionMethod    `json:"method"`
	Rationale   []domain.Signal            `json:"rationale"`
	Summary     *domain.FulfillmentSummary `json:"fulfillment_summary,omitempty"`
}

// OrderUnresolvedPayload payload.
type OrderUnresolvedPayload struct {
	CandidateCount int      `json:"candidate_count"`
	Warnings       []string `json:"warnings,omitempty"`
}

// SplitShipmentDetectedPayload payload.
type SplitShipmentDetectedPayload struct {
	OrderNumber   int64                     `json:"order_number"`
	GroupCount    int                       `json:"group_count"`
	LocationCount int                       `json:"location_count"`
	Summary       domain.FulfillmentSummary `json:"fulfillment_summary"`
}
