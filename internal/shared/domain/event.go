package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventMetadata carries tracing context for published events.
type EventMetadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	CausationID   string `json:"causation_id,omitempty"`
	Actor         string `json:"actor,omitempty"`
}

// Event is an integration event published to the event bus.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	RoutingKey string          `json:"routing_key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Metadata   EventMetadata   `json:"metadata"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent creates an event with the payload encoded as JSON.
func NewEvent(routingKey string, metadata EventMetadata, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New(),
		RoutingKey: routingKey,
		OccurredAt: time.Now().UTC(),
		Metadata:   metadata,
		Payload:    raw,
	}, nil
}

// Encode returns the JSON wire form of the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
