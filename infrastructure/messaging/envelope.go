// Package messaging defines the wire format of domain events leaving the
// service.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"ordercore/domain/shared"
)

// Envelope wraps one domain event. Data is the event's own JSON encoding.
type Envelope struct {
	ID          string          `json:"id"`
	EventName   string          `json:"event_name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredOn  time.Time       `json:"occurred_on"`
	Data        json.RawMessage `json:"data"`
}

func NewEnvelope(id string, event shared.DomainEvent) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}
	return Envelope{
		ID:          id,
		EventName:   event.EventName(),
		AggregateID: event.GetAggregateID(),
		OccurredOn:  event.OccurredOn(),
		Data:        data,
	}, nil
}

func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(payload, &env)
	return env, err
}
