package po

import (
	"encoding/json"
	"time"

	"ordercore/domain/shared"
	"ordercore/infrastructure/messaging"

	"github.com/google/uuid"
)

// OutboxEventPO is a domain event written in the same transaction as the
// aggregate that raised it. The relay worker moves it PENDING, PROCESSING,
// then PUBLISHED, or back to PENDING until it gives up with FAILED.
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;index;default:PENDING;not null"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	id := uuid.NewString()
	env, err := messaging.NewEnvelope(id, event)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          id,
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     string(payload),
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *OutboxEventPO) Envelope() (messaging.Envelope, error) {
	return messaging.Decode([]byte(p.Payload))
}
