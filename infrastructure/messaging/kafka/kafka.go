// Package kafka publishes domain events to a Kafka topic. OutboxPublisher
// relays rows from the MySQL outbox; EventPublisher sends drained events
// directly when the in-memory store is used.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ordercore/config"
	"ordercore/domain/shared"
	"ordercore/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const HeaderEventType = "event-type"

// Writer is the subset of *kafka.Writer the publishers use.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter hashes keys so every event of one aggregate lands on the same
// partition in order.
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func message(ctx context.Context, key, eventType string, value []byte) kafka.Message {
	headers := headerCarrier{{Key: HeaderEventType, Value: []byte(eventType)}}
	otel.GetTextMapPropagator().Inject(ctx, &headers)
	return kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
		Time:    time.Now().UTC(),
	}
}

type OutboxPublisher struct {
	writer Writer
}

func NewOutboxPublisher(w Writer) *OutboxPublisher {
	return &OutboxPublisher{writer: w}
}

func (p *OutboxPublisher) Publish(ctx context.Context, aggregateID, eventType, payload string) error {
	if err := p.writer.WriteMessages(ctx, message(ctx, aggregateID, eventType, []byte(payload))); err != nil {
		return fmt.Errorf("kafka write %s: %w", eventType, err)
	}
	return nil
}

func (p *OutboxPublisher) Close() error { return p.writer.Close() }

type EventPublisher struct {
	writer Writer
}

func NewEventPublisher(w Writer) *EventPublisher {
	return &EventPublisher{writer: w}
}

func (p *EventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	env, err := messaging.NewEnvelope(uuid.NewString(), event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, message(ctx, event.GetAggregateID(), event.EventName(), value)); err != nil {
		return fmt.Errorf("kafka write %s: %w", event.EventName(), err)
	}
	return nil
}

func (p *EventPublisher) Close() error { return p.writer.Close() }

var _ shared.DomainEventPublisher = (*EventPublisher)(nil)

// headerCarrier lets the otel propagator write trace context into Kafka
// headers.
type headerCarrier []kafka.Header

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, len(*c))
	for i, h := range *c {
		keys[i] = h.Key
	}
	return keys
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
