package order

import (
	"time"

	"ordercore/domain/shared"
)

// Event is the closed set of events an Order records. Consumers switch on
// the concrete type:
//
//	switch e := ev.(type) {
//	case *OrderCreatedEvent:
//	case *OrderPaidEvent:
//	}
type Event interface {
	shared.DomainEvent
	orderEvent()
}

const (
	EventCreated   = "order.created"
	EventItemAdded = "order.item_added"
	EventPaid      = "order.paid"
	EventCancelled = "order.cancelled"
	EventShipped   = "order.shipped"
	EventDelivered = "order.delivered"
)

type OrderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	At         time.Time `json:"occurred_on"`
}

type OrderItemAddedEvent struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	At        time.Time `json:"occurred_on"`
}

type OrderPaidEvent struct {
	OrderID string       `json:"order_id"`
	Amount  shared.Money `json:"amount"`
	At      time.Time    `json:"occurred_on"`
}

type OrderCancelledEvent struct {
	OrderID string    `json:"order_id"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"occurred_on"`
}

type OrderShippedEvent struct {
	OrderID string    `json:"order_id"`
	At      time.Time `json:"occurred_on"`
}

type OrderDeliveredEvent struct {
	OrderID string    `json:"order_id"`
	At      time.Time `json:"occurred_on"`
}

func (e *OrderCreatedEvent) EventName() string      { return EventCreated }
func (e *OrderCreatedEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderCreatedEvent) GetAggregateID() string { return e.OrderID }
func (*OrderCreatedEvent) orderEvent()              {}

func (e *OrderItemAddedEvent) EventName() string      { return EventItemAdded }
func (e *OrderItemAddedEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderItemAddedEvent) GetAggregateID() string { return e.OrderID }
func (*OrderItemAddedEvent) orderEvent()              {}

func (e *OrderPaidEvent) EventName() string      { return EventPaid }
func (e *OrderPaidEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderPaidEvent) GetAggregateID() string { return e.OrderID }
func (*OrderPaidEvent) orderEvent()              {}

func (e *OrderCancelledEvent) EventName() string      { return EventCancelled }
func (e *OrderCancelledEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderCancelledEvent) GetAggregateID() string { return e.OrderID }
func (*OrderCancelledEvent) orderEvent()              {}

func (e *OrderShippedEvent) EventName() string      { return EventShipped }
func (e *OrderShippedEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderShippedEvent) GetAggregateID() string { return e.OrderID }
func (*OrderShippedEvent) orderEvent()              {}

func (e *OrderDeliveredEvent) EventName() string      { return EventDelivered }
func (e *OrderDeliveredEvent) OccurredOn() time.Time  { return e.At }
func (e *OrderDeliveredEvent) GetAggregateID() string { return e.OrderID }
func (*OrderDeliveredEvent) orderEvent()              {}
