package product

import "time"

const EventOutOfStock = "product.out_of_stock"

// OutOfStockEvent is raised when an order asks for more than is on hand.
type OutOfStockEvent struct {
	ProductID string    `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
	At        time.Time `json:"occurred_on"`
}

func NewOutOfStockEvent(productID string, requested, available int) *OutOfStockEvent {
	return &OutOfStockEvent{ProductID: productID, Requested: requested, Available: available, At: time.Now()}
}

func (e *OutOfStockEvent) EventName() string      { return EventOutOfStock }
func (e *OutOfStockEvent) OccurredOn() time.Time  { return e.At }
func (e *OutOfStockEvent) GetAggregateID() string { return e.ProductID }
