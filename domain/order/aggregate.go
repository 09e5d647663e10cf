/*
Package order holds the Order aggregate.

Order is the aggregate root and exclusively owns its OrderItems. Items
refer to products by id only and snapshot the product name and unit price
at the time they are added, so later catalogue changes never alter an
existing order. Every mutating method is all-or-nothing: on error the
aggregate is left exactly as it was.
*/
package order

import (
	"strconv"
	"strings"
	"time"

	"ordercore/domain/shared"

	"github.com/google/uuid"
)

// Order aggregate root
type Order struct {
	id              string
	customerID      string
	shippingAddress shared.Address
	billingAddress  shared.Address
	status          Status
	items           []OrderItem
	totalAmount     shared.Money

	createdAt      time.Time
	lastModifiedAt time.Time
	paidAt         *time.Time
	shippedAt      *time.Time
	deliveredAt    *time.Time
	cancelledAt    *time.Time

	version int
	isNew   bool

	events []Event
}

// OrderItem is a line of an order. It has no pointer back to its order.
type OrderItem struct {
	id          string
	productID   string
	productName string
	unitPrice   shared.Money
	quantity    shared.Quantity
}

// ============================================================================
// Factory
// ============================================================================

// NewOrder creates an empty order in CREATED and records OrderCreatedEvent.
func NewOrder(customerID string, shippingAddress, billingAddress shared.Address) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, shared.NewValidationError("order", "customer_id", "is required")
	}
	if shippingAddress.IsZero() {
		return nil, shared.NewValidationError("order", "shipping_address", "is required")
	}
	if billingAddress.IsZero() {
		return nil, shared.NewValidationError("order", "billing_address", "is required")
	}

	now := time.Now()
	o := &Order{
		id:              uuid.NewString(),
		customerID:      customerID,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		status:          StatusCreated,
		items:           make([]OrderItem, 0),
		totalAmount:     shared.Zero(shared.DefaultCurrency),
		createdAt:       now,
		lastModifiedAt:  now,
		isNew:           true,
	}
	o.record(&OrderCreatedEvent{OrderID: o.id, CustomerID: customerID, At: now})
	return o, nil
}

func newOrderItem(productID, productName string, unitPrice shared.Money, quantity shared.Quantity) (OrderItem, error) {
	if strings.TrimSpace(productID) == "" {
		return OrderItem{}, shared.NewValidationError("order_item", "product_id", "is required")
	}
	if strings.TrimSpace(productName) == "" {
		return OrderItem{}, shared.NewValidationError("order_item", "product_name", "must not be blank")
	}
	if !unitPrice.IsPositive() {
		return OrderItem{}, shared.NewValidationError("order_item", "unit_price", "must be greater than zero")
	}
	if quantity.IsZero() {
		return OrderItem{}, NewInvalidQuantityError("quantity")
	}
	return OrderItem{
		id:          uuid.NewString(),
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

// ============================================================================
// Item management (editable states only)
// ============================================================================

// AddItem appends a line, or increases the quantity of the existing line
// for the same product. Only a new line records OrderItemAddedEvent.
func (o *Order) AddItem(productID, productName string, unitPrice shared.Money, quantity shared.Quantity) error {
	if !o.status.IsEditable() {
		return NewNotEditableError(o.id, o.status)
	}

	candidate, err := newOrderItem(productID, productName, unitPrice, quantity)
	if err != nil {
		return err
	}

	items := o.copyItems()
	merged := false
	for i := range items {
		if items[i].productID == productID {
			items[i].quantity = items[i].quantity.Add(quantity)
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, candidate)
	}

	if err := o.replaceItems(items); err != nil {
		return err
	}
	if !merged {
		o.record(&OrderItemAddedEvent{
			OrderID:   o.id,
			ProductID: productID,
			Quantity:  quantity.Value(),
			At:        o.lastModifiedAt,
		})
	}
	return nil
}

// RemoveItem drops a line. Removing the last remaining line is refused.
func (o *Order) RemoveItem(itemID string) error {
	if !o.status.IsEditable() {
		return NewNotEditableError(o.id, o.status)
	}

	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return NewItemNotFoundError(o.id, itemID)
	}
	if len(o.items) == 1 {
		return NewLastItemError(o.id)
	}

	items := make([]OrderItem, 0, len(o.items)-1)
	items = append(items, o.items[:idx]...)
	items = append(items, o.items[idx+1:]...)
	return o.replaceItems(items)
}

func (o *Order) UpdateItemQuantity(itemID string, quantity shared.Quantity) error {
	if !o.status.IsEditable() {
		return NewNotEditableError(o.id, o.status)
	}

	idx := o.indexOfItem(itemID)
	if idx < 0 {
		return NewItemNotFoundError(o.id, itemID)
	}
	if quantity.IsZero() {
		return NewInvalidQuantityError("quantity")
	}

	items := o.copyItems()
	items[idx].quantity = quantity
	return o.replaceItems(items)
}

func (o *Order) UpdateShippingAddress(address shared.Address) error {
	if !o.status.IsEditable() {
		return NewNotEditableError(o.id, o.status)
	}
	if address.IsZero() {
		return shared.NewValidationError("order", "shipping_address", "is required")
	}
	o.shippingAddress = address
	o.lastModifiedAt = time.Now()
	return nil
}

func (o *Order) UpdateBillingAddress(address shared.Address) error {
	if !o.status.IsEditable() {
		return NewNotEditableError(o.id, o.status)
	}
	if address.IsZero() {
		return shared.NewValidationError("order", "billing_address", "is required")
	}
	o.billingAddress = address
	o.lastModifiedAt = time.Now()
	return nil
}

// replaceItems recomputes the total for items and commits both only when
// the total could be computed.
func (o *Order) replaceItems(items []OrderItem) error {
	total, err := sumSubtotals(items, o.totalAmount.Currency())
	if err != nil {
		return err
	}
	o.items = items
	o.totalAmount = total
	o.lastModifiedAt = time.Now()
	return nil
}

// sumSubtotals totals in the currency of the first item. Lines in another
// currency make the sum fail.
func sumSubtotals(items []OrderItem, emptyCurrency string) (shared.Money, error) {
	if len(items) == 0 {
		return shared.Zero(emptyCurrency), nil
	}
	total := shared.Zero(items[0].unitPrice.Currency())
	for _, item := range items {
		var err error
		if total, err = total.Add(item.Subtotal()); err != nil {
			return shared.Money{}, err
		}
	}
	return total, nil
}

func (o *Order) indexOfItem(itemID string) int {
	for i, item := range o.items {
		if item.id == itemID {
			return i
		}
	}
	return -1
}

func (o *Order) copyItems() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// ============================================================================
// State machine
// ============================================================================

// SubmitForPayment moves a filled order from CREATED to PENDING_PAYMENT.
func (o *Order) SubmitForPayment() error {
	if o.status != StatusCreated {
		return NewInvalidTransitionError(o.id, o.status, StatusPendingPayment)
	}
	if len(o.items) == 0 {
		return NewEmptyOrderError(o.id)
	}
	o.status = StatusPendingPayment
	o.lastModifiedAt = time.Now()
	return nil
}

// MarkAsPaid commits an editable order and records OrderPaidEvent.
func (o *Order) MarkAsPaid() error {
	return o.commit()
}

// Place commits the order once its stock has been reserved. It reads as
// PLACED in the reduced lifecycle view.
func (o *Order) Place() error {
	return o.commit()
}

func (o *Order) commit() error {
	if !o.status.IsEditable() {
		return NewInvalidTransitionError(o.id, o.status, StatusPaid)
	}
	if len(o.items) == 0 {
		return NewEmptyOrderError(o.id)
	}
	now := time.Now()
	o.status = StatusPaid
	o.paidAt = &now
	o.lastModifiedAt = now
	o.record(&OrderPaidEvent{OrderID: o.id, Amount: o.totalAmount, At: now})
	return nil
}

func (o *Order) StartProcessing() error {
	if o.status != StatusPaid {
		return NewInvalidTransitionError(o.id, o.status, StatusProcessing)
	}
	o.status = StatusProcessing
	o.lastModifiedAt = time.Now()
	return nil
}

func (o *Order) Cancel(reason string) error {
	if !o.status.IsCancellable() {
		return NewInvalidTransitionError(o.id, o.status, StatusCancelled)
	}
	now := time.Now()
	o.status = StatusCancelled
	o.cancelledAt = &now
	o.lastModifiedAt = now
	o.record(&OrderCancelledEvent{OrderID: o.id, Reason: reason, At: now})
	return nil
}

func (o *Order) MarkAsShipped() error {
	if !o.status.IsShippable() {
		return NewInvalidTransitionError(o.id, o.status, StatusShipped)
	}
	now := time.Now()
	o.status = StatusShipped
	o.shippedAt = &now
	o.lastModifiedAt = now
	o.record(&OrderShippedEvent{OrderID: o.id, At: now})
	return nil
}

func (o *Order) MarkAsDelivered() error {
	if o.status != StatusShipped {
		return NewInvalidTransitionError(o.id, o.status, StatusDelivered)
	}
	now := time.Now()
	o.status = StatusDelivered
	o.deliveredAt = &now
	o.lastModifiedAt = now
	o.record(&OrderDeliveredEvent{OrderID: o.id, At: now})
	return nil
}

func (o *Order) MarkAsReturned() error {
	if o.status != StatusDelivered {
		return NewInvalidTransitionError(o.id, o.status, StatusReturned)
	}
	o.status = StatusReturned
	o.lastModifiedAt = time.Now()
	return nil
}

// ============================================================================
// Events
// ============================================================================

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

// PullEvents returns and clears the pending events in recording order.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(o.events))
	for i, e := range o.events {
		events[i] = e
	}
	o.events = nil
	return events
}

// PendingEvents returns the buffered events without draining them.
func (o *Order) PendingEvents() []Event {
	events := make([]Event, len(o.events))
	copy(events, o.events)
	return events
}

// ============================================================================
// Persistence support
// ============================================================================

// IncrementVersion is called by repositories after a successful write.
func (o *Order) IncrementVersion() {
	o.version++
	o.isNew = false
}

func (o *Order) IsNew() bool { return o.isNew }

// Clone returns an independent deep copy, pending events included.
func (o *Order) Clone() *Order {
	c := *o
	c.items = o.copyItems()
	c.events = append([]Event(nil), o.events...)
	return &c
}

// Equals compares identity only.
func (o *Order) Equals(other *Order) bool {
	return other != nil && o.id == other.id
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string                      { return o.id }
func (o *Order) CustomerID() string              { return o.customerID }
func (o *Order) ShippingAddress() shared.Address { return o.shippingAddress }
func (o *Order) BillingAddress() shared.Address  { return o.billingAddress }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) TotalAmount() shared.Money       { return o.totalAmount }
func (o *Order) Version() int                    { return o.version }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) LastModifiedAt() time.Time       { return o.lastModifiedAt }
func (o *Order) PaidAt() *time.Time              { return o.paidAt }
func (o *Order) ShippedAt() *time.Time           { return o.shippedAt }
func (o *Order) DeliveredAt() *time.Time         { return o.deliveredAt }
func (o *Order) CancelledAt() *time.Time         { return o.cancelledAt }

// Items returns a copy in insertion order.
func (o *Order) Items() []OrderItem { return o.copyItems() }

func (o *Order) ItemCount() int { return len(o.items) }

func (item OrderItem) ID() string                { return item.id }
func (item OrderItem) ProductID() string         { return item.productID }
func (item OrderItem) ProductName() string       { return item.productName }
func (item OrderItem) UnitPrice() shared.Money   { return item.unitPrice }
func (item OrderItem) Quantity() shared.Quantity { return item.quantity }

// Subtotal is unit price times quantity.
func (item OrderItem) Subtotal() shared.Money {
	return item.unitPrice.Multiply(item.quantity.Value())
}

// ============================================================================
// Reconstruction (repositories only)
// ============================================================================

type ReconstructionDTO struct {
	ID              string
	CustomerID      string
	ShippingAddress shared.Address
	BillingAddress  shared.Address
	Status          Status
	Items           []OrderItem
	Currency        string
	Version         int
	CreatedAt       time.Time
	LastModifiedAt  time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// RebuildFromDTO restores a persisted order; the total is recomputed from
// the items rather than trusted from storage.
func RebuildFromDTO(dto ReconstructionDTO) (*Order, error) {
	currency := dto.Currency
	if currency == "" {
		currency = shared.DefaultCurrency
	}
	total, err := sumSubtotals(dto.Items, currency)
	if err != nil {
		return nil, err
	}
	return &Order{
		id:              dto.ID,
		customerID:      dto.CustomerID,
		shippingAddress: dto.ShippingAddress,
		billingAddress:  dto.BillingAddress,
		status:          dto.Status,
		items:           append([]OrderItem(nil), dto.Items...),
		totalAmount:     total,
		createdAt:       dto.CreatedAt,
		lastModifiedAt:  dto.LastModifiedAt,
		paidAt:          dto.PaidAt,
		shippedAt:       dto.ShippedAt,
		deliveredAt:     dto.DeliveredAt,
		cancelledAt:     dto.CancelledAt,
		version:         dto.Version,
	}, nil
}

type ItemReconstructionDTO struct {
	ID          string
	ProductID   string
	ProductName string
	UnitPrice   shared.Money
	Quantity    int
}

// RebuildItemFromDTO rejects a stored quantity that is not positive.
func RebuildItemFromDTO(dto ItemReconstructionDTO) (OrderItem, error) {
	if dto.Quantity <= 0 {
		return OrderItem{}, shared.NewValidationError("order_item", "quantity",
			"stored quantity must be positive, got "+strconv.Itoa(dto.Quantity))
	}
	quantity, err := shared.NewQuantity(dto.Quantity)
	if err != nil {
		return OrderItem{}, err
	}
	return OrderItem{
		id:          dto.ID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		unitPrice:   dto.UnitPrice,
		quantity:    quantity,
	}, nil
}

var _ shared.AggregateRoot = (*Order)(nil)
