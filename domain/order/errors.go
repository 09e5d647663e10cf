/*
Package order error definitions.

Every constructor returns a *shared.DomainError whose kind is one of
shared.ErrValidation, shared.ErrNotFound or shared.ErrStateConflict and
whose reason is one of the sentinels below, so both levels work with
errors.Is.
*/
package order

import (
	"errors"

	"ordercore/domain/shared"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrItemNotFound           = errors.New("order item not found")
	ErrOrderNotEditable       = errors.New("order is not editable")
	ErrInvalidOrderState      = errors.New("invalid order state transition")
	ErrLastItem               = errors.New("order must have at least one item")
	ErrEmptyOrder             = errors.New("order has no items")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")
	ErrStockUnavailable       = errors.New("stock unavailable for order")
)

func NewOrderNotFoundError(orderID string) error {
	return shared.NewDomainError(shared.ErrNotFound, ErrOrderNotFound, "order", "", "order not found: "+orderID)
}

func NewItemNotFoundError(orderID, itemID string) error {
	return shared.NewDomainError(shared.ErrNotFound, ErrItemNotFound, "order_item", "",
		"order "+orderID+" has no item "+itemID)
}

func NewNotEditableError(orderID string, status Status) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrOrderNotEditable, "order", "status",
		"order "+orderID+" cannot be modified in status "+string(status))
}

func NewInvalidTransitionError(orderID string, from, to Status) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrInvalidOrderState, "order", "status",
		"order "+orderID+": cannot transition from "+string(from)+" to "+string(to))
}

func NewLastItemError(orderID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrLastItem, "order", "items",
		"order "+orderID+": order must have at least one item")
}

func NewEmptyOrderError(orderID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrEmptyOrder, "order", "items",
		"order "+orderID+" has no items")
}

func NewInvalidQuantityError(field string) error {
	return shared.NewDomainError(shared.ErrValidation, ErrInvalidQuantity, "order_item", field, "quantity must be positive")
}

func NewConcurrentModificationError(orderID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrConcurrentModification, "order", "version",
		"order "+orderID+" was modified by another transaction, please retry")
}

// NewStockUnavailableError lists the product ids that could not be covered.
func NewStockUnavailableError(orderID string, productIDs []string) error {
	msg := "insufficient stock for order " + orderID + ": "
	for i, id := range productIDs {
		if i > 0 {
			msg += ", "
		}
		msg += id
	}
	return shared.NewDomainError(shared.ErrStateConflict, ErrStockUnavailable, "order", "items", msg)
}
