package product

import (
	"errors"
	"fmt"

	"ordercore/domain/shared"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidPrice           = errors.New("price must be positive")
	ErrProductInactive        = errors.New("product is not active")
	ErrConcurrentModification = errors.New("product was modified by another transaction, please retry")
)

func NewProductNotFoundError(productID string) error {
	return shared.NewDomainError(shared.ErrNotFound, ErrProductNotFound, "product", "", "product not found: "+productID)
}

func NewInsufficientStockError(productID string, available, requested int) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrInsufficientStock, "product", "stock_quantity",
		fmt.Sprintf("product %s has %d in stock, %d requested", productID, available, requested))
}

func NewProductInactiveError(productID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrProductInactive, "product", "active",
		"product "+productID+" is not active")
}

func NewConcurrentModificationError(productID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrConcurrentModification, "product", "version",
		"product "+productID+" was modified by another transaction, please retry")
}

func newValidationError(field, reason string, cause error) error {
	return shared.NewDomainError(shared.ErrValidation, cause, "product", field, "product."+field+": "+reason)
}
