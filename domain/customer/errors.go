package customer

import (
	"errors"

	"ordercore/domain/shared"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer is not active")
	ErrInvalidEmail     = errors.New("invalid email format")
)

func NewCustomerNotFoundError(customerID string) error {
	return shared.NewDomainError(shared.ErrNotFound, ErrCustomerNotFound, "customer", "", "customer not found: "+customerID)
}

func NewCustomerInactiveError(customerID string) error {
	return shared.NewDomainError(shared.ErrStateConflict, ErrCustomerInactive, "customer", "active",
		"customer "+customerID+" is not active")
}
