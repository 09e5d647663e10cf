package order

import (
	"context"

	"ordercore/domain/shared"
)

// Repository persists Order aggregates together with their items.
// Implementations never publish events; drained events go through the
// unit of work.
type Repository interface {
	// Save creates or updates the order. Stores with optimistic locking
	// return a concurrent-modification error on a stale version.
	Save(ctx context.Context, o *Order) error

	// FindByID returns a NotFound domain error when the id is unknown
	FindByID(ctx context.Context, id string) (*Order, error)

	FindByCustomerID(ctx context.Context, customerID string) ([]*Order, error)

	FindByStatus(ctx context.Context, status Status) ([]*Order, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)

	Delete(ctx context.Context, id string) error
}
