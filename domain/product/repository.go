package product

import "context"

// Repository persists Product entities.
type Repository interface {
	// Save creates or updates the product
	Save(ctx context.Context, p *Product) error

	// FindByID returns a NotFound domain error when the id is unknown
	FindByID(ctx context.Context, id string) (*Product, error)

	FindAll(ctx context.Context) ([]*Product, error)

	Delete(ctx context.Context, id string) error
}
