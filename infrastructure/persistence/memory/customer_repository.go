package memory

import (
	"context"

	"ordercore/domain/customer"
	"ordercore/domain/shared"
)

type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Save(_ context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.customers[c.ID()]; ok && existing.Version() != c.Version() {
		return shared.NewStateConflictError("customer", "customer "+c.ID()+" was modified by another transaction")
	}
	c.IncrementVersion()
	r.store.customers[c.ID()] = c.Clone()
	return nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id string) (*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.customers[id]
	if !ok {
		return nil, customer.NewCustomerNotFoundError(id)
	}
	return c.Clone(), nil
}

func (r *CustomerRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.customers[id]; !ok {
		return customer.NewCustomerNotFoundError(id)
	}
	delete(r.store.customers, id)
	return nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
