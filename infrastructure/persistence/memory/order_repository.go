package memory

import (
	"context"
	"sort"

	"ordercore/domain/order"
	"ordercore/domain/shared"
)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Save stores a snapshot of o. A stored order whose version differs from
// o's means someone else saved in between.
func (r *OrderRepository) Save(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.orders[o.ID()]; ok && existing.Version() != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}

	o.IncrementVersion()
	stored := o.Clone()
	stored.PullEvents()
	r.store.orders[o.ID()] = stored
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return o.Clone(), nil
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByStatusSpecification(status))
}

// FindBySpecification returns matches oldest first.
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	orders := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if spec.IsSatisfiedBy(ctx, o) {
			orders = append(orders, o.Clone())
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() < orders[j].ID()
		}
		return orders[i].CreatedAt().Before(orders[j].CreatedAt())
	})
	return orders, nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[id]; !ok {
		return order.NewOrderNotFoundError(id)
	}
	delete(r.store.orders, id)
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
