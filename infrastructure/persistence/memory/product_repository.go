package memory

import (
	"context"
	"sort"

	"ordercore/domain/product"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Save(_ context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.products[p.ID()]; ok && existing.Version() != p.Version() {
		return product.NewConcurrentModificationError(p.ID())
	}
	p.IncrementVersion()
	r.store.products[p.ID()] = p.Clone()
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, product.NewProductNotFoundError(id)
	}
	return p.Clone(), nil
}

// FindAll orders by name.
func (r *ProductRepository) FindAll(_ context.Context) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]*product.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		products = append(products, p.Clone())
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name() == products[j].Name() {
			return products[i].ID() < products[j].ID()
		}
		return products[i].Name() < products[j].Name()
	})
	return products, nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return product.NewProductNotFoundError(id)
	}
	delete(r.store.products, id)
	return nil
}

var _ product.Repository = (*ProductRepository)(nil)
