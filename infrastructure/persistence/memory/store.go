/*
Package memory provides in-process implementations of the repositories, the
unit of work and the reservation store.

Repositories keep clones, so an aggregate mutated by a caller is never
visible to others until it is saved. A UnitOfWork serializes use cases
against the Store and puts the previous tables back when the use case
fails.
*/
package memory

import (
	"sync"

	"ordercore/domain/customer"
	"ordercore/domain/order"
	"ordercore/domain/product"
)

// Store holds every table of the in-memory database.
type Store struct {
	// txMu is held for the whole of a UnitOfWork.Execute
	txMu sync.Mutex

	mu        sync.RWMutex
	orders    map[string]*order.Order
	products  map[string]*product.Product
	customers map[string]*customer.Customer
}

func NewStore() *Store {
	return &Store{
		orders:    make(map[string]*order.Order),
		products:  make(map[string]*product.Product),
		customers: make(map[string]*customer.Customer),
	}
}

type tables struct {
	orders    map[string]*order.Order
	products  map[string]*product.Product
	customers map[string]*customer.Customer
}

// snapshot copies the maps; stored values are never mutated in place, so
// sharing the pointers is safe.
func (s *Store) snapshot() tables {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := tables{
		orders:    make(map[string]*order.Order, len(s.orders)),
		products:  make(map[string]*product.Product, len(s.products)),
		customers: make(map[string]*customer.Customer, len(s.customers)),
	}
	for k, v := range s.orders {
		t.orders[k] = v
	}
	for k, v := range s.products {
		t.products[k] = v
	}
	for k, v := range s.customers {
		t.customers[k] = v
	}
	return t
}

func (s *Store) restore(t tables) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = t.orders
	s.products = t.products
	s.customers = t.customers
}
