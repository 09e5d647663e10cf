/*
Package inventory coordinates product stock with orders.

Two deduction paths exist side by side. The Ledger holds tentative
reservations for orders being placed and turns them into durable
deductions with ConfirmStockReduction. The Service checks and reduces
durable stock directly when an order is paid. They are not reconciled
with each other; the order status keeps one order from going through
both.
*/
package inventory

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/product"
	"ordercore/domain/shared"
)

// ReservationStore is a key to counter map shared by every order placement
// in the process (or cluster). Each method must be a single indivisible
// read-modify-write for its product id.
type ReservationStore interface {
	// TryReserve adds quantity to the reservation of productID only when
	// the new total stays within limit, and reports whether it did.
	TryReserve(ctx context.Context, productID string, quantity, limit int) (bool, error)

	// Release subtracts quantity, flooring the reservation at zero.
	Release(ctx context.Context, productID string, quantity int) error

	Reserved(ctx context.Context, productID string) (int, error)
}

// Ledger tracks stock tentatively committed to in-flight orders, separate
// from the durable stock count on the product.
type Ledger struct {
	products product.Repository
	store    ReservationStore
}

func NewLedger(products product.Repository, store ReservationStore) *Ledger {
	return &Ledger{products: products, store: store}
}

// Available is the durable stock minus what is currently reserved. It can
// be negative after stock was reduced outside the ledger.
func (l *Ledger) Available(ctx context.Context, productID string) (int, error) {
	p, err := l.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	reserved, err := l.store.Reserved(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("read reservation of %s: %w", productID, err)
	}
	return p.StockQuantity().Value() - reserved, nil
}

// HasEnoughStock reports whether quantity could be reserved right now.
// An unknown product never has enough stock.
func (l *Ledger) HasEnoughStock(ctx context.Context, productID string, quantity shared.Quantity) (bool, error) {
	available, err := l.Available(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return available >= quantity.Value(), nil
}

// ReserveStock holds quantity for an order. The availability check and the
// increment happen inside the store as one step.
func (l *Ledger) ReserveStock(ctx context.Context, productID string, quantity shared.Quantity) (bool, error) {
	p, err := l.products.FindByID(ctx, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ok, err := l.store.TryReserve(ctx, productID, quantity.Value(), p.StockQuantity().Value())
	if err != nil {
		return false, fmt.Errorf("reserve %d of %s: %w", quantity.Value(), productID, err)
	}
	return ok, nil
}

// ReleaseStock never fails on over-release; the reservation stops at zero.
func (l *Ledger) ReleaseStock(ctx context.Context, productID string, quantity shared.Quantity) error {
	if err := l.store.Release(ctx, productID, quantity.Value()); err != nil {
		return fmt.Errorf("release %d of %s: %w", quantity.Value(), productID, err)
	}
	return nil
}

// ConfirmStockReduction turns a reservation into a durable deduction. The
// reservation is released first, so a failed deduction leaves nothing held.
func (l *Ledger) ConfirmStockReduction(ctx context.Context, productID string, quantity shared.Quantity) error {
	if err := l.ReleaseStock(ctx, productID, quantity); err != nil {
		return err
	}
	p, err := l.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := p.ReduceStock(quantity); err != nil {
		return err
	}
	return l.products.Save(ctx, p)
}
