package inventory

import (
	"context"
	"errors"

	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"go.uber.org/zap"
)

// Service works on durable product stock only; it never reads the
// reservation ledger.
type Service struct {
	products  product.Repository
	publisher shared.DomainEventPublisher
	log       *zap.Logger
}

// NewService wires the service. publisher may be nil, in which case
// OutOfStock events are not emitted. log may be nil.
func NewService(products product.Repository, publisher shared.DomainEventPublisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{products: products, publisher: publisher, log: log}
}

// CheckInventoryForOrder returns the ids of products that are missing or
// short for the order's lines, in line order. It does not change stock.
func (s *Service) CheckInventoryForOrder(ctx context.Context, o *order.Order) ([]string, error) {
	var shortages []string
	for _, item := range o.Items() {
		p, err := s.products.FindByID(ctx, item.ProductID())
		if errors.Is(err, shared.ErrNotFound) {
			shortages = append(shortages, item.ProductID())
			continue
		}
		if err != nil {
			return nil, err
		}
		if !p.HasEnoughStock(item.Quantity()) {
			shortages = append(shortages, item.ProductID())
			s.emit(ctx, product.NewOutOfStockEvent(p.ID(), item.Quantity().Value(), p.StockQuantity().Value()))
		}
	}
	return shortages, nil
}

// ReduceInventoryForOrder deducts every line from durable stock, or nothing
// at all when any line is short.
func (s *Service) ReduceInventoryForOrder(ctx context.Context, o *order.Order) error {
	shortages, err := s.CheckInventoryForOrder(ctx, o)
	if err != nil {
		return err
	}
	if len(shortages) > 0 {
		return order.NewStockUnavailableError(o.ID(), shortages)
	}

	items := o.Items()
	reduced := make([]*product.Product, 0, len(items))
	for _, item := range items {
		p, err := s.products.FindByID(ctx, item.ProductID())
		if err != nil {
			return err
		}
		if err := p.ReduceStock(item.Quantity()); err != nil {
			return err
		}
		reduced = append(reduced, p)
	}
	for _, p := range reduced {
		if err := s.products.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RestoreInventoryForOrder adds every line back to durable stock. Lines whose
// product no longer exists are skipped.
func (s *Service) RestoreInventoryForOrder(ctx context.Context, o *order.Order) error {
	for _, item := range o.Items() {
		p, err := s.products.FindByID(ctx, item.ProductID())
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		p.AddStock(item.Quantity())
		if err := s.products.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) IsStockBelowThreshold(p *product.Product, threshold int) bool {
	return p.StockQuantity().Value() < threshold
}

func (s *Service) emit(ctx context.Context, event shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish domain event",
			zap.String("event", event.EventName()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err))
	}
}
