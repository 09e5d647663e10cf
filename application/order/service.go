/*
Package order orchestrates the order use cases.

Each use case loads aggregates, calls their behaviour and saves them inside
one unit of work. Events are never published here; the unit of work drains
the registered aggregates once the work is committed. Notifications are sent
after the unit of work succeeds, except the stock shortage alert, which is
raised at the moment the shortage is detected.

Stock is deducted on one of two paths. PlaceOrder reserves every line on
the ledger and confirms the reservations once the order is committed.
PayOrder checks and reduces durable stock directly. Both move the order to
PAID, so an order can only ever go through one of them.
*/
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordercore/application"
	"ordercore/domain/customer"
	"ordercore/domain/discount"
	"ordercore/domain/inventory"
	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "ordercore/application/order"

// Dependencies lists the collaborators of ApplicationService. Tracer and
// Logger are optional.
type Dependencies struct {
	Orders            order.Repository
	Products          product.Repository
	Customers         customer.Repository
	Ledger            *inventory.Ledger
	Inventory         *inventory.Service
	Discounts         *discount.Service
	UnitOfWork        shared.UnitOfWorkFactory
	Notifier          NotificationService
	LowStockThreshold int
	Tracer            trace.Tracer
	Logger            *zap.Logger
}

type ApplicationService struct {
	orders            order.Repository
	products          product.Repository
	customers         customer.Repository
	ledger            *inventory.Ledger
	inventory         *inventory.Service
	discounts         *discount.Service
	orderDomain       *order.DomainService
	uows              shared.UnitOfWorkFactory
	notifier          NotificationService
	lowStockThreshold int
	tracer            trace.Tracer
	log               *zap.Logger
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ApplicationService{
		orders:            deps.Orders,
		products:          deps.Products,
		customers:         deps.Customers,
		ledger:            deps.Ledger,
		inventory:         deps.Inventory,
		discounts:         deps.Discounts,
		orderDomain:       order.NewDomainService(),
		uows:              deps.UnitOfWork,
		notifier:          deps.Notifier,
		lowStockThreshold: deps.LowStockThreshold,
		tracer:            tracer,
		log:               log.Named("order"),
	}
}

func (s *ApplicationService) run(ctx context.Context, name string, fn func(ctx context.Context, uow shared.UnitOfWork) error) error {
	return application.Run(ctx, s.tracer, s.uows, "order."+name, fn)
}

// ============================================================================
// Creation and editing
// ============================================================================

// CreateOrder opens an empty order for an active customer.
func (s *ApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	shipping, err := toAddress(req.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billing, err := toAddress(req.BillingAddress)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	err = s.run(ctx, "CreateOrder", func(ctx context.Context, uow shared.UnitOfWork) error {
		c, err := s.customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if !c.CanPlaceOrder() {
			return customer.NewCustomerInactiveError(c.ID())
		}

		if o, err = order.NewOrder(c.ID(), shipping, billing); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// AddOrderItem adds a product line at the product's current price. The
// product must be active and have enough unreserved stock; a shortage
// raises an alert before the use case fails.
func (s *ApplicationService) AddOrderItem(ctx context.Context, orderID string, req AddItemRequest) (*OrderResponse, error) {
	quantity, err := shared.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, "AddOrderItem", orderID, func(ctx context.Context, o *order.Order) error {
		p, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !p.IsActive() {
			return product.NewProductInactiveError(p.ID())
		}

		enough, err := s.ledger.HasEnoughStock(ctx, p.ID(), quantity)
		if err != nil {
			return err
		}
		if !enough {
			s.notifier.SendStockShortageAlert(ctx, p, quantity.Value())
			available, err := s.ledger.Available(ctx, p.ID())
			if err != nil {
				return err
			}
			return product.NewInsufficientStockError(p.ID(), available, quantity.Value())
		}

		return o.AddItem(p.ID(), p.Name(), p.Price(), quantity)
	})
}

func (s *ApplicationService) RemoveOrderItem(ctx context.Context, orderID, itemID string) (*OrderResponse, error) {
	return s.mutate(ctx, "RemoveOrderItem", orderID, func(_ context.Context, o *order.Order) error {
		return o.RemoveItem(itemID)
	})
}

func (s *ApplicationService) UpdateOrderItemQuantity(ctx context.Context, orderID, itemID string, req UpdateItemQuantityRequest) (*OrderResponse, error) {
	quantity, err := shared.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "UpdateOrderItemQuantity", orderID, func(_ context.Context, o *order.Order) error {
		return o.UpdateItemQuantity(itemID, quantity)
	})
}

func (s *ApplicationService) UpdateShippingAddress(ctx context.Context, orderID string, req AddressRequest) (*OrderResponse, error) {
	address, err := toAddress(req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "UpdateShippingAddress", orderID, func(_ context.Context, o *order.Order) error {
		return o.UpdateShippingAddress(address)
	})
}

func (s *ApplicationService) UpdateBillingAddress(ctx context.Context, orderID string, req AddressRequest) (*OrderResponse, error) {
	address, err := toAddress(req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "UpdateBillingAddress", orderID, func(_ context.Context, o *order.Order) error {
		return o.UpdateBillingAddress(address)
	})
}

// ============================================================================
// Lifecycle
// ============================================================================

func (s *ApplicationService) SubmitOrderForPayment(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "SubmitOrderForPayment", orderID, func(_ context.Context, o *order.Order) error {
		return o.SubmitForPayment()
	})
}

// PlaceOrder reserves stock for every line, commits the order and turns the
// reservations into durable deductions. When any line cannot be reserved,
// the reservations taken so far are released and nothing changes.
func (s *ApplicationService) PlaceOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	var o *order.Order
	err := s.run(ctx, "PlaceOrder", func(ctx context.Context, uow shared.UnitOfWork) error {
		var err error
		if o, err = s.orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		if !o.Status().IsEditable() {
			return order.NewInvalidTransitionError(o.ID(), o.Status(), order.StatusPaid)
		}
		if o.ItemCount() == 0 {
			return order.NewEmptyOrderError(o.ID())
		}

		items := o.Items()
		if err := s.reserveAll(ctx, o.ID(), items); err != nil {
			return err
		}

		if err := o.Place(); err != nil {
			s.releaseAll(ctx, items)
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			s.releaseAll(ctx, items)
			return err
		}

		for i, item := range items {
			if err := s.ledger.ConfirmStockReduction(ctx, item.ProductID(), item.Quantity()); err != nil {
				s.releaseAll(ctx, items[i+1:])
				return fmt.Errorf("confirm stock of %s: %w", item.ProductID(), err)
			}
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendOrderConfirmation(ctx, o)
	s.notifyLowStock(ctx, o.Items())
	return toOrderResponse(o), nil
}

func (s *ApplicationService) reserveAll(ctx context.Context, orderID string, items []order.OrderItem) error {
	for i, item := range items {
		ok, err := s.ledger.ReserveStock(ctx, item.ProductID(), item.Quantity())
		if err != nil {
			s.releaseAll(ctx, items[:i])
			return err
		}
		if !ok {
			s.releaseAll(ctx, items[:i])
			s.alertShortage(ctx, item)
			return order.NewStockUnavailableError(orderID, []string{item.ProductID()})
		}
	}
	return nil
}

func (s *ApplicationService) releaseAll(ctx context.Context, items []order.OrderItem) {
	for _, item := range items {
		if err := s.ledger.ReleaseStock(ctx, item.ProductID(), item.Quantity()); err != nil {
			s.log.Error("failed to release reservation",
				zap.String("product_id", item.ProductID()),
				zap.Int("quantity", item.Quantity().Value()),
				zap.Error(err))
		}
	}
}

func (s *ApplicationService) alertShortage(ctx context.Context, item order.OrderItem) {
	p, err := s.products.FindByID(ctx, item.ProductID())
	if err != nil {
		s.log.Warn("shortage on unknown product", zap.String("product_id", item.ProductID()), zap.Error(err))
		return
	}
	s.notifier.SendStockShortageAlert(ctx, p, item.Quantity().Value())
}

func (s *ApplicationService) notifyLowStock(ctx context.Context, items []order.OrderItem) {
	for _, item := range items {
		p, err := s.products.FindByID(ctx, item.ProductID())
		if err != nil {
			continue
		}
		if s.inventory.IsStockBelowThreshold(p, s.lowStockThreshold) {
			s.notifier.SendLowStockNotification(ctx, p, s.lowStockThreshold)
		}
	}
}

// PayOrder checks durable stock, works out the discount the customer
// qualifies for, deducts the stock and marks the order paid.
func (s *ApplicationService) PayOrder(ctx context.Context, orderID string) (*PaymentResponse, error) {
	var (
		o      *order.Order
		amount shared.Money
	)
	err := s.run(ctx, "PayOrder", func(ctx context.Context, uow shared.UnitOfWork) error {
		var err error
		if o, err = s.orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		c, err := s.customers.FindByID(ctx, o.CustomerID())
		if err != nil {
			return err
		}
		if !o.Status().IsEditable() {
			return order.NewInvalidTransitionError(o.ID(), o.Status(), order.StatusPaid)
		}
		if o.ItemCount() == 0 {
			return order.NewEmptyOrderError(o.ID())
		}

		shortages, err := s.inventory.CheckInventoryForOrder(ctx, o)
		if err != nil {
			return err
		}
		if len(shortages) > 0 {
			return order.NewStockUnavailableError(o.ID(), shortages)
		}

		if amount, err = s.discounts.CalculateDiscount(o, c); err != nil {
			return err
		}
		s.log.Info("discount computed",
			zap.String("order_id", o.ID()),
			zap.String("customer_id", c.ID()),
			zap.Stringer("total", o.TotalAmount()),
			zap.Stringer("discount", amount))

		if err := s.inventory.ReduceInventoryForOrder(ctx, o); err != nil {
			return err
		}
		if err := o.MarkAsPaid(); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendOrderConfirmation(ctx, o)
	s.notifyLowStock(ctx, o.Items())
	return &PaymentResponse{Order: toOrderResponse(o), Discount: toMoneyResponse(amount)}, nil
}

// CancelOrder cancels the order and, when its stock had already been
// deducted, puts that stock back.
func (s *ApplicationService) CancelOrder(ctx context.Context, orderID string, req CancelOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, "CancelOrder", orderID, func(ctx context.Context, o *order.Order) error {
		prior := o.Status()
		if err := o.Cancel(req.Reason); err != nil {
			return err
		}
		if prior == order.StatusPaid || prior == order.StatusProcessing {
			return s.inventory.RestoreInventoryForOrder(ctx, o)
		}
		return nil
	})
}

func (s *ApplicationService) StartProcessing(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "StartProcessing", orderID, func(_ context.Context, o *order.Order) error {
		return o.StartProcessing()
	})
}

func (s *ApplicationService) ShipOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "ShipOrder", orderID, func(_ context.Context, o *order.Order) error {
		return o.MarkAsShipped()
	})
}

func (s *ApplicationService) DeliverOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "DeliverOrder", orderID, func(_ context.Context, o *order.Order) error {
		return o.MarkAsDelivered()
	})
}

func (s *ApplicationService) ReturnOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return s.mutate(ctx, "ReturnOrder", orderID, func(_ context.Context, o *order.Order) error {
		return o.MarkAsReturned()
	})
}

// CancelExpiredOrders cancels CREATED orders older than maxAge and returns
// the ids it cancelled. Each order is cancelled in its own unit of work.
func (s *ApplicationService) CancelExpiredOrders(ctx context.Context, maxAge time.Duration) ([]string, error) {
	candidates, err := s.orders.FindByStatus(ctx, order.StatusCreated)
	if err != nil {
		return nil, err
	}

	hours := int(maxAge / time.Hour)
	now := time.Now()
	var cancelled []string
	for _, o := range candidates {
		if !s.orderDomain.IsOrderExpired(o, hours, now) {
			continue
		}
		if _, err := s.CancelOrder(ctx, o.ID(), CancelOrderRequest{Reason: "expired"}); err != nil {
			if errors.Is(err, shared.ErrStateConflict) {
				continue
			}
			return cancelled, err
		}
		cancelled = append(cancelled, o.ID())
	}
	return cancelled, nil
}

// DeleteOrder removes an order that is not in flight. Placed orders that
// have not reached a final state must be cancelled first.
func (s *ApplicationService) DeleteOrder(ctx context.Context, orderID string) error {
	return s.run(ctx, "DeleteOrder", func(ctx context.Context, uow shared.UnitOfWork) error {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status().Reduced() == order.ReducedPlaced {
			return shared.NewStateConflictError("order",
				"order "+o.ID()+" is "+o.Status().String()+" and cannot be deleted")
		}
		if err := s.orders.Delete(ctx, o.ID()); err != nil {
			return err
		}
		uow.RegisterRemoved(o)
		return nil
	})
}

// mutate loads the order, applies fn and saves it in one unit of work.
func (s *ApplicationService) mutate(ctx context.Context, name, orderID string, fn func(ctx context.Context, o *order.Order) error) (*OrderResponse, error) {
	var o *order.Order
	err := s.run(ctx, name, func(ctx context.Context, uow shared.UnitOfWork) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("order.id", orderID))

		var err error
		if o, err = s.orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		if err := fn(ctx, o); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ============================================================================
// Queries
// ============================================================================

func (s *ApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	return application.Query(ctx, s.tracer, "order.GetOrder", func(ctx context.Context) (*OrderResponse, error) {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return toOrderResponse(o), nil
	})
}

// SearchOrders returns the orders matching every filter set in req, oldest
// first.
func (s *ApplicationService) SearchOrders(ctx context.Context, req OrderSearchRequest) ([]*OrderResponse, error) {
	spec, err := searchSpecification(req)
	if err != nil {
		return nil, err
	}
	return application.Query(ctx, s.tracer, "order.SearchOrders", func(ctx context.Context) ([]*OrderResponse, error) {
		orders, err := s.orders.FindBySpecification(ctx, spec)
		if err != nil {
			return nil, err
		}
		return toOrderResponses(orders), nil
	})
}

func searchSpecification(req OrderSearchRequest) (shared.Specification[*order.Order], error) {
	var specs []shared.Specification[*order.Order]
	if req.CustomerID != "" {
		specs = append(specs, order.NewByCustomerIDSpecification(req.CustomerID))
	}
	if req.Status != "" {
		st, err := order.ParseStatus(req.Status)
		if err != nil {
			return nil, shared.NewValidationError("order", "status", err.Error())
		}
		specs = append(specs, order.NewByStatusSpecification(st))
	}
	if req.ProductID != "" {
		specs = append(specs, order.NewContainsProductSpecification(req.ProductID))
	}
	if !req.CreatedAfter.IsZero() || !req.CreatedBefore.IsZero() {
		if !req.CreatedAfter.IsZero() && !req.CreatedBefore.IsZero() && req.CreatedBefore.Before(req.CreatedAfter) {
			return nil, shared.NewValidationError("order", "created_at", "to must not be before from")
		}
		specs = append(specs, order.NewByDateRangeSpecification(req.CreatedAfter, req.CreatedBefore))
	}
	if len(specs) == 0 {
		return nil, shared.NewValidationError("order", "search", "at least one filter is required")
	}

	spec := specs[0]
	for _, next := range specs[1:] {
		spec = shared.And(spec, next)
	}
	return spec, nil
}

// QuoteDiscount shows the discount the order would get if paid now.
func (s *ApplicationService) QuoteDiscount(ctx context.Context, orderID string) (*DiscountResponse, error) {
	return application.Query(ctx, s.tracer, "order.QuoteDiscount", func(ctx context.Context) (*DiscountResponse, error) {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		c, err := s.customers.FindByID(ctx, o.CustomerID())
		if err != nil {
			return nil, err
		}
		b, err := s.discounts.Breakdown(o, c)
		if err != nil {
			return nil, err
		}
		return toDiscountResponse(o.ID(), b), nil
	})
}

// QuoteTax applies rate, a decimal such as "0.10", to the order total.
func (s *ApplicationService) QuoteTax(ctx context.Context, orderID, rate string) (*TaxResponse, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, shared.NewValidationError("order", "tax_rate", "not a decimal number: "+rate)
	}
	return application.Query(ctx, s.tracer, "order.QuoteTax", func(ctx context.Context) (*TaxResponse, error) {
		o, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		tax, err := s.orderDomain.CalculateTax(o, r)
		if err != nil {
			return nil, err
		}
		return &TaxResponse{OrderID: o.ID(), Rate: r.String(), Tax: toMoneyResponse(tax)}, nil
	})
}
