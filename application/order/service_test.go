package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"ordercore/domain/customer"
	"ordercore/domain/discount"
	"ordercore/domain/inventory"
	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []string
	shortages     map[string]int
	lowStock      []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{shortages: make(map[string]int)}
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, o *order.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, o.ID())
}

func (n *recordingNotifier) SendStockShortageAlert(_ context.Context, p *product.Product, required int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shortages[p.ID()] = required
}

func (n *recordingNotifier) SendLowStockNotification(_ context.Context, p *product.Product, _ int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lowStock = append(n.lowStock, p.ID())
}

type testEnv struct {
	svc          *ApplicationService
	products     *memory.ProductRepository
	customers    *memory.CustomerRepository
	reservations *memory.ReservationStore
	ledger       *inventory.Ledger
	notifier     *recordingNotifier
	spans        *tracetest.SpanRecorder

	mu     sync.Mutex
	events []string
}

var december = func() time.Time { return time.Date(2024, time.December, 10, 9, 0, 0, 0, time.UTC) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	bus := shared.NewEventBus()
	products := memory.NewProductRepository(store)
	reservations := memory.NewReservationStore()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	env := &testEnv{
		products:     products,
		customers:    memory.NewCustomerRepository(store),
		reservations: reservations,
		ledger:       inventory.NewLedger(products, reservations),
		notifier:     newRecordingNotifier(),
		spans:        spans,
	}
	for _, name := range []string{order.EventCreated, order.EventItemAdded, order.EventPaid, order.EventCancelled, order.EventShipped, order.EventDelivered} {
		require.NoError(t, bus.Subscribe(name, shared.NewFuncHandler("recorder", func(_ context.Context, e shared.DomainEvent) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.events = append(env.events, e.EventName())
			return nil
		})))
	}

	env.svc = NewApplicationService(Dependencies{
		Orders:            memory.NewOrderRepository(store),
		Products:          products,
		Customers:         env.customers,
		Ledger:            env.ledger,
		Inventory:         inventory.NewService(products, bus, nil),
		Discounts:         discount.NewService(december),
		UnitOfWork:        memory.NewUnitOfWorkFactory(store, bus, nil),
		Notifier:          env.notifier,
		LowStockThreshold: 5,
		Tracer:            tp.Tracer("test"),
	})
	return env
}

func (e *testEnv) addProduct(t *testing.T, price string, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct("Product "+price, "desc", shared.MustMoney(price, "JPY"), shared.MustQuantity(stock))
	require.NoError(t, err)
	require.NoError(t, e.products.Save(context.Background(), p))
	return p
}

func (e *testEnv) addCustomer(t *testing.T, registeredAt time.Time, active bool) string {
	t.Helper()
	c := customer.RebuildFromDTO(customer.ReconstructionDTO{
		ID:           "customer-" + registeredAt.Format("20060102150405.000000000"),
		FirstName:    "Taro",
		LastName:     "Suzuki",
		Email:        "taro@example.com",
		Active:       active,
		RegisteredAt: registeredAt,
	})
	require.NoError(t, e.customers.Save(context.Background(), c))
	return c.ID()
}

func (e *testEnv) stockOf(t *testing.T, productID string) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity().Value()
}

func (e *testEnv) reservedOf(t *testing.T, productID string) int {
	t.Helper()
	n, err := e.reservations.Reserved(context.Background(), productID)
	require.NoError(t, err)
	return n
}

func (e *testEnv) publishedEvents() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

func address() AddressRequest {
	return AddressRequest{Street: "1-1 Chiyoda", City: "Chiyoda", State: "Tokyo", ZipCode: "100-0001", Country: "JP"}
}

func (e *testEnv) createOrder(t *testing.T, customerID string) *OrderResponse {
	t.Helper()
	resp, err := e.svc.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID:      customerID,
		ShippingAddress: address(),
		BillingAddress:  address(),
	})
	require.NoError(t, err)
	return resp
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "1000", 10)
	customerID := env.addCustomer(t, time.Now(), true)

	created := env.createOrder(t, customerID)
	assert.Equal(t, "CREATED", created.Status)
	assert.Equal(t, "0.00", created.TotalAmount.Amount)

	withItem, err := env.svc.AddOrderItem(ctx, created.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "2000.00", withItem.TotalAmount.Amount)
	assert.Equal(t, "JPY", withItem.TotalAmount.Currency)

	placed, err := env.svc.PlaceOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", placed.Status)
	assert.Equal(t, "PLACED", placed.ReducedStatus)
	assert.NotNil(t, placed.PaidAt)

	assert.Equal(t, 8, env.stockOf(t, a.ID()))
	assert.Zero(t, env.reservedOf(t, a.ID()))
	assert.Equal(t, []string{created.ID}, env.notifier.confirmations)
	assert.Empty(t, env.notifier.lowStock, "8 is not below 5")
	assert.Equal(t, []string{order.EventCreated, order.EventItemAdded, order.EventPaid}, env.publishedEvents())
}

func TestPlaceOrderReleasesReservationsOnShortage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 5)
	b := env.addProduct(t, "200", 1)
	customerID := env.addCustomer(t, time.Now(), true)

	o := env.createOrder(t, customerID)
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	_, err = env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: b.ID(), Quantity: 1})
	require.NoError(t, err)

	// another order holds the last unit of b
	ok, err := env.ledger.ReserveStock(ctx, b.ID(), shared.MustQuantity(1))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = env.svc.PlaceOrder(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	assert.ErrorIs(t, err, order.ErrStockUnavailable)

	assert.Zero(t, env.reservedOf(t, a.ID()), "reservation of a is released")
	assert.Equal(t, 1, env.reservedOf(t, b.ID()))
	assert.Equal(t, 5, env.stockOf(t, a.ID()))
	assert.Equal(t, 1, env.notifier.shortages[b.ID()])

	current, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "CREATED", current.Status)
	assert.Empty(t, env.notifier.confirmations)
}

func TestPlaceOrderSendsLowStockNotification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 6)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)

	_, err = env.svc.PlaceOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID()}, env.notifier.lowStock)
}

func TestPlaceEmptyOrderFails(t *testing.T) {
	env := newTestEnv(t)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))

	_, err := env.svc.PlaceOrder(context.Background(), o.ID)
	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestAddOrderItemRejectsShortage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 1)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))

	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Equal(t, 2, env.notifier.shortages[a.ID()])

	current, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Items)
}

func TestAddOrderItemLookups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))

	_, err := env.svc.AddOrderItem(ctx, "missing", AddItemRequest{ProductID: a.ID(), Quantity: 1})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: -1})
	assert.ErrorIs(t, err, shared.ErrValidation)

	inactive, err := env.products.FindByID(ctx, a.ID())
	require.NoError(t, err)
	inactive.Deactivate()
	require.NoError(t, env.products.Save(ctx, inactive))
	_, err = env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	assert.ErrorIs(t, err, product.ErrProductInactive)
}

func TestAddOrderItemMergesLines(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))

	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	resp, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 3})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, "500.00", resp.TotalAmount.Amount)
}

func TestCreateOrderChecksCustomer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	inactive := env.addCustomer(t, time.Now(), false)

	_, err := env.svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: "nobody", ShippingAddress: address(), BillingAddress: address()})
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	_, err = env.svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: inactive, ShippingAddress: address(), BillingAddress: address()})
	assert.ErrorIs(t, err, customer.ErrCustomerInactive)

	_, err = env.svc.CreateOrder(ctx, CreateOrderRequest{CustomerID: inactive, ShippingAddress: address()})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestPayOrderComputesDiscountAndReducesStock(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "3000", 10)
	customerID := env.addCustomer(t, december().AddDate(-2, 0, 0), true)
	o := env.createOrder(t, customerID)
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)

	paid, err := env.svc.PayOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "1080.00", paid.Discount.Amount)
	assert.Equal(t, "6000.00", paid.Order.TotalAmount.Amount, "discount is informational")
	assert.Equal(t, "PAID", paid.Order.Status)
	assert.Equal(t, 8, env.stockOf(t, a.ID()))
	assert.Zero(t, env.reservedOf(t, a.ID()), "payment path bypasses the ledger")

	// the placement path refuses an order that is already paid
	_, err = env.svc.PlaceOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrInvalidOrderState)
	assert.Equal(t, 8, env.stockOf(t, a.ID()))
}

func TestPayOrderWithShortageChangesNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 5)
	b := env.addProduct(t, "100", 5)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	_, err = env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: b.ID(), Quantity: 4})
	require.NoError(t, err)

	sold, err := env.products.FindByID(ctx, b.ID())
	require.NoError(t, err)
	require.NoError(t, sold.ReduceStock(shared.MustQuantity(3)))
	require.NoError(t, env.products.Save(ctx, sold))

	_, err = env.svc.PayOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrStockUnavailable)
	assert.Equal(t, 5, env.stockOf(t, a.ID()))
	assert.Equal(t, 2, env.stockOf(t, b.ID()))

	current, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "CREATED", current.Status)
}

func TestCancelPaidOrderRestoresStock(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	_, err = env.svc.PlaceOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, 8, env.stockOf(t, a.ID()))

	cancelled, err := env.svc.CancelOrder(ctx, o.ID, CancelOrderRequest{Reason: "customer request"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, 10, env.stockOf(t, a.ID()))

	_, err = env.svc.CancelOrder(ctx, o.ID, CancelOrderRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidOrderState)
	assert.Equal(t, 10, env.stockOf(t, a.ID()))
}

func TestCancelUnpaidOrderLeavesStock(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)

	_, err = env.svc.CancelOrder(ctx, o.ID, CancelOrderRequest{Reason: "changed mind"})
	require.NoError(t, err)
	assert.Equal(t, 10, env.stockOf(t, a.ID()))
}

func TestRemoveLastItemLeavesOrderUntouched(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	withItem, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 2})
	require.NoError(t, err)
	itemID := withItem.Items[0].ID

	_, err = env.svc.RemoveOrderItem(ctx, o.ID, itemID)
	assert.ErrorIs(t, err, order.ErrLastItem)

	_, err = env.svc.RemoveOrderItem(ctx, o.ID, "missing")
	assert.ErrorIs(t, err, order.ErrItemNotFound)

	current, err := env.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
	assert.Equal(t, itemID, current.Items[0].ID)
	assert.Equal(t, withItem.Version, current.Version)
}

func TestEditingUseCases(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	b := env.addProduct(t, "50", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)
	resp, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: b.ID(), Quantity: 1})
	require.NoError(t, err)

	resp, err = env.svc.UpdateOrderItemQuantity(ctx, o.ID, resp.Items[1].ID, UpdateItemQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "300.00", resp.TotalAmount.Amount)

	resp, err = env.svc.RemoveOrderItem(ctx, o.ID, resp.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", resp.TotalAmount.Amount)

	moved := address()
	moved.City = "Minato"
	resp, err = env.svc.UpdateShippingAddress(ctx, o.ID, moved)
	require.NoError(t, err)
	assert.Equal(t, "Minato", resp.ShippingAddress.City)

	_, err = env.svc.UpdateBillingAddress(ctx, o.ID, AddressRequest{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	resp, err = env.svc.SubmitOrderForPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING_PAYMENT", resp.Status)
	assert.Equal(t, "CREATED", resp.ReducedStatus)
}

func TestFulfilmentLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)

	_, err = env.svc.ShipOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrInvalidOrderState, "unpaid orders do not ship")

	_, err = env.svc.PlaceOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.DeleteOrder(ctx, o.ID), shared.ErrStateConflict)

	_, err = env.svc.StartProcessing(ctx, o.ID)
	require.NoError(t, err)
	_, err = env.svc.ShipOrder(ctx, o.ID)
	require.NoError(t, err)
	delivered, err := env.svc.DeliverOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", delivered.ReducedStatus)

	returned, err := env.svc.ReturnOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "RETURNED", returned.Status)

	require.NoError(t, env.svc.DeleteOrder(ctx, o.ID))
	_, err = env.svc.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	customerID := env.addCustomer(t, time.Now(), true)
	first := env.createOrder(t, customerID)
	env.createOrder(t, customerID)
	_, err := env.svc.AddOrderItem(ctx, first.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = env.svc.PlaceOrder(ctx, first.ID)
	require.NoError(t, err)

	byCustomer, err := env.svc.SearchOrders(ctx, OrderSearchRequest{CustomerID: customerID})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	paid, err := env.svc.SearchOrders(ctx, OrderSearchRequest{Status: "PAID"})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, first.ID, paid[0].ID)

	_, err = env.svc.SearchOrders(ctx, OrderSearchRequest{Status: "LOST"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = env.svc.SearchOrders(ctx, OrderSearchRequest{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSearchOrdersByProductAndCreationTime(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	b := env.addProduct(t, "200", 10)
	customerID := env.addCustomer(t, time.Now(), true)
	withA := env.createOrder(t, customerID)
	withB := env.createOrder(t, customerID)
	_, err := env.svc.AddOrderItem(ctx, withA.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = env.svc.AddOrderItem(ctx, withB.ID, AddItemRequest{ProductID: b.ID(), Quantity: 1})
	require.NoError(t, err)

	containingA, err := env.svc.SearchOrders(ctx, OrderSearchRequest{ProductID: a.ID()})
	require.NoError(t, err)
	require.Len(t, containingA, 1)
	assert.Equal(t, withA.ID, containingA[0].ID)

	now := time.Now()
	recent, err := env.svc.SearchOrders(ctx, OrderSearchRequest{CreatedAfter: now.Add(-time.Hour), CreatedBefore: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	old, err := env.svc.SearchOrders(ctx, OrderSearchRequest{CreatedBefore: now.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, old)

	combined, err := env.svc.SearchOrders(ctx, OrderSearchRequest{
		CustomerID: customerID, ProductID: b.ID(), CreatedAfter: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, withB.ID, combined[0].ID)

	_, err = env.svc.SearchOrders(ctx, OrderSearchRequest{CreatedAfter: now, CreatedBefore: now.Add(-time.Minute)})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestQuotes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "6000", 10)
	o := env.createOrder(t, env.addCustomer(t, december().AddDate(-2, 0, 0), true))
	_, err := env.svc.AddOrderItem(ctx, o.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)

	d, err := env.svc.QuoteDiscount(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "300.00", d.Volume.Amount)
	assert.Equal(t, "180.00", d.Loyalty.Amount)
	assert.Equal(t, "600.00", d.Seasonal.Amount)
	assert.Equal(t, "1080.00", d.Total.Amount)

	tax, err := env.svc.QuoteTax(ctx, o.ID, "0.1")
	require.NoError(t, err)
	assert.Equal(t, "600.00", tax.Tax.Amount)

	_, err = env.svc.QuoteTax(ctx, o.ID, "ten percent")
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = env.svc.QuoteTax(ctx, o.ID, "2")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCancelExpiredOrders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.addProduct(t, "100", 10)
	customerID := env.addCustomer(t, time.Now(), true)
	stale := env.createOrder(t, customerID)
	placed := env.createOrder(t, customerID)
	_, err := env.svc.AddOrderItem(ctx, placed.ID, AddItemRequest{ProductID: a.ID(), Quantity: 1})
	require.NoError(t, err)
	_, err = env.svc.SubmitOrderForPayment(ctx, placed.ID)
	require.NoError(t, err)

	cancelled, err := env.svc.CancelExpiredOrders(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{stale.ID}, cancelled)
}

func TestUseCasesAreTraced(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	o := env.createOrder(t, env.addCustomer(t, time.Now(), true))
	_, err := env.svc.PlaceOrder(ctx, o.ID)
	require.Error(t, err)

	var names []string
	for _, span := range env.spans.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "order.CreateOrder")
	assert.Contains(t, names, "order.PlaceOrder")

	last := env.spans.Ended()[len(env.spans.Ended())-1]
	assert.Equal(t, "order.PlaceOrder", last.Name())
	assert.NotEmpty(t, last.Events(), "error recorded on the span")
}
