package product

import (
	"context"
	"errors"
	"testing"

	"ordercore/domain/product"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*ApplicationService, *memory.ReservationStore) {
	t.Helper()
	store := memory.NewStore()
	reservations := memory.NewReservationStore()
	svc := NewApplicationService(memory.NewProductRepository(store), reservations, memory.NewUnitOfWorkFactory(store, nil, nil))
	return svc, reservations
}

func TestCreateAndRestock(t *testing.T) {
	ctx := context.Background()
	svc, reservations := newService(t)

	created, err := svc.CreateProduct(ctx, CreateProductRequest{
		Name: "Kettle", Description: "1.2l", Price: "3980.5", Currency: "jpy", Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "3980.50", created.Price)
	assert.Equal(t, "JPY", created.Currency)
	assert.True(t, created.Active)

	ok, err := reservations.TryReserve(ctx, created.ID, 3, 4)
	require.NoError(t, err)
	require.True(t, ok)

	restocked, err := svc.RestockProduct(ctx, created.ID, RestockRequest{Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.Stock)
	assert.Equal(t, 3, restocked.Reserved)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"zero price", CreateProductRequest{Name: "a", Description: "b", Price: "0", Currency: "JPY"}},
		{"bad amount", CreateProductRequest{Name: "a", Description: "b", Price: "ten", Currency: "JPY"}},
		{"bad currency", CreateProductRequest{Name: "a", Description: "b", Price: "10", Currency: "YEN!"}},
		{"negative stock", CreateProductRequest{Name: "a", Description: "b", Price: "10", Currency: "JPY", Stock: -1}},
		{"blank name", CreateProductRequest{Name: " ", Description: "b", Price: "10", Currency: "JPY"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.req)
			assert.True(t, errors.Is(err, shared.ErrValidation), "got %v", err)
		})
	}

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestPriceAndActivation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Mug", Description: "white", Price: "800", Currency: "JPY", Stock: 1})
	require.NoError(t, err)

	updated, err := svc.UpdatePrice(ctx, p.ID, UpdatePriceRequest{Price: "950", Currency: "JPY"})
	require.NoError(t, err)
	assert.Equal(t, "950.00", updated.Price)

	deactivated, err := svc.DeactivateProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	activated, err := svc.ActivateProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)

	_, err = svc.UpdatePrice(ctx, p.ID, UpdatePriceRequest{Price: "-1", Currency: "JPY"})
	assert.True(t, errors.Is(err, product.ErrInvalidPrice), "got %v", err)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "950.00", got.Price)
}

func TestListProductsOrderedByName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, name := range []string{"Teapot", "Cup", "Saucer"} {
		_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: name, Description: "x", Price: "100", Currency: "JPY"})
		require.NoError(t, err)
	}

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Cup", "Saucer", "Teapot"}, names)
}

func TestMissingProduct(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RestockProduct(context.Background(), "missing", RestockRequest{Quantity: 1})
	assert.True(t, errors.Is(err, product.ErrProductNotFound))

	_, err = svc.GetProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
