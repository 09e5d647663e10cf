package inventory_test

import (
	"context"
	"errors"
	"testing"

	"ordercore/domain/inventory"
	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCheckInventoryReportsShortagesAndEmitsEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	plenty := f.addProduct(t, "100", 10)
	scarce := f.addProduct(t, "100", 1)
	o := newOrderWith(t, map[*product.Product]int{plenty: 2, scarce: 3})

	var seen []*product.OutOfStockEvent
	require.NoError(t, f.events.Subscribe("product.out_of_stock", shared.NewFuncHandler("test",
		func(_ context.Context, e shared.DomainEvent) error {
			seen = append(seen, e.(*product.OutOfStockEvent))
			return nil
		})))

	shortages, err := f.service.CheckInventoryForOrder(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, []string{scarce.ID()}, shortages)
	require.Len(t, seen, 1)
	assert.Equal(t, 3, seen[0].Requested)
	assert.Equal(t, 1, seen[0].Available)

	assert.Equal(t, 10, f.stockOf(t, plenty.ID()), "check is read-only")
}

func TestCheckInventoryTreatsMissingProductAsShortage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.addProduct(t, "100", 10)
	o := newOrderWith(t, map[*product.Product]int{p: 1})
	require.NoError(t, f.products.Delete(ctx, p.ID()))

	shortages, err := f.service.CheckInventoryForOrder(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID()}, shortages)
}

func TestReduceInventoryIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	plenty := f.addProduct(t, "100", 10)
	scarce := f.addProduct(t, "100", 1)

	short := newOrderWith(t, map[*product.Product]int{plenty: 2, scarce: 3})
	err := f.service.ReduceInventoryForOrder(ctx, short)
	assert.ErrorIs(t, err, shared.ErrStateConflict)
	assert.ErrorIs(t, err, order.ErrStockUnavailable)
	assert.Equal(t, 10, f.stockOf(t, plenty.ID()))
	assert.Equal(t, 1, f.stockOf(t, scarce.ID()))

	fine := newOrderWith(t, map[*product.Product]int{plenty: 2, scarce: 1})
	require.NoError(t, f.service.ReduceInventoryForOrder(ctx, fine))
	assert.Equal(t, 8, f.stockOf(t, plenty.ID()))
	assert.Equal(t, 0, f.stockOf(t, scarce.ID()))
}

func TestRestoreInventorySkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	kept := f.addProduct(t, "100", 5)
	gone := f.addProduct(t, "100", 5)
	o := newOrderWith(t, map[*product.Product]int{kept: 2, gone: 1})
	require.NoError(t, f.products.Delete(ctx, gone.ID()))

	require.NoError(t, f.service.RestoreInventoryForOrder(ctx, o))
	assert.Equal(t, 7, f.stockOf(t, kept.ID()))
}

func TestIsStockBelowThreshold(t *testing.T) {
	f := newFixture()
	p := f.addProduct(t, "100", 4)

	assert.True(t, f.service.IsStockBelowThreshold(p, 5))
	assert.False(t, f.service.IsStockBelowThreshold(p, 4))
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, shared.DomainEvent) error {
	return errors.New("broker unavailable")
}

func TestCheckInventoryLogsFailedPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	scarce := f.addProduct(t, "100", 1)
	o := newOrderWith(t, map[*product.Product]int{scarce: 4})

	core, logs := observer.New(zapcore.WarnLevel)
	svc := inventory.NewService(f.products, failingPublisher{}, zap.New(core))

	shortages, err := svc.CheckInventoryForOrder(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, []string{scarce.ID()}, shortages)

	entries := logs.FilterMessage("failed to publish domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, product.EventOutOfStock, fields["event"])
	assert.Equal(t, scarce.ID(), fields["aggregate_id"])
	assert.Equal(t, "broker unavailable", fields["error"])
}
