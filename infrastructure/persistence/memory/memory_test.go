package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	addr, err := shared.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	o, err := order.NewOrder("customer-1", addr, addr)
	require.NoError(t, err)
	require.NoError(t, o.AddItem("p-1", "Widget", shared.MustMoney("100", "JPY"), shared.MustQuantity(1)))
	return o
}

func TestOrderRepositoryStoresSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	o := newOrder(t)
	require.NoError(t, repo.Save(ctx, o))

	// unsaved mutations stay private
	require.NoError(t, o.AddItem("p-2", "Gadget", shared.MustMoney("50", "JPY"), shared.MustQuantity(1)))
	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.ItemCount())
	assert.Equal(t, 1, loaded.Version())
	assert.Empty(t, loaded.PullEvents(), "stored copies carry no events")
	assert.NotEmpty(t, o.PullEvents())
}

func TestOrderRepositoryDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	o := newOrder(t)
	require.NoError(t, repo.Save(ctx, o))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Cancel("first"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.MarkAsPaid())
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, stored.Status())
}

func TestOrderRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(NewStore())
	a, b := newOrder(t), newOrder(t)
	require.NoError(t, b.MarkAsPaid())
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	byCustomer, err := repo.FindByCustomerID(ctx, "customer-1")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	paid, err := repo.FindByStatus(ctx, order.StatusPaid)
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, b.ID(), paid[0].ID())

	none, err := repo.FindByCustomerID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.Delete(ctx, a.ID()))
	_, err = repo.FindByID(ctx, a.ID())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID()), order.ErrOrderNotFound)
}

func TestProductRepositoryFindAllSortedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())
	for _, name := range []string{"Pear", "Apple", "Mango"} {
		p, err := product.NewProduct(name, "fruit", shared.MustMoney("1", "JPY"), shared.MustQuantity(1))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Apple", all[0].Name())
	assert.Equal(t, "Pear", all[2].Name())
}

type recordingPublisher struct {
	names []string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, event shared.DomainEvent) error {
	p.names = append(p.names, event.EventName())
	return p.err
}

func TestUnitOfWorkPublishesAfterSuccess(t *testing.T) {
	store := NewStore()
	repo := NewOrderRepository(store)
	pub := &recordingPublisher{}
	uow := NewUnitOfWork(store, pub, nil)

	o := newOrder(t)
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		if err := repo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{order.EventCreated, order.EventItemAdded}, pub.names)
	assert.Empty(t, o.PendingEvents())
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewOrderRepository(store)
	pub := &recordingPublisher{}
	uow := NewUnitOfWork(store, pub, nil)

	o := newOrder(t)
	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Save(ctx, o))
		uow.RegisterNew(o)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pub.names)

	_, err = repo.FindByID(ctx, o.ID())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUnitOfWorkLogsPublishFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewStore()
	pub := &recordingPublisher{err: errors.New("broker down")}
	uow := NewUnitOfWork(store, pub, zap.New(core))

	o := newOrder(t)
	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		uow.RegisterDirty(o)
		return nil
	})
	require.NoError(t, err, "publish failures do not fail committed work")
	assert.Equal(t, 2, logs.FilterMessage("failed to publish domain event").Len())
}

func TestReservationStoreNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	store := NewReservationStore()
	var granted atomic.Int32

	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			ok, err := store.TryReserve(ctx, "p-1", 1, 10)
			if ok {
				granted.Add(1)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(10), granted.Load())
	reserved, err := store.Reserved(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 10, reserved)
}

func TestReservationStoreReleaseFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := NewReservationStore()

	ok, err := store.TryReserve(ctx, "p-1", 3, 5)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "p-1", 10))
	reserved, err := store.Reserved(ctx, "p-1")
	require.NoError(t, err)
	assert.Zero(t, reserved)
}
