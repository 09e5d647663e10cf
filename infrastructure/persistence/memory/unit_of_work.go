package memory

import (
	"context"

	"ordercore/domain/shared"

	"go.uber.org/zap"
)

// UnitOfWork runs a use case against a Store. Use cases are serialized; a
// failing one leaves the tables as they were before it started. Events of
// registered aggregates are published after the store lock is released.
type UnitOfWork struct {
	store      *Store
	publisher  shared.DomainEventPublisher
	log        *zap.Logger
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(store *Store, publisher shared.DomainEventPublisher, log *zap.Logger) *UnitOfWork {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnitOfWork{store: store, publisher: publisher, log: log}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	events, err := u.run(ctx, fn)
	if err != nil {
		return err
	}
	u.publish(ctx, events)
	return nil
}

func (u *UnitOfWork) run(ctx context.Context, fn func(ctx context.Context) error) ([]shared.DomainEvent, error) {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	u.aggregates = u.aggregates[:0]
	snap := u.store.snapshot()
	if err := fn(ctx); err != nil {
		u.store.restore(snap)
		return nil, err
	}

	var events []shared.DomainEvent
	for _, agg := range u.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	return events, nil
}

// publish does not roll anything back; the work is already committed.
func (u *UnitOfWork) publish(ctx context.Context, events []shared.DomainEvent) {
	if u.publisher == nil {
		return
	}
	for _, event := range events {
		if err := u.publisher.Publish(ctx, event); err != nil {
			u.log.Warn("failed to publish domain event",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Error(err))
		}
	}
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

type UnitOfWorkFactory struct {
	store     *Store
	publisher shared.DomainEventPublisher
	log       *zap.Logger
}

func NewUnitOfWorkFactory(store *Store, publisher shared.DomainEventPublisher, log *zap.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, publisher: publisher, log: log}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.store, f.publisher, f.log)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
