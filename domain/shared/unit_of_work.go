package shared

import "context"

// UnitOfWork is the persistence-atomic scope a use case runs in.
// Aggregates registered during Execute have their events drained only
// after fn returned nil and the work was committed.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one UnitOfWork per use case invocation.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores events in the same transaction as the aggregate.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
