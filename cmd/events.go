package cmd

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"

	"go.uber.org/zap"
)

// EventNames lists every event the service emits.
var EventNames = []string{
	order.EventCreated,
	order.EventItemAdded,
	order.EventPaid,
	order.EventCancelled,
	order.EventShipped,
	order.EventDelivered,
	product.EventOutOfStock,
}

// newEventBus subscribes the audit log and, when relay is not nil, a
// handler forwarding every event to it.
func newEventBus(log *zap.Logger, relay shared.DomainEventPublisher) (*shared.EventBus, error) {
	bus := shared.NewEventBus()
	audit := shared.NewFuncHandler("audit-log", func(_ context.Context, e shared.DomainEvent) error {
		log.Info("domain event",
			zap.String("event", e.EventName()),
			zap.String("aggregate_id", e.GetAggregateID()),
			zap.Time("occurred_on", e.OccurredOn()))
		return nil
	})

	var forward *shared.FuncHandler
	if relay != nil {
		forward = shared.NewFuncHandler("broker-relay", relay.Publish)
	}

	for _, name := range EventNames {
		if err := bus.Subscribe(name, audit); err != nil {
			return nil, err
		}
		if forward == nil {
			continue
		}
		if err := bus.Subscribe(name, forward); err != nil {
			return nil, err
		}
	}
	return bus, nil
}
