package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	name string
	id   string
	at   time.Time
}

func (e testEvent) EventName() string      { return e.name }
func (e testEvent) OccurredOn() time.Time  { return e.at }
func (e testEvent) GetAggregateID() string { return e.id }

func TestEventBusDispatchesToSubscribers(t *testing.T) {
	bus := NewEventBus()
	var got []string
	require.NoError(t, bus.Subscribe("thing.happened", NewFuncHandler("collector", func(_ context.Context, e DomainEvent) error {
		got = append(got, e.GetAggregateID())
		return nil
	})))

	err := bus.Publish(context.Background(), testEvent{name: "thing.happened", id: "a-1", at: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1"}, got)

	history := bus.History()
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestEventBusRejectsDuplicateAndInvalid(t *testing.T) {
	bus := NewEventBus()
	h := NewFuncHandler("h", func(context.Context, DomainEvent) error { return nil })
	require.NoError(t, bus.Subscribe("x", h))
	assert.Error(t, bus.Subscribe("x", h))

	assert.Error(t, bus.Publish(context.Background(), testEvent{name: "x", at: time.Now()}))
	assert.Error(t, bus.Publish(context.Background(), nil))
}

func TestEventBusReportsHandlerFailure(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	require.NoError(t, bus.Subscribe("x", NewFuncHandler("failing", func(context.Context, DomainEvent) error { return boom })))

	err := bus.Publish(context.Background(), testEvent{name: "x", id: "1", at: time.Now()})
	assert.ErrorIs(t, err, boom)
	assert.False(t, bus.History()[0].Success)

	bus.Unsubscribe("x", NewFuncHandler("failing", nil))
	assert.NoError(t, bus.Publish(context.Background(), testEvent{name: "x", id: "1", at: time.Now()}))
}
