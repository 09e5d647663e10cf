package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ordercore/infrastructure/persistence/mysql/po"
	"ordercore/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOutbox mimics the status transitions of OutboxRepository.
type fakeOutbox struct {
	mu     sync.Mutex
	events []*po.OutboxEventPO
}

func (f *fakeOutbox) add(id, eventType string) {
	f.events = append(f.events, &po.OutboxEventPO{
		ID: id, AggregateID: "agg-" + id, EventType: eventType,
		Payload: `{}`, Status: string(po.EventStatusPending),
	})
}

func (f *fakeOutbox) find(id string) *po.OutboxEventPO {
	for _, e := range f.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (f *fakeOutbox) GetPendingEvents(_ context.Context, limit int) ([]*po.OutboxEventPO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []*po.OutboxEventPO
	for _, e := range f.events {
		if e.Status == string(po.EventStatusPending) && len(pending) < limit {
			c := *e
			pending = append(pending, &c)
		}
	}
	return pending, nil
}

func (f *fakeOutbox) MarkEventProcessing(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.find(id)
	if e == nil || e.Status != string(po.EventStatusPending) {
		return ErrOutboxEventTaken
	}
	e.Status = string(po.EventStatusProcessing)
	return nil
}

func (f *fakeOutbox) MarkEventPublished(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.find(id).Status = string(po.EventStatusPublished)
	return nil
}

func (f *fakeOutbox) MarkEventFailed(_ context.Context, id string, maxRetries int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.find(id)
	e.RetryCount++
	e.Status = string(po.EventStatusPending)
	if e.RetryCount >= maxRetries {
		e.Status = string(po.EventStatusFailed)
	}
	return e.Status == string(po.EventStatusFailed), nil
}

func (f *fakeOutbox) status(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(id).Status
}

type recordingPublisher struct {
	failFor map[string]bool
	keys    []string
}

func (p *recordingPublisher) Publish(_ context.Context, aggregateID, eventType, _ string) error {
	if p.failFor[eventType] {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, aggregateID)
	return nil
}

func newTestWorker(t *testing.T, store OutboxStore, pub OutboxPublisher, maxRetries int) (*OutboxWorker, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	w, err := NewOutboxWorker(store, pub, OutboxWorkerConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		MaxRetries:   maxRetries,
	}, nil, m)
	require.NoError(t, err)
	return w, m
}

func TestOutboxWorkerPublishesPendingEvents(t *testing.T) {
	store := &fakeOutbox{}
	store.add("e1", "order.created")
	store.add("e2", "order.paid")
	pub := &recordingPublisher{}
	w, m := newTestWorker(t, store, pub, 3)

	n, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"agg-e1", "agg-e2"}, pub.keys)
	assert.Equal(t, string(po.EventStatusPublished), store.status("e1"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxEvents.WithLabelValues("published")))

	n, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "published events are not relayed twice")
}

func TestOutboxWorkerRetriesThenParks(t *testing.T) {
	store := &fakeOutbox{}
	store.add("e1", "order.paid")
	pub := &recordingPublisher{failFor: map[string]bool{"order.paid": true}}
	w, m := newTestWorker(t, store, pub, 2)

	_, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(po.EventStatusPending), store.status("e1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEvents.WithLabelValues("retried")))

	_, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(po.EventStatusFailed), store.status("e1"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEvents.WithLabelValues("failed")))
}

func TestOutboxWorkerRunStopsWithContext(t *testing.T) {
	store := &fakeOutbox{}
	store.add("e1", "order.created")
	w, _ := newTestWorker(t, store, &recordingPublisher{}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return store.status("e1") == string(po.EventStatusPublished)
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewOutboxWorkerValidatesConfig(t *testing.T) {
	_, err := NewOutboxWorker(&fakeOutbox{}, &recordingPublisher{}, OutboxWorkerConfig{BatchSize: 1, MaxRetries: 1}, nil, nil)
	assert.Error(t, err)

	_, err = NewOutboxWorker(nil, &recordingPublisher{}, OutboxWorkerConfig{PollInterval: time.Second, BatchSize: 1, MaxRetries: 1}, nil, nil)
	assert.Error(t, err)
}
