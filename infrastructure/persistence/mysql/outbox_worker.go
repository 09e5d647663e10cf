package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordercore/infrastructure/persistence/mysql/po"
	"ordercore/pkg/metrics"

	"go.uber.org/zap"
)

// OutboxPublisher delivers one relayed event. aggregateID is suitable as
// a partition key.
type OutboxPublisher interface {
	Publish(ctx context.Context, aggregateID, eventType, payload string) error
}

// OutboxStore is the part of OutboxRepository the worker drives.
type OutboxStore interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) (bool, error)
}

// LoggingOutboxPublisher is used when no broker is configured.
type LoggingOutboxPublisher struct {
	Log *zap.Logger
}

func (p *LoggingOutboxPublisher) Publish(_ context.Context, aggregateID, eventType, payload string) error {
	if p.Log != nil {
		p.Log.Info("outbox event published",
			zap.String("aggregate_id", aggregateID),
			zap.String("event_type", eventType),
			zap.String("payload", payload))
	}
	return nil
}

type OutboxWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
}

// OutboxWorker polls the outbox and relays pending events in creation
// order. Delivery is at least once.
type OutboxWorker struct {
	store     OutboxStore
	publisher OutboxPublisher
	cfg       OutboxWorkerConfig
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewOutboxWorker accepts a nil log and a nil m.
func NewOutboxWorker(store OutboxStore, publisher OutboxPublisher, cfg OutboxWorkerConfig, log *zap.Logger, m *metrics.Metrics) (*OutboxWorker, error) {
	if store == nil {
		return nil, errors.New("outbox store is required")
	}
	if publisher == nil {
		return nil, errors.New("outbox publisher is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.MaxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive, got %d", cfg.MaxRetries)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OutboxWorker{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		log:       log.Named("outbox"),
		metrics:   m,
	}, nil
}

// Run polls until ctx is done and returns ctx.Err().
func (w *OutboxWorker) Run(ctx context.Context) error {
	w.log.Info("outbox worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Int("batch_size", w.cfg.BatchSize))

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("outbox worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.log.Error("outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch relays one batch and returns how many events were published.
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	events, err := w.store.GetPendingEvents(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		if err := w.store.MarkEventProcessing(ctx, event.ID); err != nil {
			if errors.Is(err, ErrOutboxEventTaken) {
				w.count("skipped")
				continue
			}
			return published, err
		}

		if err := w.publisher.Publish(ctx, event.AggregateID, event.EventType, event.Payload); err != nil {
			w.fail(ctx, event, err)
			continue
		}

		if err := w.store.MarkEventPublished(ctx, event.ID); err != nil {
			w.log.Error("failed to mark outbox event as published",
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
		published++
		w.count("published")
	}
	return published, nil
}

func (w *OutboxWorker) fail(ctx context.Context, event *po.OutboxEventPO, cause error) {
	parked, err := w.store.MarkEventFailed(ctx, event.ID, w.cfg.MaxRetries)
	if err != nil {
		w.log.Error("failed to mark outbox event as failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return
	}
	if parked {
		w.count("failed")
		w.log.Error("outbox event gave up",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.Int("retries", event.RetryCount+1),
			zap.Error(cause))
		return
	}
	w.count("retried")
	w.log.Warn("outbox event publish failed, will retry",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.Error(cause))
}

func (w *OutboxWorker) count(result string) {
	if w.metrics != nil {
		w.metrics.OutboxEvents.WithLabelValues(result).Inc()
	}
}
