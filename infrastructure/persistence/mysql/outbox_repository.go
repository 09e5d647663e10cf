package mysql

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

var ErrOutboxEventTaken = errors.New("outbox event not pending")

// OutboxRepository is the transactional outbox: SaveEvent writes in the
// caller's transaction, the other methods drive the relay.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}
	row, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}
	return atomically(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := conn(ctx, r.db).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event. ErrOutboxEventTaken means
// another worker claimed it first.
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	res := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOutboxEventTaken, eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	res := conn(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     string(po.EventStatusPublished),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("outbox event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed puts the event back to PENDING until it has failed
// maxRetries times, then parks it as FAILED. It reports whether the event
// was parked.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) (bool, error) {
	db := conn(ctx, r.db)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return false, fmt.Errorf("failed to find event: %w", err)
	}

	retries := event.RetryCount + 1
	status := po.EventStatusPending
	if retries >= maxRetries {
		status = po.EventStatusFailed
	}

	err := db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":      string(status),
			"retry_count": retries,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
	return status == po.EventStatusFailed, err
}

var _ shared.OutboxRepository = (*OutboxRepository)(nil)
