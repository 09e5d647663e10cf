package mysql

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/mysql/po"
	"ordercore/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// OrderRepository stores orders and their items in two tables. Items are
// rewritten on every save; no GORM associations are declared.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Save inserts a new order or updates it under an optimistic lock on the
// version column.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	return atomically(ctx, r.db, func(tx *gorm.DB) error {
		orderPO, itemPOs := po.FromOrderDomain(o)
		orderPO.Version = o.Version() + 1

		if o.IsNew() {
			if err := tx.Create(orderPO).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return order.NewConcurrentModificationError(o.ID())
				}
				return fmt.Errorf("insert order %s: %w", o.ID(), err)
			}
		} else {
			res := tx.Model(&po.OrderPO{}).
				Where("id = ? AND version = ?", o.ID(), o.Version()).
				Select("*").
				Updates(orderPO)
			if res.Error != nil {
				return fmt.Errorf("update order %s: %w", o.ID(), res.Error)
			}
			if res.RowsAffected == 0 {
				return order.NewConcurrentModificationError(o.ID())
			}
		}

		if err := tx.Where("order_id = ?", o.ID()).Delete(&po.OrderItemPO{}).Error; err != nil {
			return fmt.Errorf("delete items of %s: %w", o.ID(), err)
		}
		if len(itemPOs) > 0 {
			if err := tx.Create(&itemPOs).Error; err != nil {
				return fmt.Errorf("insert items of %s: %w", o.ID(), err)
			}
		}

		o.IncrementVersion()
		return nil
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := conn(ctx, r.db)

	var orderPO po.OrderPO
	if err := db.First(&orderPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}

	orders, err := r.withItems(db, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByCustomerIDSpecification(customerID))
}

func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByStatusSpecification(status))
}

// FindBySpecification pushes spec down to SQL when it can be translated
// and otherwise evaluates it over every order.
func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	db := conn(ctx, r.db)

	query := db.Model(&po.OrderPO{}).Order("created_at ASC, id ASC")
	expr, translated := specification.TranslateOrder(spec)
	if translated {
		query = query.Where(expr)
	}

	var orderPOs []po.OrderPO
	if err := query.Find(&orderPOs).Error; err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	orders, err := r.withItems(db, orderPOs)
	if err != nil {
		return nil, err
	}
	if translated {
		return orders, nil
	}

	matched := orders[:0]
	for _, o := range orders {
		if spec.IsSatisfiedBy(ctx, o) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// withItems loads the items of every order in one query.
func (r *OrderRepository) withItems(db *gorm.DB, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(orderPOs))
	for i := range orderPOs {
		ids[i] = orderPOs[i].ID
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id IN ?", ids).Order("order_id, position").Find(&itemPOs).Error; err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, item := range itemPOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, len(orderPOs))
	for i := range orderPOs {
		o, err := orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
		if err != nil {
			return nil, fmt.Errorf("rebuild order %s: %w", orderPOs[i].ID, err)
		}
		orders[i] = o
	}
	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return atomically(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&po.OrderItemPO{}).Error; err != nil {
			return fmt.Errorf("delete items of %s: %w", id, err)
		}
		res := tx.Delete(&po.OrderPO{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return order.NewOrderNotFoundError(id)
		}
		return nil
	})
}

var _ order.Repository = (*OrderRepository)(nil)
