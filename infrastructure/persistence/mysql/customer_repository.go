package mysql

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/customer"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	row := po.FromCustomerDomain(c)
	row.Version = c.Version() + 1
	db := conn(ctx, r.db)

	if c.Version() == 0 {
		if err := db.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewStateConflictError("customer", "customer "+c.ID()+" or its email already exists")
			}
			return fmt.Errorf("insert customer %s: %w", c.ID(), err)
		}
	} else {
		res := db.Model(&po.CustomerPO{}).
			Where("id = ? AND version = ?", c.ID(), c.Version()).
			Select("*").
			Updates(row)
		if res.Error != nil {
			return fmt.Errorf("update customer %s: %w", c.ID(), res.Error)
		}
		if res.RowsAffected == 0 {
			return shared.NewStateConflictError("customer", "customer "+c.ID()+" was modified by another transaction")
		}
	}

	c.IncrementVersion()
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	var row po.CustomerPO
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.NewCustomerNotFoundError(id)
		}
		return nil, fmt.Errorf("find customer %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&po.CustomerPO{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete customer %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return customer.NewCustomerNotFoundError(id)
	}
	return nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
