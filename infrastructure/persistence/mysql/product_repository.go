package mysql

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain/product"
	"ordercore/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Save inserts a product that was never saved (version 0) and otherwise
// updates it only if nobody else saved it since it was loaded.
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	row := po.FromProductDomain(p)
	row.Version = p.Version() + 1
	db := conn(ctx, r.db)

	if p.Version() == 0 {
		if err := db.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return product.NewConcurrentModificationError(p.ID())
			}
			return fmt.Errorf("insert product %s: %w", p.ID(), err)
		}
	} else {
		res := db.Model(&po.ProductPO{}).
			Where("id = ? AND version = ?", p.ID(), p.Version()).
			Select("*").
			Updates(row)
		if res.Error != nil {
			return fmt.Errorf("update product %s: %w", p.ID(), res.Error)
		}
		if res.RowsAffected == 0 {
			return product.NewConcurrentModificationError(p.ID())
		}
	}

	p.IncrementVersion()
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	var row po.ProductPO
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.NewProductNotFoundError(id)
		}
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return row.ToDomain()
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*product.Product, error) {
	var rows []po.ProductPO
	if err := conn(ctx, r.db).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	products := make([]*product.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("rebuild product %s: %w", rows[i].ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&po.ProductPO{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return product.NewProductNotFoundError(id)
	}
	return nil
}

var _ product.Repository = (*ProductRepository)(nil)
