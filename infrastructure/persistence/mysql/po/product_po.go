package po

import (
	"time"

	"ordercore/domain/product"
	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
)

type ProductPO struct {
	ID            string          `gorm:"primaryKey;size:64"`
	Name          string          `gorm:"size:255;index;not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Currency      string          `gorm:"size:3;not null"`
	StockQuantity int             `gorm:"not null"`
	Active        bool            `gorm:"not null"`
	Version       int             `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ProductPO) TableName() string {
	return "products"
}

func FromProductDomain(p *product.Product) *ProductPO {
	return &ProductPO{
		ID:            p.ID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price().Amount(),
		Currency:      p.Price().Currency(),
		StockQuantity: p.StockQuantity().Value(),
		Active:        p.IsActive(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func (p *ProductPO) ToDomain() (*product.Product, error) {
	price, err := shared.NewMoney(p.Price, p.Currency)
	if err != nil {
		return nil, err
	}
	return product.RebuildFromDTO(product.ReconstructionDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         price,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}), nil
}
