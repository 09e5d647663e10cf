package product

import (
	"strings"
	"time"

	"ordercore/domain/shared"

	"github.com/google/uuid"
)

// Product is a sellable item with a durable stock count.
// AddStock and ReduceStock are the only mutators of the stock.
type Product struct {
	id            string
	name          string
	description   string
	price         shared.Money
	stockQuantity shared.Quantity
	active        bool
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

func NewProduct(name, description string, price shared.Money, stock shared.Quantity) (*Product, error) {
	if err := validateDetails(name, description); err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, newValidationError("price", "must be greater than zero", ErrInvalidPrice)
	}

	now := time.Now()
	return &Product{
		id:            uuid.NewString(),
		name:          strings.TrimSpace(name),
		description:   strings.TrimSpace(description),
		price:         price,
		stockQuantity: stock,
		active:        true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func validateDetails(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError("name", "must not be blank", nil)
	}
	if strings.TrimSpace(description) == "" {
		return newValidationError("description", "must not be blank", nil)
	}
	return nil
}

// ============================================================================
// Behaviour
// ============================================================================

func (p *Product) HasEnoughStock(requested shared.Quantity) bool {
	return !p.stockQuantity.IsLessThan(requested)
}

// ReduceStock fails without touching the stock when it is insufficient.
func (p *Product) ReduceStock(q shared.Quantity) error {
	remaining, err := p.stockQuantity.Subtract(q)
	if err != nil {
		return NewInsufficientStockError(p.id, p.stockQuantity.Value(), q.Value())
	}
	p.stockQuantity = remaining
	p.touch()
	return nil
}

func (p *Product) AddStock(q shared.Quantity) {
	p.stockQuantity = p.stockQuantity.Add(q)
	p.touch()
}

func (p *Product) UpdatePrice(price shared.Money) error {
	if !price.IsPositive() {
		return newValidationError("price", "must be greater than zero", ErrInvalidPrice)
	}
	p.price = price
	p.touch()
	return nil
}

func (p *Product) UpdateDetails(name, description string) error {
	if err := validateDetails(name, description); err != nil {
		return err
	}
	p.name = strings.TrimSpace(name)
	p.description = strings.TrimSpace(description)
	p.touch()
	return nil
}

func (p *Product) Activate() {
	p.active = true
	p.touch()
}

func (p *Product) Deactivate() {
	p.active = false
	p.touch()
}

func (p *Product) touch() { p.updatedAt = time.Now() }

// IncrementVersion is called by repositories after a successful write.
func (p *Product) IncrementVersion() { p.version++ }

// ============================================================================
// Getters
// ============================================================================

func (p *Product) ID() string                     { return p.id }
func (p *Product) Name() string                   { return p.name }
func (p *Product) Description() string            { return p.description }
func (p *Product) Price() shared.Money            { return p.price }
func (p *Product) StockQuantity() shared.Quantity { return p.stockQuantity }
func (p *Product) IsActive() bool                 { return p.active }
func (p *Product) Version() int                   { return p.version }
func (p *Product) CreatedAt() time.Time           { return p.createdAt }
func (p *Product) UpdatedAt() time.Time           { return p.updatedAt }

// Clone returns an independent copy; used by in-memory stores.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// ReconstructionDTO is used by repositories only.
type ReconstructionDTO struct {
	ID            string
	Name          string
	Description   string
	Price         shared.Money
	StockQuantity int
	Active        bool
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Product {
	return &Product{
		id:            dto.ID,
		name:          dto.Name,
		description:   dto.Description,
		price:         dto.Price,
		stockQuantity: shared.MustQuantity(max(dto.StockQuantity, 0)),
		active:        dto.Active,
		version:       dto.Version,
		createdAt:     dto.CreatedAt,
		updatedAt:     dto.UpdatedAt,
	}
}

var _ shared.Entity = (*Product)(nil)
