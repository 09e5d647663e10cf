package po

import (
	"time"

	"ordercore/domain/order"
	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
)

// OrderPO maps the orders table. Items live in order_items and are loaded
// by the repository, never through a GORM association.
type OrderPO struct {
	ID              string          `gorm:"primaryKey;size:64"`
	CustomerID      string          `gorm:"size:64;index;not null"`
	Status          string          `gorm:"size:20;index;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Currency        string          `gorm:"size:3;not null"`
	ShippingAddress AddressPO       `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  AddressPO       `gorm:"embedded;embeddedPrefix:billing_"`
	Version         int             `gorm:"not null;default:0"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

func (OrderPO) TableName() string {
	return "orders"
}

type AddressPO struct {
	Street  string `gorm:"size:255"`
	City    string `gorm:"size:100"`
	State   string `gorm:"size:100"`
	ZipCode string `gorm:"size:20"`
	Country string `gorm:"size:64"`
}

// OrderItemPO keeps the line position so items load in insertion order.
type OrderItemPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	OrderID     string          `gorm:"size:64;index;not null"`
	Position    int             `gorm:"not null"`
	ProductID   string          `gorm:"size:64;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Currency    string          `gorm:"size:3;not null"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

func fromAddress(a shared.Address) AddressPO {
	return AddressPO{
		Street:  a.Street(),
		City:    a.City(),
		State:   a.State(),
		ZipCode: a.ZipCode(),
		Country: a.Country(),
	}
}

func (a AddressPO) toDomain() (shared.Address, error) {
	return shared.NewAddress(a.Street, a.City, a.State, a.ZipCode, a.Country)
}

func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		Status:          o.Status().String(),
		TotalAmount:     o.TotalAmount().Amount(),
		Currency:        o.TotalAmount().Currency(),
		ShippingAddress: fromAddress(o.ShippingAddress()),
		BillingAddress:  fromAddress(o.BillingAddress()),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.LastModifiedAt(),
		PaidAt:          o.PaidAt(),
		ShippedAt:       o.ShippedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CancelledAt:     o.CancelledAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			ID:          item.ID(),
			OrderID:     o.ID(),
			Position:    i,
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity().Value(),
			UnitPrice:   item.UnitPrice().Amount(),
			Currency:    item.UnitPrice().Currency(),
		}
	}
	return orderPO, itemPOs
}

// ToDomain expects itemPOs ordered by position.
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO) (*order.Order, error) {
	items := make([]order.OrderItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		price, err := shared.NewMoney(itemPO.UnitPrice, itemPO.Currency)
		if err != nil {
			return nil, err
		}
		if items[i], err = order.RebuildItemFromDTO(order.ItemReconstructionDTO{
			ID:          itemPO.ID,
			ProductID:   itemPO.ProductID,
			ProductName: itemPO.ProductName,
			UnitPrice:   price,
			Quantity:    itemPO.Quantity,
		}); err != nil {
			return nil, err
		}
	}

	shipping, err := p.ShippingAddress.toDomain()
	if err != nil {
		return nil, err
	}
	billing, err := p.BillingAddress.toDomain()
	if err != nil {
		return nil, err
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:              p.ID,
		CustomerID:      p.CustomerID,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		Status:          order.Status(p.Status),
		Items:           items,
		Currency:        p.Currency,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		LastModifiedAt:  p.UpdatedAt,
		PaidAt:          p.PaidAt,
		ShippedAt:       p.ShippedAt,
		DeliveredAt:     p.DeliveredAt,
		CancelledAt:     p.CancelledAt,
	})
}
