package po

import (
	"time"

	"ordercore/domain/customer"
)

type CustomerPO struct {
	ID           string    `gorm:"primaryKey;size:64"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	Phone        string    `gorm:"size:32"`
	Active       bool      `gorm:"not null"`
	RegisteredAt time.Time `gorm:"not null"`
	Version      int       `gorm:"not null;default:0"`
}

func (CustomerPO) TableName() string {
	return "customers"
}

func FromCustomerDomain(c *customer.Customer) *CustomerPO {
	return &CustomerPO{
		ID:           c.ID(),
		FirstName:    c.FirstName(),
		LastName:     c.LastName(),
		Email:        c.Email(),
		Phone:        c.Phone(),
		Active:       c.IsActive(),
		RegisteredAt: c.RegisteredAt(),
		Version:      c.Version(),
	}
}

func (p *CustomerPO) ToDomain() *customer.Customer {
	return customer.RebuildFromDTO(customer.ReconstructionDTO{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		Active:       p.Active,
		RegisteredAt: p.RegisteredAt,
		Version:      p.Version,
	})
}
