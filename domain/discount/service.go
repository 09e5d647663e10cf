// Package discount computes order discounts. Nothing here mutates the order
// or performs I/O.
package discount

import (
	"time"

	"ordercore/domain/customer"
	"ordercore/domain/order"
	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
)

var (
	volumeThreshold = decimal.NewFromInt(5000)
	volumeRate      = decimal.RequireFromString("0.05")
	loyaltyRate     = decimal.RequireFromString("0.03")
	decemberRate    = decimal.RequireFromString("0.10")
	seasonRate      = decimal.RequireFromString("0.08")
)

// Clock returns the current time.
type Clock func() time.Time

type Service struct {
	now Clock
}

// NewService uses time.Now when clock is nil.
func NewService(clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{now: clock}
}

// Breakdown lists the components behind a discount.
type Breakdown struct {
	Volume   shared.Money
	Loyalty  shared.Money
	Seasonal shared.Money
	Total    shared.Money
}

// CalculateDiscount sums the volume, loyalty and seasonal discounts and caps
// the result at the order total.
func (s *Service) CalculateDiscount(o *order.Order, c *customer.Customer) (shared.Money, error) {
	b, err := s.Breakdown(o, c)
	if err != nil {
		return shared.Money{}, err
	}
	return b.Total, nil
}

func (s *Service) Breakdown(o *order.Order, c *customer.Customer) (Breakdown, error) {
	total := o.TotalAmount()
	now := s.now()

	b := Breakdown{
		Volume:   s.volume(total),
		Loyalty:  s.loyalty(total, c, now),
		Seasonal: s.seasonal(total, now),
	}

	sum, err := b.Volume.Add(b.Loyalty)
	if err != nil {
		return Breakdown{}, err
	}
	if sum, err = sum.Add(b.Seasonal); err != nil {
		return Breakdown{}, err
	}
	if b.Total, err = sum.Min(total); err != nil {
		return Breakdown{}, err
	}
	return b, nil
}

func (s *Service) volume(total shared.Money) shared.Money {
	if total.Amount().GreaterThan(volumeThreshold) {
		return total.MultiplyRate(volumeRate)
	}
	return shared.Zero(total.Currency())
}

func (s *Service) loyalty(total shared.Money, c *customer.Customer, now time.Time) shared.Money {
	if c != nil && c.RegisteredAt().AddDate(1, 0, 0).Before(now) {
		return total.MultiplyRate(loyaltyRate)
	}
	return shared.Zero(total.Currency())
}

func (s *Service) seasonal(total shared.Money, now time.Time) shared.Money {
	switch now.Month() {
	case time.December:
		return total.MultiplyRate(decemberRate)
	case time.March, time.July:
		return total.MultiplyRate(seasonRate)
	}
	return shared.Zero(total.Currency())
}
