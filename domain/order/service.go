package order

import (
	"time"

	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
)

// DomainService holds order rules that need input from outside the
// aggregate. It never persists anything.
type DomainService struct{}

func NewDomainService() *DomainService {
	return &DomainService{}
}

// CalculateTax applies rate (0.1 for ten percent) to the order total.
func (s *DomainService) CalculateTax(o *Order, rate decimal.Decimal) (shared.Money, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.Money{}, shared.NewValidationError("order", "tax_rate", "must be between 0 and 1")
	}
	return o.TotalAmount().MultiplyRate(rate), nil
}

// IsOrderExpired reports whether a CREATED order has been left untouched
// for longer than the given number of hours. Orders past CREATED never
// expire.
func (s *DomainService) IsOrderExpired(o *Order, hours int, now time.Time) bool {
	if o.Status() != StatusCreated {
		return false
	}
	return now.Sub(o.CreatedAt()) > time.Duration(hours)*time.Hour
}
