package order

import (
	"context"
	"time"

	"ordercore/domain/shared"
)

// ByCustomerIDSpecification filters orders placed by one customer
type ByCustomerIDSpecification struct {
	CustomerID string
}

func (spec ByCustomerIDSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.CustomerID() == spec.CustomerID
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.Status() == spec.Status
}

// ByDateRangeSpecification filters by creation time; zero bounds are open.
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec ByDateRangeSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	createdAt := o.CreatedAt()
	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}

// ContainsProductSpecification matches orders with a line for ProductID.
type ContainsProductSpecification struct {
	ProductID string
}

func (spec ContainsProductSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	for _, item := range o.items {
		if item.productID == spec.ProductID {
			return true
		}
	}
	return false
}

func NewByCustomerIDSpecification(customerID string) shared.Specification[*Order] {
	return ByCustomerIDSpecification{CustomerID: customerID}
}

func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByDateRangeSpecification{Start: start, End: end}
}

func NewContainsProductSpecification(productID string) shared.Specification[*Order] {
	return ContainsProductSpecification{ProductID: productID}
}
