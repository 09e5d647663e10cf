package order

import "fmt"

// Status is the full order lifecycle.
type Status string

const (
	StatusCreated        Status = "CREATED"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusProcessing     Status = "PROCESSING"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
	StatusReturned       Status = "RETURNED"
)

var allStatuses = []Status{
	StatusCreated, StatusPendingPayment, StatusPaid, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled, StatusReturned,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) String() string { return string(s) }

// IsEditable items and addresses may change
func (s Status) IsEditable() bool {
	return s == StatusCreated || s == StatusPendingPayment
}

func (s Status) IsCancellable() bool {
	switch s {
	case StatusCreated, StatusPendingPayment, StatusPaid, StatusProcessing:
		return true
	}
	return false
}

func (s Status) IsShippable() bool {
	return s == StatusPaid || s == StatusProcessing
}

func (s Status) IsFinalized() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// ReducedStatus is the four-state view used by simpler call sites.
type ReducedStatus string

const (
	ReducedCreated   ReducedStatus = "CREATED"
	ReducedPlaced    ReducedStatus = "PLACED"
	ReducedCancelled ReducedStatus = "CANCELLED"
	ReducedCompleted ReducedStatus = "COMPLETED"
)

// Reduced projects the full status onto the four-state view. Editable
// states read as CREATED, committed but undelivered states as PLACED.
func (s Status) Reduced() ReducedStatus {
	switch s {
	case StatusCreated, StatusPendingPayment:
		return ReducedCreated
	case StatusPaid, StatusProcessing, StatusShipped:
		return ReducedPlaced
	case StatusDelivered:
		return ReducedCompleted
	default:
		return ReducedCancelled
	}
}
