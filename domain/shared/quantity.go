package shared

import "strconv"

// Quantity is a non-negative count of units.
type Quantity struct {
	value int
}

func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, NewValidationError("quantity", "value", "must not be negative, got "+strconv.Itoa(value))
	}
	return Quantity{value: value}, nil
}

// MustQuantity panics on a negative value; fixtures only.
func MustQuantity(value int) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Value() int   { return q.value }
func (q Quantity) IsZero() bool { return q.value == 0 }

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Subtract fails instead of going below zero.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, NewValidationError("quantity", "value",
			"cannot subtract "+strconv.Itoa(other.value)+" from "+strconv.Itoa(q.value))
	}
	return Quantity{value: q.value - other.value}, nil
}

func (q Quantity) Multiply(factor int) (Quantity, error) {
	return NewQuantity(q.value * factor)
}

func (q Quantity) IsGreaterThan(other Quantity) bool { return q.value > other.value }
func (q Quantity) IsLessThan(other Quantity) bool    { return q.value < other.value }
func (q Quantity) Equals(other Quantity) bool        { return q.value == other.value }

func (q Quantity) String() string { return strconv.Itoa(q.value) }
