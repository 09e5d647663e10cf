package order

import (
	"testing"
	"time"

	"ordercore/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTax(t *testing.T) {
	svc := NewDomainService()
	o := newTestOrder(t)
	addItem(t, o, "A", "1000", 3)

	tax, err := svc.CalculateTax(o, decimal.RequireFromString("0.1"))
	require.NoError(t, err)
	assert.True(t, tax.Equals(shared.MustMoney("300", "JPY")))

	_, err = svc.CalculateTax(o, decimal.RequireFromString("1.5"))
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CalculateTax(o, decimal.RequireFromString("-0.1"))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestIsOrderExpired(t *testing.T) {
	svc := NewDomainService()
	o := newTestOrder(t)

	assert.False(t, svc.IsOrderExpired(o, 24, time.Now()))
	assert.True(t, svc.IsOrderExpired(o, 24, time.Now().Add(25*time.Hour)))

	addItem(t, o, "A", "1", 1)
	require.NoError(t, o.MarkAsPaid())
	assert.False(t, svc.IsOrderExpired(o, 24, time.Now().Add(48*time.Hour)))
}
