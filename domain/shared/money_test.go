package shared

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyRoundsHalfUpToTwoDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10", "10.00"},
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"0.125", "0.13"},
		{"-2.345", "-2.35"},
		{"1999.999", "2000.00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := ParseMoney(tc.in, "USD")
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Amount().StringFixed(2))
			assert.Equal(t, int32(-2), m.Amount().Exponent())
		})
	}
}

func TestMoneyRejectsBadCurrency(t *testing.T) {
	for _, cur := range []string{"", "US", "DOLLAR", "12A"} {
		_, err := NewMoney(decimal.NewFromInt(1), cur)
		require.Error(t, err, cur)
		assert.True(t, errors.Is(err, ErrValidation))
	}

	m, err := NewMoney(decimal.NewFromInt(1), " jpy ")
	require.NoError(t, err)
	assert.Equal(t, "JPY", m.Currency())
}

func TestMoneyArithmetic(t *testing.T) {
	a := MustMoney("10.10", "EUR")
	b := MustMoney("2.55", "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equals(MustMoney("12.65", "EUR")))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(MustMoney("7.55", "EUR")))

	assert.True(t, b.Multiply(3).Equals(MustMoney("7.65", "EUR")))
	assert.True(t, MustMoney("6000", "EUR").MultiplyRate(decimal.RequireFromString("0.03")).Equals(MustMoney("180", "EUR")))

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.False(t, lt)

	// the receiver is never modified
	assert.Equal(t, "10.10", a.Amount().StringFixed(2))
}

func TestMoneyCurrencyMismatchIsValidationError(t *testing.T) {
	usd := MustMoney("1", "USD")
	eur := MustMoney("1", "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = usd.Subtract(eur)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = usd.GreaterThan(eur)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = usd.LessThan(eur)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = usd.Min(eur)
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, usd.Equals(eur))
}

func TestMoneyEqualityIsNumeric(t *testing.T) {
	a, err := NewMoney(decimal.RequireFromString("5.0"), "JPY")
	require.NoError(t, err)
	assert.True(t, a.Equals(MustMoney("5", "JPY")))
	assert.True(t, Zero("JPY").IsZero())
	assert.False(t, Zero("JPY").IsPositive())
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(MustMoney("1000", "JPY"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1000.00","currency":"JPY"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equals(MustMoney("1000", "JPY")))
}
