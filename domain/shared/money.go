package shared

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale number of fractional digits kept on every amount
const MoneyScale = 2

// DefaultCurrency is used for the zero total of an order without items.
const DefaultCurrency = "JPY"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Money is an immutable decimal amount in a single currency. The amount is
// always rounded half-up to two fractional digits.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney rounds amount and validates the currency code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return Money{}, NewValidationError("money", "currency", "must be a 3-letter currency code")
	}
	return Money{amount: amount.Round(MoneyScale), currency: currency}, nil
}

// ParseMoney builds Money from a decimal string such as "1999.995".
func ParseMoney(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, NewValidationError("money", "amount", "not a decimal number: "+amount)
	}
	return NewMoney(d, currency)
}

// MustMoney panics on invalid input; meant for constants and fixtures.
func MustMoney(amount, currency string) Money {
	m, err := ParseMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns 0.00 in currency.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero.Round(MoneyScale), currency: strings.ToUpper(currency)}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return NewValidationError("money", "currency",
			"cannot "+op+" "+m.currency+" and "+other.currency)
	}
	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount).Round(MoneyScale), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount).Round(MoneyScale), currency: m.currency}, nil
}

// Multiply scales by an integer factor, e.g. a line quantity.
func (m Money) Multiply(factor int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(factor))).Round(MoneyScale), currency: m.currency}
}

// MultiplyRate scales by a decimal rate (0.05 for five percent).
func (m Money) MultiplyRate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate).Round(MoneyScale), currency: m.currency}
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// Min returns the smaller of the two amounts.
func (m Money) Min(other Money) (Money, error) {
	less, err := m.LessThan(other)
	if err != nil {
		return Money{}, err
	}
	if less {
		return m, nil
	}
	return other, nil
}

// Equals compares numerically, so 10.0 and 10.00 are equal.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale) + " " + m.currency
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(MoneyScale), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
