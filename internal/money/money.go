package money

import "github.com/shopspring/decimal"

func init() {
	// Collaborators exchange prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is a fixed-precision currency amount. Arithmetic never rounds;
// rounding to two decimal places happens only when a value is formatted
// for display or compared against an amount the operator was shown.
type Money struct {
	decimal.Decimal
}

// New wraps a decimal as Money.
func New(d decimal.Decimal) Money {
	return Money{d}
}

// Zero is the zero amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// FromString parses a decimal amount like "19.99".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// FromFloat converts a float amount. Intended for literals and test
// fixtures; wire values should round-trip through JSON instead.
func FromFloat(f float64) Money {
	return Money{decimal.NewFromFloat(f)}
}

// Add returns m + o exactly.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// MulQuantity returns m scaled by an integer quantity, exactly.
func (m Money) MulQuantity(q int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(q)))}
}

// MulRate returns m scaled by a rate such as a tax rate, exactly.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(rate)}
}

// Rounded returns m rounded to two decimal places, half away from zero.
// This is the amount the operator sees and settles against.
func (m Money) Rounded() Money {
	return Money{m.Decimal.Round(2)}
}

// GreaterThanOrEqual reports m >= o.
func (m Money) GreaterThanOrEqual(o Money) bool {
	return m.Decimal.GreaterThanOrEqual(o.Decimal)
}

// Equal reports exact equality of amounts.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Format renders m with the currency symbol and exactly two decimal
// places, rounding half away from zero.
func (m Money) Format() string {
	return "$" + m.Decimal.StringFixed(2)
}
