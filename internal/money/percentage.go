package money

import "github.com/shopspring/decimal"

// Percentage is a rate out of 100 (20.00 means 20%), stored at
// 2-decimal-place precision.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage builds a Percentage from a decimal rate, rounding the
// stored rate to 2 places half-up.
func NewPercentage(rate decimal.Decimal) Percentage {
	return Percentage{value: rate.Round(2)}
}

// PercentFromString parses a rate string such as "20" or "8.25".
// It panics on malformed input, so it is intended for constants and
// tests; runtime rates come from the constants store as decimals.
func PercentFromString(s string) Percentage {
	return NewPercentage(decimal.RequireFromString(s))
}

// Add returns the sum of two rates.
func (p Percentage) Add(o Percentage) Percentage {
	return NewPercentage(p.value.Add(o.value))
}

// Sub returns the difference of two rates.
func (p Percentage) Sub(o Percentage) Percentage {
	return NewPercentage(p.value.Sub(o.value))
}

// Cmp compares two rates: -1 if p < o, 0 if equal, +1 if p > o.
func (p Percentage) Cmp(o Percentage) int {
	return p.value.Cmp(o.value)
}

// IsZero reports whether the rate is zero.
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// ApplyTo multiplies an amount by the rate and divides by 100, exactly.
// Callers round the result per their own field policy.
func (p Percentage) ApplyTo(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred)
}

// Decimal returns the stored rate (out of 100).
func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

func (p Percentage) String() string {
	return p.value.StringFixed(2) + "%"
}
