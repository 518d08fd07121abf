// Package calculator implements the pure tax-band and National
// Insurance arithmetic. Functions here take all statutory figures as
// arguments and never touch storage, so they are trivially testable and
// reusable across tax years.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
)

// BandRates carries the statutory figures for the three-band
// (basic/higher/additional) non-savings calculation. The limits are
// expressed relative to the taxable amount after the personal allowance
// has been consumed:
//
//	BasicRateLimit  = pension-adjusted basic threshold - effective allowance
//	HigherRateLimit = higher threshold - pension-adjusted basic threshold
type BandRates struct {
	BasicRateLimit  decimal.Decimal
	HigherRateLimit decimal.Decimal
	BasicRate       money.Percentage
	HigherRate      money.Percentage
	AdditionalRate  money.Percentage
}

// ApplyBands runs the shared progressive algorithm for non-savings
// income. It returns the tax due (rounded to 2 places) and the personal
// allowance left for the next income class.
func ApplyBands(amount, allowance decimal.Decimal, r BandRates) (tax, remaining decimal.Decimal) {
	if amount.LessThanOrEqual(allowance) {
		return decimal.Zero, allowance.Sub(amount)
	}
	taxable := amount.Sub(allowance)
	switch {
	case taxable.LessThanOrEqual(r.BasicRateLimit):
		tax = r.BasicRate.ApplyTo(taxable)
	case taxable.LessThanOrEqual(r.HigherRateLimit):
		tax = r.BasicRate.ApplyTo(r.BasicRateLimit).
			Add(r.HigherRate.ApplyTo(taxable.Sub(r.BasicRateLimit)))
	default:
		tax = r.BasicRate.ApplyTo(r.BasicRateLimit).
			Add(r.HigherRate.ApplyTo(r.HigherRateLimit.Sub(r.BasicRateLimit))).
			Add(r.AdditionalRate.ApplyTo(taxable.Sub(r.HigherRateLimit)))
	}
	return money.RoundTax(tax), decimal.Zero
}

// ApplySavingsBands runs the savings-specific two-tier calculation:
// whatever personal allowance remains is consumed first, then the
// savings nil band at 0%, then the savings basic rate.
func ApplySavingsBands(amount, allowance, nilBand decimal.Decimal, basicRate money.Percentage) (tax, remaining decimal.Decimal) {
	if amount.LessThanOrEqual(allowance) {
		return decimal.Zero, allowance.Sub(amount)
	}
	taxable := amount.Sub(allowance)
	if taxable.LessThanOrEqual(nilBand) {
		return decimal.Zero, decimal.Zero
	}
	tax = basicRate.ApplyTo(taxable.Sub(nilBand))
	return money.RoundTax(tax), decimal.Zero
}

// ApplyDividendBands runs the dividends-specific calculation: remaining
// personal allowance, then the dividends allowance at 0%, then the flat
// dividend basic rate.
func ApplyDividendBands(amount, allowance, dividendsAllowance decimal.Decimal, basicRate money.Percentage) (tax, remaining decimal.Decimal) {
	if amount.LessThanOrEqual(allowance) {
		return decimal.Zero, allowance.Sub(amount)
	}
	taxable := amount.Sub(allowance)
	if taxable.LessThanOrEqual(dividendsAllowance) {
		return decimal.Zero, decimal.Zero
	}
	tax = basicRate.ApplyTo(taxable.Sub(dividendsAllowance))
	return money.RoundTax(tax), decimal.Zero
}
