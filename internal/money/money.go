// Package money provides exact-decimal monetary arithmetic for the tax
// engine. All amounts are shopspring decimals; binary floating point is
// never used for money.
//
// Rounding policy, matching HMRC treatment of ledger figures:
//   - ledger totals are rounded half-even to 2 places (RoundLedger)
//   - income figures are floored to whole pounds (RoundDownWhole)
//   - expense sub-items are rounded up to whole pounds (RoundUpWhole)
//   - computed tax amounts are rounded half-up to 2 places (RoundTax)
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Penny is the smallest representable amount, used for blank-vs-print
// decisions in report output.
var Penny = decimal.New(1, -2)

// RoundLedger rounds a summed ledger total to 2 decimal places using
// banker's (half-even) rounding.
func RoundLedger(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// RoundTax rounds a computed tax amount to 2 decimal places, half away
// from zero.
func RoundTax(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundDownWhole truncates toward zero to whole currency units.
func RoundDownWhole(d decimal.Decimal) decimal.Decimal {
	return d.RoundDown(0)
}

// RoundUpWhole rounds away from zero to whole currency units.
func RoundUpWhole(d decimal.Decimal) decimal.Decimal {
	return d.RoundUp(0)
}

// Sum adds a list of amounts with exact addition.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MaxZero clamps a negative amount to zero.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// FormatGBP renders an amount as a currency string with thousand
// grouping, e.g. "£1,234.56". Negative amounts render as "-£12.34".
func FormatGBP(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "£" + groupThousands(whole) + "." + frac
}

// FormatGBPOrBlank renders an amount as GBP, or an empty string when the
// absolute value is below one penny. Report code relies on this so that
// zero boxes stay blank without tax-domain knowledge.
func FormatGBPOrBlank(d decimal.Decimal) string {
	if d.Abs().LessThan(Penny) {
		return ""
	}
	return FormatGBP(d)
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
