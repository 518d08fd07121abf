package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
)

// Class2Inputs carries the statutory figures for the flat-rate class 2
// National Insurance decision.
type Class2Inputs struct {
	WeeklyRate            decimal.Decimal
	WeeksInYear           int
	PersonalAllowance     decimal.Decimal
	SmallProfitsThreshold decimal.Decimal

	// VoluntaryElected reports whether the person wants to pay
	// voluntarily below the small-profits threshold to protect
	// state-pension entitlement.
	VoluntaryElected bool
}

// AnnualAmount is the flat class 2 charge for a full year.
func (in Class2Inputs) AnnualAmount() decimal.Decimal {
	return in.WeeklyRate.Mul(decimal.NewFromInt(int64(in.WeeksInYear)))
}

// Class2Due applies the three-way class 2 rule to trading profit:
// due in full at or above the personal allowance, deemed already paid
// between the small-profits threshold and the allowance, voluntary
// below the small-profits threshold.
func Class2Due(tradingProfit decimal.Decimal, in Class2Inputs) decimal.Decimal {
	if tradingProfit.GreaterThanOrEqual(in.PersonalAllowance) {
		return in.AnnualAmount()
	}
	if tradingProfit.GreaterThanOrEqual(in.SmallProfitsThreshold) {
		return decimal.Zero
	}
	if in.VoluntaryElected {
		return in.AnnualAmount()
	}
	return decimal.Zero
}

// Class4Inputs carries the statutory figures for the profit-proportional
// class 4 calculation.
type Class4Inputs struct {
	LowerProfitsLimit decimal.Decimal
	UpperProfitsLimit decimal.Decimal
	LowerRate         money.Percentage
	UpperRate         money.Percentage
}

// Class4Due applies the three-tier class 4 rule to trading profit:
// nothing below the lower limit, the lower rate on profit between the
// limits, and the upper rate on profit beyond the upper limit.
func Class4Due(tradingProfit decimal.Decimal, in Class4Inputs) decimal.Decimal {
	if tradingProfit.LessThanOrEqual(in.LowerProfitsLimit) {
		return decimal.Zero
	}
	if tradingProfit.LessThanOrEqual(in.UpperProfitsLimit) {
		return money.RoundTax(in.LowerRate.ApplyTo(tradingProfit.Sub(in.LowerProfitsLimit)))
	}
	lowerBand := in.LowerRate.ApplyTo(in.UpperProfitsLimit.Sub(in.LowerProfitsLimit))
	upperBand := in.UpperRate.ApplyTo(tradingProfit.Sub(in.UpperProfitsLimit))
	return money.RoundTax(lowerBand.Add(upperBand))
}
