package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/money"
	"github.com/taxfolk/selfassess/internal/storage"
)

// Canonical names of the statutory figures in the constants store.
// Every tax year must define all of them; a missing one fails the
// computation before any arithmetic runs.
const (
	ConstPersonalAllowance        = "personal_allowance"
	ConstBasicRateThreshold       = "basic_rate_threshold"
	ConstHigherRateThreshold      = "higher_rate_threshold"
	ConstBasicTaxRate             = "basic_tax_rate"
	ConstHigherTaxRate            = "higher_tax_rate"
	ConstAdditionalTaxRate        = "additional_tax_rate"
	ConstPersonalSavingsAllowance = "personal_savings_allowance"
	ConstSavingsNilBand           = "savings_nil_band"
	ConstSavingsBasicRate         = "savings_basic_rate"
	ConstDividendsAllowance       = "dividends_allowance"
	ConstDividendsBasicRate       = "dividends_basic_rate"
	ConstTradingIncomeAllowance   = "trading_income_allowance"
	ConstPropertyIncomeAllowance  = "property_income_allowance"
	ConstMarriageAllowanceCap     = "marriage_allowance"
	ConstClass2WeeklyRate         = "class_2_weekly_rate"
	ConstNICWeeksInYear           = "nic_weeks_in_year"
	ConstSmallProfitsThreshold    = "small_profits_threshold"
	ConstClass4LowerProfitsLimit  = "class_4_lower_profits_limit"
	ConstClass4UpperProfitsLimit  = "class_4_upper_profits_limit"
	ConstClass4LowerRate          = "class_4_lower_rate"
	ConstClass4UpperRate          = "class_4_upper_rate"
	ConstVATRegistrationThreshold = "vat_registration_threshold"
	ConstWeeklyStatePension       = "weekly_state_pension"
)

// Names of the manual per-person decisions in the overrides store.
const (
	OverrideUseTradingAllowance   = "use_trading_allowance"
	OverrideDeductTradingExpenses = "deduct_trading_expenses"
)

// Constants is the full snapshot of statutory figures for one tax year.
// It is loaded once per computation; rates are percentages of gross
// amounts, thresholds and allowances are amounts in pounds.
type Constants struct {
	Year models.TaxYear

	PersonalAllowance   decimal.Decimal
	BasicRateThreshold  decimal.Decimal
	HigherRateThreshold decimal.Decimal
	BasicRate           money.Percentage
	HigherRate          money.Percentage
	AdditionalRate      money.Percentage

	// PersonalSavingsAllowance feeds the total-income checks;
	// SavingsNilBand is the 0% band in the savings tax step. They are
	// stored separately even though most years set them equal.
	PersonalSavingsAllowance decimal.Decimal
	SavingsNilBand           decimal.Decimal
	SavingsBasicRate         money.Percentage

	DividendsAllowance decimal.Decimal
	DividendsBasicRate money.Percentage

	TradingIncomeAllowance  decimal.Decimal
	PropertyIncomeAllowance decimal.Decimal
	MarriageAllowanceCap    decimal.Decimal

	Class2WeeklyRate        decimal.Decimal
	NICWeeksInYear          int
	SmallProfitsThreshold   decimal.Decimal
	Class4LowerProfitsLimit decimal.Decimal
	Class4UpperProfitsLimit decimal.Decimal
	Class4LowerRate         money.Percentage
	Class4UpperRate         money.Percentage

	VATRegistrationThreshold decimal.Decimal
	WeeklyStatePension       decimal.Decimal
}

// LoadConstants fetches the complete snapshot for a tax year, failing on
// the first missing or malformed figure.
func LoadConstants(ctx context.Context, src storage.Constants, year models.TaxYear) (*Constants, error) {
	c := &Constants{Year: year}

	amounts := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{ConstPersonalAllowance, &c.PersonalAllowance},
		{ConstBasicRateThreshold, &c.BasicRateThreshold},
		{ConstHigherRateThreshold, &c.HigherRateThreshold},
		{ConstPersonalSavingsAllowance, &c.PersonalSavingsAllowance},
		{ConstSavingsNilBand, &c.SavingsNilBand},
		{ConstDividendsAllowance, &c.DividendsAllowance},
		{ConstTradingIncomeAllowance, &c.TradingIncomeAllowance},
		{ConstPropertyIncomeAllowance, &c.PropertyIncomeAllowance},
		{ConstMarriageAllowanceCap, &c.MarriageAllowanceCap},
		{ConstClass2WeeklyRate, &c.Class2WeeklyRate},
		{ConstSmallProfitsThreshold, &c.SmallProfitsThreshold},
		{ConstClass4LowerProfitsLimit, &c.Class4LowerProfitsLimit},
		{ConstClass4UpperProfitsLimit, &c.Class4UpperProfitsLimit},
		{ConstVATRegistrationThreshold, &c.VATRegistrationThreshold},
		{ConstWeeklyStatePension, &c.WeeklyStatePension},
	}
	for _, a := range amounts {
		v, err := src.Constant(ctx, year, a.name)
		if err != nil {
			return nil, fmt.Errorf("loading constants for %s: %w", year, err)
		}
		*a.dst = v
	}

	rates := []struct {
		name string
		dst  *money.Percentage
	}{
		{ConstBasicTaxRate, &c.BasicRate},
		{ConstHigherTaxRate, &c.HigherRate},
		{ConstAdditionalTaxRate, &c.AdditionalRate},
		{ConstSavingsBasicRate, &c.SavingsBasicRate},
		{ConstDividendsBasicRate, &c.DividendsBasicRate},
		{ConstClass4LowerRate, &c.Class4LowerRate},
		{ConstClass4UpperRate, &c.Class4UpperRate},
	}
	for _, r := range rates {
		v, err := src.Constant(ctx, year, r.name)
		if err != nil {
			return nil, fmt.Errorf("loading constants for %s: %w", year, err)
		}
		*r.dst = money.NewPercentage(v)
	}

	weeks, err := src.Constant(ctx, year, ConstNICWeeksInYear)
	if err != nil {
		return nil, fmt.Errorf("loading constants for %s: %w", year, err)
	}
	if !weeks.IsInteger() || !weeks.IsPositive() {
		return nil, fmt.Errorf("constant %q must be a positive whole number, got %s", ConstNICWeeksInYear, weeks)
	}
	c.NICWeeksInYear = int(weeks.IntPart())

	return c, nil
}
