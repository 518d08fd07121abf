package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/calculator"
	"github.com/taxfolk/selfassess/internal/money"
)

var two = decimal.NewFromInt(2)

// RevisedBasicRateThreshold is the basic rate threshold raised pound for
// pound by relief-at-source pension payments.
func (c *Computation) RevisedBasicRateThreshold(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "revised_basic_rate_threshold", func(ctx context.Context) (decimal.Decimal, error) {
		pension, err := c.PensionPayments(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return c.consts.BasicRateThreshold.Add(pension), nil
	})
}

// bandRates assembles the three-band figures relative to the amount left
// after the effective allowance.
func (c *Computation) bandRates(ctx context.Context) (calculator.BandRates, error) {
	revised, err := c.RevisedBasicRateThreshold(ctx)
	if err != nil {
		return calculator.BandRates{}, err
	}
	allowance, err := c.EffectiveAllowance(ctx)
	if err != nil {
		return calculator.BandRates{}, err
	}
	return calculator.BandRates{
		BasicRateLimit:  revised.Sub(allowance),
		HigherRateLimit: c.consts.HigherRateThreshold.Sub(revised),
		BasicRate:       c.consts.BasicRate,
		HigherRate:      c.consts.HigherRate,
		AdditionalRate:  c.consts.AdditionalRate,
	}, nil
}

// incomeTaxParts runs the shared banding across the three income classes
// in statutory order, threading the unused allowance from one class to
// the next.
func (c *Computation) incomeTaxParts(ctx context.Context) (nonSavings, savings, dividends decimal.Decimal, err error) {
	rates, err := c.bandRates(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	allowance, err := c.EffectiveAllowance(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	nonSavingsIncome, err := c.NonSavingsIncome(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	nonSavings, remaining := calculator.ApplyBands(nonSavingsIncome, allowance, rates)

	savingsIncome, err := c.SavingsIncome(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	savings, remaining = calculator.ApplySavingsBands(savingsIncome, remaining, c.consts.SavingsNilBand, c.consts.SavingsBasicRate)

	dividendsIncome, err := c.DividendsIncome(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	dividends, _ = calculator.ApplyDividendBands(dividendsIncome, remaining, c.consts.DividendsAllowance, c.consts.DividendsBasicRate)

	return nonSavings, savings, dividends, nil
}

// NonSavingsTax is the three-band tax on trading and property profit.
func (c *Computation) NonSavingsTax(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "non_savings_tax", func(ctx context.Context) (decimal.Decimal, error) {
		t, _, _, err := c.incomeTaxParts(ctx)
		return t, err
	})
}

// SavingsTax is the tax on interest after the carried allowance and the
// savings allowance.
func (c *Computation) SavingsTax(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "savings_tax", func(ctx context.Context) (decimal.Decimal, error) {
		_, t, _, err := c.incomeTaxParts(ctx)
		return t, err
	})
}

// DividendsTax is the tax on dividends after the carried allowance and
// the dividends allowance.
func (c *Computation) DividendsTax(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "dividends_tax", func(ctx context.Context) (decimal.Decimal, error) {
		_, _, t, err := c.incomeTaxParts(ctx)
		return t, err
	})
}

// IncomeTax is the total income tax across the three classes.
func (c *Computation) IncomeTax(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "income_tax", func(ctx context.Context) (decimal.Decimal, error) {
		nonSavings, savings, dividends, err := c.incomeTaxParts(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.Sum(nonSavings, savings, dividends), nil
	})
}

// WantsVoluntaryClass2 reports whether the person elects to pay class 2
// voluntarily. The question only arises below the small-profits
// threshold; above it the answer is no because payment is mandatory or
// deemed made.
func (c *Computation) WantsVoluntaryClass2(ctx context.Context) (bool, error) {
	profit, err := c.TradingProfit(ctx)
	if err != nil {
		return false, err
	}
	if profit.GreaterThanOrEqual(c.consts.SmallProfitsThreshold) {
		return false, nil
	}
	return c.person.NICsNeededForStatePension, nil
}

// Class2NICs is the flat-rate class 2 charge.
func (c *Computation) Class2NICs(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "class_2_nics", func(ctx context.Context) (decimal.Decimal, error) {
		profit, err := c.TradingProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		voluntary, err := c.WantsVoluntaryClass2(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return calculator.Class2Due(profit, calculator.Class2Inputs{
			WeeklyRate:            c.consts.Class2WeeklyRate,
			WeeksInYear:           c.consts.NICWeeksInYear,
			PersonalAllowance:     c.consts.PersonalAllowance,
			SmallProfitsThreshold: c.consts.SmallProfitsThreshold,
			VoluntaryElected:      voluntary,
		}), nil
	})
}

// Class4NICs is the profit-proportional class 4 charge.
func (c *Computation) Class4NICs(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "class_4_nics", func(ctx context.Context) (decimal.Decimal, error) {
		profit, err := c.TradingProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return calculator.Class4Due(profit, calculator.Class4Inputs{
			LowerProfitsLimit: c.consts.Class4LowerProfitsLimit,
			UpperProfitsLimit: c.consts.Class4UpperProfitsLimit,
			LowerRate:         c.consts.Class4LowerRate,
			UpperRate:         c.consts.Class4UpperRate,
		}), nil
	})
}

// TotalTaxDue is income tax plus both NIC classes.
func (c *Computation) TotalTaxDue(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "total_tax_due", func(ctx context.Context) (decimal.Decimal, error) {
		incomeTax, err := c.IncomeTax(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		class2, err := c.Class2NICs(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		class4, err := c.Class4NICs(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.Sum(incomeTax, class2, class4), nil
	})
}

// PaymentOnAccount is each of the two advance payments toward next
// year: half of income tax plus class 4. Class 2 is excluded.
func (c *Computation) PaymentOnAccount(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "payment_on_account", func(ctx context.Context) (decimal.Decimal, error) {
		incomeTax, err := c.IncomeTax(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		class4, err := c.Class4NICs(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundTax(incomeTax.Add(class4).Div(two)), nil
	})
}

// TotalDueByFilingDeadline is what must actually be paid by 31 January:
// the year's full liability plus the first payment on account.
func (c *Computation) TotalDueByFilingDeadline(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "total_due_by_filing_deadline", func(ctx context.Context) (decimal.Decimal, error) {
		total, err := c.TotalTaxDue(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		poa, err := c.PaymentOnAccount(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return total.Add(poa), nil
	})
}
