package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/money"
)

// Property expense sub-items are summed per sub-category so each rounds
// up to whole pounds independently before the total is formed.
var propertyExpenseSubItems = []string{
	"rent, rates",
	"repairs and maintenance",
	"legal",
}

// ledgerSum fetches a prefix sum from the ledger for this person's year.
func (c *Computation) ledgerSum(ctx context.Context, prefix string) (decimal.Decimal, error) {
	return c.store.SumByCategoryPrefix(ctx, c.consts.Year, prefix)
}

// assertSingleBusiness fails when the ledger holds more than one
// distinct self-employment category for the person.
func (c *Computation) assertSingleBusiness(ctx context.Context, prefix string) error {
	n, err := c.store.CountDistinctCategories(ctx, c.consts.Year, prefix)
	if err != nil {
		return err
	}
	if n > 1 {
		return fmt.Errorf("%w: %s has %d in %s", ErrMultipleBusinesses, c.person.Code, n, c.consts.Year)
	}
	return nil
}

// TradingIncome is the person's self-employment turnover, rounded down
// to whole pounds. At most one business is supported.
func (c *Computation) TradingIncome(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "trading_income", func(ctx context.Context) (decimal.Decimal, error) {
		prefix := models.IncomePrefix(c.person.Code, models.SelfEmployment)
		if err := c.assertSingleBusiness(ctx, prefix); err != nil {
			return decimal.Zero, err
		}
		sum, err := c.ledgerSum(ctx, prefix)
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundDownWhole(sum), nil
	})
}

// TradingExpensesActual is the person's recorded self-employment
// expenses as a positive amount, rounded up to whole pounds. Expense
// rows are stored as negative nett amounts.
func (c *Computation) TradingExpensesActual(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "trading_expenses_actual", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.ledgerSum(ctx, models.ExpensePrefix(c.person.Code, models.SelfEmployment))
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundUpWhole(sum.Neg()), nil
	})
}

// UseTradingAllowance reports whether the trading income allowance is
// claimed in place of actual expenses. A stored override wins; otherwise
// the allowance is claimed exactly when it exceeds actual expenses.
func (c *Computation) UseTradingAllowance(ctx context.Context) (bool, error) {
	override, err := c.store.Override(ctx, c.person.Code, c.consts.Year, OverrideUseTradingAllowance)
	if err != nil {
		return false, err
	}
	if override != nil {
		return *override, nil
	}
	expenses, err := c.TradingExpensesActual(ctx)
	if err != nil {
		return false, err
	}
	return c.consts.TradingIncomeAllowance.GreaterThan(expenses), nil
}

// DeductTradingExpenses reports whether actual expenses are deducted.
// This is not the negation of UseTradingAllowance: overrides can force
// both off, in which case no outgo is deducted at all.
func (c *Computation) DeductTradingExpenses(ctx context.Context) (bool, error) {
	override, err := c.store.Override(ctx, c.person.Code, c.consts.Year, OverrideDeductTradingExpenses)
	if err != nil {
		return false, err
	}
	if override != nil {
		return *override, nil
	}
	expenses, err := c.TradingExpensesActual(ctx)
	if err != nil {
		return false, err
	}
	return expenses.GreaterThan(c.consts.TradingIncomeAllowance), nil
}

// TradingOutgo is the amount deducted from turnover: the allowance when
// claimed, the actual expenses when deducted, the larger when both are
// in force, zero when neither is.
func (c *Computation) TradingOutgo(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "trading_outgo", func(ctx context.Context) (decimal.Decimal, error) {
		useAllowance, err := c.UseTradingAllowance(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		deductExpenses, err := c.DeductTradingExpenses(ctx)
		if err != nil {
			return decimal.Zero, err
		}

		outgo := decimal.Zero
		if useAllowance {
			outgo = c.consts.TradingIncomeAllowance
		}
		if deductExpenses {
			expenses, err := c.TradingExpensesActual(ctx)
			if err != nil {
				return decimal.Zero, err
			}
			if expenses.GreaterThan(outgo) {
				outgo = expenses
			}
		}
		return outgo, nil
	})
}

// TradingProfit is turnover less outgo, floored at zero.
func (c *Computation) TradingProfit(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "trading_profit", func(ctx context.Context) (decimal.Decimal, error) {
		income, err := c.TradingIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		outgo, err := c.TradingOutgo(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.MaxZero(income.Sub(outgo)), nil
	})
}

// TradingLoss is the excess of actual expenses over turnover, floored at
// zero. Reported for carry-forward even when the allowance was claimed.
func (c *Computation) TradingLoss(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "trading_loss", func(ctx context.Context) (decimal.Decimal, error) {
		income, err := c.TradingIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		expenses, err := c.TradingExpensesActual(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.MaxZero(expenses.Sub(income)), nil
	})
}

// PropertyIncome is UK property rent received, rounded down to whole
// pounds.
func (c *Computation) PropertyIncome(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "property_income", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.ledgerSum(ctx, models.IncomePrefix(c.person.Code, models.UKProperty))
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundDownWhole(sum), nil
	})
}

// PropertyExpensesActual totals the property expense sub-items, each
// rounded up to whole pounds before the total is formed.
func (c *Computation) PropertyExpensesActual(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "property_expenses_actual", func(ctx context.Context) (decimal.Decimal, error) {
		total := decimal.Zero
		for _, sub := range propertyExpenseSubItems {
			sum, err := c.ledgerSum(ctx, models.ExpenseSubPrefix(c.person.Code, models.UKProperty, sub))
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(money.RoundUpWhole(sum.Neg()))
		}
		return total, nil
	})
}

// PropertyOutgo is the larger of the property income allowance and the
// actual expenses. Property has no manual overrides.
func (c *Computation) PropertyOutgo(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "property_outgo", func(ctx context.Context) (decimal.Decimal, error) {
		expenses, err := c.PropertyExpensesActual(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		if c.consts.PropertyIncomeAllowance.GreaterThan(expenses) {
			return c.consts.PropertyIncomeAllowance, nil
		}
		return expenses, nil
	})
}

// PropertyProfit is rent received less outgo, floored at zero.
func (c *Computation) PropertyProfit(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "property_profit", func(ctx context.Context) (decimal.Decimal, error) {
		income, err := c.PropertyIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		outgo, err := c.PropertyOutgo(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.MaxZero(income.Sub(outgo)), nil
	})
}

// SavingsIncome is bank and other interest, rounded down to whole pounds.
func (c *Computation) SavingsIncome(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "savings_income", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.ledgerSum(ctx, models.IncomePrefix(c.person.Code, models.Interest))
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundDownWhole(sum), nil
	})
}

// DividendsIncome is dividend receipts, rounded down to whole pounds.
func (c *Computation) DividendsIncome(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "dividends_income", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.ledgerSum(ctx, models.IncomePrefix(c.person.Code, models.Dividends))
		if err != nil {
			return decimal.Zero, err
		}
		return money.RoundDownWhole(sum), nil
	})
}

// TotalIncomeReceived is the sum of the four income classes after
// per-class deductions.
func (c *Computation) TotalIncomeReceived(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "total_income_received", func(ctx context.Context) (decimal.Decimal, error) {
		trading, err := c.TradingProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		property, err := c.PropertyProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		savings, err := c.SavingsIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		dividends, err := c.DividendsIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return money.Sum(trading, property, savings, dividends), nil
	})
}

// TotalIncomeExcludingTaxFreeSavings backs the marriage allowance
// claiming check, which disregards interest covered by the savings
// allowance.
func (c *Computation) TotalIncomeExcludingTaxFreeSavings(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "total_income_excluding_tax_free_savings", func(ctx context.Context) (decimal.Decimal, error) {
		total, err := c.TotalIncomeReceived(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		savings, err := c.SavingsIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		taxFree := money.Min(savings, c.consts.PersonalSavingsAllowance)
		return total.Sub(taxFree), nil
	})
}

// NonSavingsIncome is the amount taxed under the three main bands.
func (c *Computation) NonSavingsIncome(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "non_savings_income", func(ctx context.Context) (decimal.Decimal, error) {
		trading, err := c.TradingProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		property, err := c.PropertyProfit(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return trading.Add(property), nil
	})
}

// PensionPayments is the total paid into relief-at-source pensions,
// which raises the basic rate threshold pound for pound.
func (c *Computation) PensionPayments(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "pension_payments", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.ledgerSum(ctx, models.PensionReliefPrefix(c.person.Code))
		if err != nil {
			return decimal.Zero, err
		}
		return sum.Neg(), nil
	})
}

// PensionContributions is the exact-category contribution figure used in
// reporting.
func (c *Computation) PensionContributions(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "pension_contributions", func(ctx context.Context) (decimal.Decimal, error) {
		sum, err := c.store.SumByCategory(ctx, c.consts.Year, models.PensionContributionCategory(c.person.Code))
		if err != nil {
			return decimal.Zero, err
		}
		return sum.Neg(), nil
	})
}

// ResidentialProperties lists the postcodes of let properties found in
// the ledger.
func (c *Computation) ResidentialProperties(ctx context.Context) ([]string, error) {
	categories, err := c.store.DistinctCategories(ctx, c.consts.Year, models.RentReceivedPrefix(c.person.Code))
	if err != nil {
		return nil, err
	}
	var postcodes []string
	for _, cat := range categories {
		if postcode, ok := models.RentalPostcode(cat, c.person.Code); ok {
			postcodes = append(postcodes, postcode)
		}
	}
	return postcodes, nil
}

// BusinessNames lists the self-employment business names found in the
// ledger. More than one is an error elsewhere; the listing itself stays
// descriptive.
func (c *Computation) BusinessNames(ctx context.Context) ([]string, error) {
	categories, err := c.store.DistinctCategories(ctx, c.consts.Year, models.IncomePrefix(c.person.Code, models.SelfEmployment))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, cat := range categories {
		if name, ok := models.BusinessName(cat, c.person.Code); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
