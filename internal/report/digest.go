// Package report turns a finished computation into human-readable text:
// short per-income digests, a one-screen overview, the box-by-box
// return answers, and ledger breakdown listings.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/money"
	"github.com/taxfolk/selfassess/internal/tax"
)

func joinDigest(parts []string) string {
	return "\n" + strings.Join(parts, " | ")
}

// hasRows reports whether the ledger holds any rows of one income type
// for the person, so empty income classes stay out of the overview.
func hasRows(ctx context.Context, c *tax.Computation, t models.IncomeType) (bool, error) {
	rows, err := c.Breakdown(ctx, models.TypePrefix(c.Person().Code, t))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// incomeDigest renders the common income/deductible/taxable line.
func incomeDigest(label string, income, deductible decimal.Decimal, deductibleLabel string, extra ...string) string {
	parts := append([]string{}, extra...)
	parts = append(parts,
		fmt.Sprintf("%s income: %s", strings.ToUpper(label), money.FormatGBP(income)),
		fmt.Sprintf("%s %s: %s", label, deductibleLabel, money.FormatGBP(deductible)),
		fmt.Sprintf("taxable %s: %s", label, money.FormatGBP(money.MaxZero(income.Sub(deductible)))),
	)
	return joinDigest(parts)
}

// TradingDigest summarizes self-employment income for the overview.
// Empty when the ledger has no trading rows.
func TradingDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.SelfEmployment)
	if err != nil || !present {
		return "", err
	}
	income, err := c.TradingIncome(ctx)
	if err != nil {
		return "", err
	}
	outgo, err := c.TradingOutgo(ctx)
	if err != nil {
		return "", err
	}
	useAllowance, err := c.UseTradingAllowance(ctx)
	if err != nil {
		return "", err
	}
	label := "expenses"
	if useAllowance {
		label = "allowance"
	}
	flag := fmt.Sprintf("use trading allowance: %s", FormatBool(useAllowance))
	return incomeDigest("trading", income, outgo, label, flag), nil
}

// PropertyDigest summarizes UK property income for the overview.
func PropertyDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.UKProperty)
	if err != nil || !present {
		return "", err
	}
	income, err := c.PropertyIncome(ctx)
	if err != nil {
		return "", err
	}
	outgo, err := c.PropertyOutgo(ctx)
	if err != nil {
		return "", err
	}
	expenses, err := c.PropertyExpensesActual(ctx)
	if err != nil {
		return "", err
	}
	label := "expenses"
	if c.Constants().PropertyIncomeAllowance.GreaterThan(expenses) {
		label = "allowance"
	}
	return incomeDigest("property", income, outgo, label), nil
}

// SavingsDigest summarizes interest income for the overview.
func SavingsDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.Interest)
	if err != nil || !present {
		return "", err
	}
	income, err := c.SavingsIncome(ctx)
	if err != nil {
		return "", err
	}
	return incomeDigest("savings", income, c.Constants().PersonalSavingsAllowance, "allowance"), nil
}

// DividendsDigest summarizes dividend income for the overview.
func DividendsDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.Dividends)
	if err != nil || !present {
		return "", err
	}
	income, err := c.DividendsIncome(ctx)
	if err != nil {
		return "", err
	}
	return incomeDigest("dividends", income, c.Constants().DividendsAllowance, "allowance"), nil
}

// CombinedTaxDigest summarizes the three-band tax on trading plus
// property profit.
func CombinedTaxDigest(ctx context.Context, c *tax.Computation) (string, error) {
	profit, err := c.NonSavingsIncome(ctx)
	if err != nil {
		return "", err
	}
	allowance, err := c.EffectiveAllowance(ctx)
	if err != nil {
		return "", err
	}
	bandTax, err := c.NonSavingsTax(ctx)
	if err != nil {
		return "", err
	}
	class2, err := c.Class2NICs(ctx)
	if err != nil {
		return "", err
	}
	class4, err := c.Class4NICs(ctx)
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("Combined taxable profit: %s", money.FormatGBP(profit)),
		fmt.Sprintf("personal allowance: %s", money.FormatGBP(allowance)),
		fmt.Sprintf("taxable amount: %s", money.FormatGBP(money.MaxZero(profit.Sub(allowance)))),
		fmt.Sprintf("tax: %s", money.FormatGBP(bandTax)),
		fmt.Sprintf("class 2 nics: %s", money.FormatGBP(class2)),
		fmt.Sprintf("class 4 nics: %s", money.FormatGBP(class4)),
	}
	return joinDigest(parts), nil
}

// unusedAllowanceAfterNonSavings is the personal allowance carried into
// the savings calculation.
func unusedAllowanceAfterNonSavings(ctx context.Context, c *tax.Computation) (decimal.Decimal, error) {
	allowance, err := c.EffectiveAllowance(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	profit, err := c.NonSavingsIncome(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return money.MaxZero(allowance.Sub(profit)), nil
}

// SavingsTaxDigest summarizes the savings tax step, including the
// allowance carried over from the non-savings bands.
func SavingsTaxDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.Interest)
	if err != nil || !present {
		return "", err
	}
	income, err := c.SavingsIncome(ctx)
	if err != nil {
		return "", err
	}
	taxable := money.MaxZero(income.Sub(c.Constants().SavingsNilBand))
	unused, err := unusedAllowanceAfterNonSavings(ctx, c)
	if err != nil {
		return "", err
	}
	bandTax, err := c.SavingsTax(ctx)
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("taxable savings: %s", money.FormatGBP(taxable)),
		fmt.Sprintf("unused personal allowance: %s", money.FormatGBP(unused)),
		fmt.Sprintf("taxable amount: %s", money.FormatGBP(money.MaxZero(taxable.Sub(unused)))),
		fmt.Sprintf("tax: %s", money.FormatGBP(bandTax)),
	}
	return joinDigest(parts), nil
}

// DividendsTaxDigest summarizes the dividends tax step.
func DividendsTaxDigest(ctx context.Context, c *tax.Computation) (string, error) {
	present, err := hasRows(ctx, c, models.Dividends)
	if err != nil || !present {
		return "", err
	}
	income, err := c.DividendsIncome(ctx)
	if err != nil {
		return "", err
	}
	taxable := money.MaxZero(income.Sub(c.Constants().DividendsAllowance))
	carried, err := unusedAllowanceAfterNonSavings(ctx, c)
	if err != nil {
		return "", err
	}
	savings, err := c.SavingsIncome(ctx)
	if err != nil {
		return "", err
	}
	unused := money.MaxZero(carried.Sub(savings))
	bandTax, err := c.DividendsTax(ctx)
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("taxable dividends: %s", money.FormatGBP(taxable)),
		fmt.Sprintf("unused personal allowance: %s", money.FormatGBP(unused)),
		fmt.Sprintf("taxable amount: %s", money.FormatGBP(money.MaxZero(taxable.Sub(unused)))),
		fmt.Sprintf("tax: %s", money.FormatGBP(bandTax)),
	}
	return joinDigest(parts), nil
}

// MarriageAllowanceDigest reports an active allowance transfer. Empty
// when unmarried or when no transfer happens.
func MarriageAllowanceDigest(ctx context.Context, c *tax.Computation) (string, error) {
	if c.Spouse() == nil {
		return "", nil
	}
	donated, err := c.MarriageAllowanceDonorAmount(ctx)
	if err != nil {
		return "", err
	}
	if donated.IsZero() {
		return "", nil
	}
	parts := []string{
		fmt.Sprintf("MARRIAGE ALLOWANCE: %s", money.FormatGBP(donated)),
		fmt.Sprintf("transferred to: %s", c.Spouse().Name()),
	}
	return joinDigest(parts), nil
}

// FinalDigest is the bottom line: total income, total tax, and the
// amount actually payable by 31 January.
func FinalDigest(ctx context.Context, c *tax.Computation) (string, error) {
	income, err := c.TotalIncomeReceived(ctx)
	if err != nil {
		return "", err
	}
	total, err := c.TotalTaxDue(ctx)
	if err != nil {
		return "", err
	}
	deadline, err := c.TotalDueByFilingDeadline(ctx)
	if err != nil {
		return "", err
	}
	parts := []string{
		fmt.Sprintf("TOTAL taxable income: %s", money.FormatGBP(income)),
		fmt.Sprintf("total tax: %s", money.FormatGBP(total)),
		fmt.Sprintf("payment by 31st January: %s", money.FormatGBP(deadline)),
	}
	return joinDigest(parts), nil
}

// Overview stitches the non-empty digests into the one-screen summary.
func Overview(ctx context.Context, c *tax.Computation) (string, error) {
	steps := []func(context.Context, *tax.Computation) (string, error){
		TradingDigest,
		PropertyDigest,
		SavingsDigest,
		DividendsDigest,
		FinalDigest,
		CombinedTaxDigest,
		SavingsTaxDigest,
		DividendsTaxDigest,
		MarriageAllowanceDigest,
	}
	var parts []string
	for _, step := range steps {
		part, err := step(ctx, c)
		if err != nil {
			return "", err
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n"), nil
}
