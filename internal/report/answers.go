package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
	"github.com/taxfolk/selfassess/internal/tax"
)

// FormatBool renders a flag the way the return forms expect it.
func FormatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Question is one row of the return: the wording, where it sits on the
// form, and the method that answers it.
type Question struct {
	Text    string
	Section string
	Header  string
	Box     string
	Method  string
	Note    string
}

// Answer is a resolved question ready for rendering.
type Answer struct {
	Question string
	Section  string
	Header   string
	Box      string
	Value    string
	Note     string
}

// answerFunc resolves one question's value against a computation.
type answerFunc func(context.Context, *tax.Computation) (string, error)

// box formats a return-box amount: blank when zero, GBP otherwise.
func box(get func(*tax.Computation, context.Context) (decimal.Decimal, error)) answerFunc {
	return func(ctx context.Context, c *tax.Computation) (string, error) {
		v, err := get(c, ctx)
		if err != nil {
			return "", err
		}
		return money.FormatGBPOrBlank(v), nil
	}
}

// yesNo formats a flag answer.
func yesNo(get func(*tax.Computation, context.Context) (bool, error)) answerFunc {
	return func(ctx context.Context, c *tax.Computation) (string, error) {
		v, err := get(c, ctx)
		if err != nil {
			return "", err
		}
		return FormatBool(v), nil
	}
}

// methods maps question method names to their resolvers. A question
// naming a method not present here renders a placeholder value rather
// than failing the whole report.
var methods = map[string]answerFunc{
	"person_name": func(_ context.Context, c *tax.Computation) (string, error) {
		return c.Person().Name(), nil
	},
	"unique_tax_reference": func(_ context.Context, c *tax.Computation) (string, error) {
		return c.Person().UniqueTaxReference, nil
	},
	"national_insurance_number": func(_ context.Context, c *tax.Computation) (string, error) {
		return c.Person().NationalInsuranceNumber, nil
	},
	"date_of_birth": func(_ context.Context, c *tax.Computation) (string, error) {
		return c.Person().DateOfBirth, nil
	},
	"spouse_name": func(_ context.Context, c *tax.Computation) (string, error) {
		if c.Spouse() == nil {
			return "", nil
		}
		return c.Spouse().Name(), nil
	},
	"date_books_made_up_to": func(_ context.Context, c *tax.Computation) (string, error) {
		return c.TaxYear().EndDate(), nil
	},

	"business_name": func(ctx context.Context, c *tax.Computation) (string, error) {
		names, err := c.BusinessNames(ctx)
		if err != nil {
			return "", err
		}
		return strings.Join(names, ", "), nil
	},
	"property_postcodes": func(ctx context.Context, c *tax.Computation) (string, error) {
		postcodes, err := c.ResidentialProperties(ctx)
		if err != nil {
			return "", err
		}
		return strings.Join(postcodes, ", "), nil
	},
	"vat_registration_required": func(ctx context.Context, c *tax.Computation) (string, error) {
		income, err := c.TradingIncome(ctx)
		if err != nil {
			return "", err
		}
		return FormatBool(income.GreaterThan(c.Constants().VATRegistrationThreshold)), nil
	},

	"trading_income":    box((*tax.Computation).TradingIncome),
	"trading_expenses":  box((*tax.Computation).TradingExpensesActual),
	"trading_outgo":     box((*tax.Computation).TradingOutgo),
	"trading_profit":    box((*tax.Computation).TradingProfit),
	"trading_loss":      box((*tax.Computation).TradingLoss),
	"property_income":   box((*tax.Computation).PropertyIncome),
	"property_expenses": box((*tax.Computation).PropertyExpensesActual),
	"property_profit":   box((*tax.Computation).PropertyProfit),
	"savings_income":    box((*tax.Computation).SavingsIncome),
	"dividends_income":  box((*tax.Computation).DividendsIncome),
	"total_income":      box((*tax.Computation).TotalIncomeReceived),

	"pension_contributions": box((*tax.Computation).PensionContributions),
	"pension_payments":      box((*tax.Computation).PensionPayments),

	"trading_allowance_claimed": yesNo((*tax.Computation).UseTradingAllowance),

	"claiming_marriage_allowance":            yesNo((*tax.Computation).ClaimingMarriageAllowance),
	"eligible_to_claim_marriage_allowance":   yesNo((*tax.Computation).EligibleToClaimMarriageAllowance),
	"eligible_to_receive_marriage_allowance": yesNo((*tax.Computation).EligibleToReceiveMarriageAllowance),
	"marriage_allowance_transferred":         box((*tax.Computation).MarriageAllowanceDonorAmount),
	"marriage_allowance_received":            box((*tax.Computation).MarriageAllowanceRecipientAmount),

	"voluntary_class_2": yesNo((*tax.Computation).WantsVoluntaryClass2),
	"class_2_nics_due":  box((*tax.Computation).Class2NICs),
	"class_4_nics_due":  box((*tax.Computation).Class4NICs),

	"income_tax_due":            box((*tax.Computation).IncomeTax),
	"total_tax_due":             box((*tax.Computation).TotalTaxDue),
	"first_payment_on_account":  box((*tax.Computation).PaymentOnAccount),
	"second_payment_on_account": box((*tax.Computation).PaymentOnAccount),
	"total_due_by_31_january":   box((*tax.Computation).TotalDueByFilingDeadline),
}

// Answers resolves a question list against a computation. Unknown
// methods produce a visible placeholder so the gap shows up in the
// rendered report instead of aborting it; computation errors still
// abort, since a report with wrong numbers is worse than no report.
func Answers(ctx context.Context, c *tax.Computation, questions []Question) ([]Answer, error) {
	answers := make([]Answer, 0, len(questions))
	for _, q := range questions {
		a := Answer{
			Question: q.Text,
			Section:  q.Section,
			Header:   q.Header,
			Box:      q.Box,
			Note:     q.Note,
		}
		fn, ok := methods[q.Method]
		if !ok {
			a.Value = fmt.Sprintf("Method not found: %s", q.Method)
			answers = append(answers, a)
			continue
		}
		value, err := fn(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("answering %q: %w", q.Text, err)
		}
		a.Value = value
		answers = append(answers, a)
	}
	return answers, nil
}

// TaxReturnQuestions is the built-in question list, ordered as the
// printed form reads.
func TaxReturnQuestions() []Question {
	return []Question{
		{Text: "Your name", Section: "Personal details", Header: "About you", Box: "1", Method: "person_name"},
		{Text: "Unique Taxpayer Reference", Section: "Personal details", Header: "About you", Box: "2", Method: "unique_tax_reference"},
		{Text: "National Insurance number", Section: "Personal details", Header: "About you", Box: "3", Method: "national_insurance_number"},
		{Text: "Date of birth", Section: "Personal details", Header: "About you", Box: "4", Method: "date_of_birth"},

		{Text: "Business name", Section: "Self-employment", Header: "Business details", Box: "1", Method: "business_name"},
		{Text: "Date your books are made up to", Section: "Self-employment", Header: "Business details", Box: "7", Method: "date_books_made_up_to"},
		{Text: "Turnover", Section: "Self-employment", Header: "Business income", Box: "9 (GBP)", Method: "trading_income"},
		{Text: "Total allowable expenses", Section: "Self-employment", Header: "Business income", Box: "20 (GBP)", Method: "trading_expenses"},
		{Text: "Are you claiming the trading income allowance", Section: "Self-employment", Header: "Business income", Box: "10.1", Method: "trading_allowance_claimed"},
		{Text: "Net profit", Section: "Self-employment", Header: "Business income", Box: "21 (GBP)", Method: "trading_profit"},
		{Text: "Net loss", Section: "Self-employment", Header: "Business income", Box: "22 (GBP)", Method: "trading_loss"},
		{Text: "Is your turnover above the VAT registration threshold", Section: "Self-employment", Header: "Business income", Box: "23", Method: "vat_registration_required"},

		{Text: "Voluntary class 2 contributions", Section: "Self-employment", Header: "National Insurance", Box: "36", Method: "voluntary_class_2"},
		{Text: "Class 2 NICs due", Section: "Self-employment", Header: "National Insurance", Box: "36.1 (GBP)", Method: "class_2_nics_due"},
		{Text: "Class 4 NICs due", Section: "Self-employment", Header: "National Insurance", Box: "37 (GBP)", Method: "class_4_nics_due"},

		{Text: "Property postcodes", Section: "UK property", Header: "Property details", Box: "3", Method: "property_postcodes"},
		{Text: "Total rents and other income from property", Section: "UK property", Header: "Property income", Box: "20 (GBP)", Method: "property_income"},
		{Text: "Property expenses", Section: "UK property", Header: "Property income", Box: "29 (GBP)", Method: "property_expenses"},
		{Text: "Taxable profit for the year", Section: "UK property", Header: "Property income", Box: "38 (GBP)", Method: "property_profit"},

		{Text: "Taxed UK interest", Section: "Income", Header: "Interest and dividends", Box: "1 (GBP)", Method: "savings_income"},
		{Text: "Dividends from UK companies", Section: "Income", Header: "Interest and dividends", Box: "4 (GBP)", Method: "dividends_income"},
		{Text: "Payments to registered pension schemes", Section: "Income", Header: "Pensions", Box: "1 (GBP)", Method: "pension_contributions"},

		{Text: "Are you claiming Marriage Allowance", Section: "Allowances", Header: "Marriage Allowance", Box: "1", Method: "claiming_marriage_allowance"},
		{Text: "Your spouse's name", Section: "Allowances", Header: "Marriage Allowance", Box: "2", Method: "spouse_name"},
		{Text: "Allowance transferred to your spouse", Section: "Allowances", Header: "Marriage Allowance", Box: "3 (GBP)", Method: "marriage_allowance_transferred"},
		{Text: "Allowance received from your spouse", Section: "Allowances", Header: "Marriage Allowance", Box: "4 (GBP)", Method: "marriage_allowance_received"},

		{Text: "Total income received", Section: "Calculation", Header: "Totals", Box: "1 (GBP)", Method: "total_income"},
		{Text: "Income tax due", Section: "Calculation", Header: "Totals", Box: "2 (GBP)", Method: "income_tax_due"},
		{Text: "Total tax and NICs due", Section: "Calculation", Header: "Totals", Box: "3 (GBP)", Method: "total_tax_due"},
		{Text: "First payment on account for next year", Section: "Calculation", Header: "Payments on account", Box: "4 (GBP)", Method: "first_payment_on_account"},
		{Text: "Second payment on account for next year", Section: "Calculation", Header: "Payments on account", Box: "5 (GBP)", Method: "second_payment_on_account"},
		{Text: "Total due by 31 January", Section: "Calculation", Header: "Payments on account", Box: "6 (GBP)", Method: "total_due_by_31_january"},
	}
}
