package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
)

// Result is the assembled computation for one person and tax year,
// shaped for JSON responses and report assembly.
type Result struct {
	PersonCode string         `json:"person_code"`
	PersonName string         `json:"person_name"`
	TaxYear    models.TaxYear `json:"tax_year"`

	TradingIncome   decimal.Decimal `json:"trading_income"`
	TradingOutgo    decimal.Decimal `json:"trading_outgo"`
	TradingProfit   decimal.Decimal `json:"trading_profit"`
	TradingLoss     decimal.Decimal `json:"trading_loss"`
	PropertyIncome  decimal.Decimal `json:"property_income"`
	PropertyOutgo   decimal.Decimal `json:"property_outgo"`
	PropertyProfit  decimal.Decimal `json:"property_profit"`
	SavingsIncome   decimal.Decimal `json:"savings_income"`
	DividendsIncome decimal.Decimal `json:"dividends_income"`
	TotalIncome     decimal.Decimal `json:"total_income"`

	PersonalAllowance         decimal.Decimal `json:"personal_allowance"`
	EffectiveAllowance        decimal.Decimal `json:"effective_allowance"`
	MarriageAllowanceDonated  decimal.Decimal `json:"marriage_allowance_donated"`
	MarriageAllowanceReceived decimal.Decimal `json:"marriage_allowance_received"`
	PensionPayments           decimal.Decimal `json:"pension_payments"`
	RevisedBasicRateThreshold decimal.Decimal `json:"revised_basic_rate_threshold"`
	ClaimingMarriageAllowance bool            `json:"claiming_marriage_allowance"`
	EligibleToClaimMarriage   bool            `json:"eligible_to_claim_marriage_allowance"`
	EligibleToReceiveMarriage bool            `json:"eligible_to_receive_marriage_allowance"`

	NonSavingsTax decimal.Decimal `json:"non_savings_tax"`
	SavingsTax    decimal.Decimal `json:"savings_tax"`
	DividendsTax  decimal.Decimal `json:"dividends_tax"`
	IncomeTax     decimal.Decimal `json:"income_tax"`
	Class2NICs    decimal.Decimal `json:"class_2_nics"`
	Class4NICs    decimal.Decimal `json:"class_4_nics"`
	TotalTaxDue   decimal.Decimal `json:"total_tax_due"`

	FirstPaymentOnAccount  decimal.Decimal `json:"first_payment_on_account"`
	SecondPaymentOnAccount decimal.Decimal `json:"second_payment_on_account"`
	TotalDueByDeadline     decimal.Decimal `json:"total_due_by_31_january"`
}

// Result runs every derivation and assembles the full picture.
func (c *Computation) Result(ctx context.Context) (*Result, error) {
	r := &Result{
		PersonCode: c.person.Code,
		PersonName: c.person.Name(),
		TaxYear:    c.consts.Year,

		PersonalAllowance: c.consts.PersonalAllowance,
	}

	amounts := []struct {
		dst    *decimal.Decimal
		derive func(context.Context) (decimal.Decimal, error)
	}{
		{&r.TradingIncome, c.TradingIncome},
		{&r.TradingOutgo, c.TradingOutgo},
		{&r.TradingProfit, c.TradingProfit},
		{&r.TradingLoss, c.TradingLoss},
		{&r.PropertyIncome, c.PropertyIncome},
		{&r.PropertyOutgo, c.PropertyOutgo},
		{&r.PropertyProfit, c.PropertyProfit},
		{&r.SavingsIncome, c.SavingsIncome},
		{&r.DividendsIncome, c.DividendsIncome},
		{&r.TotalIncome, c.TotalIncomeReceived},
		{&r.EffectiveAllowance, c.EffectiveAllowance},
		{&r.MarriageAllowanceDonated, c.MarriageAllowanceDonorAmount},
		{&r.MarriageAllowanceReceived, c.MarriageAllowanceRecipientAmount},
		{&r.PensionPayments, c.PensionPayments},
		{&r.RevisedBasicRateThreshold, c.RevisedBasicRateThreshold},
		{&r.NonSavingsTax, c.NonSavingsTax},
		{&r.SavingsTax, c.SavingsTax},
		{&r.DividendsTax, c.DividendsTax},
		{&r.IncomeTax, c.IncomeTax},
		{&r.Class2NICs, c.Class2NICs},
		{&r.Class4NICs, c.Class4NICs},
		{&r.TotalTaxDue, c.TotalTaxDue},
		{&r.FirstPaymentOnAccount, c.PaymentOnAccount},
		{&r.SecondPaymentOnAccount, c.PaymentOnAccount},
		{&r.TotalDueByDeadline, c.TotalDueByFilingDeadline},
	}
	for _, a := range amounts {
		v, err := a.derive(ctx)
		if err != nil {
			return nil, err
		}
		*a.dst = v
	}

	flags := []struct {
		dst    *bool
		derive func(context.Context) (bool, error)
	}{
		{&r.ClaimingMarriageAllowance, c.ClaimingMarriageAllowance},
		{&r.EligibleToClaimMarriage, c.EligibleToClaimMarriageAllowance},
		{&r.EligibleToReceiveMarriage, c.EligibleToReceiveMarriageAllowance},
	}
	for _, f := range flags {
		v, err := f.derive(ctx)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	return r, nil
}
