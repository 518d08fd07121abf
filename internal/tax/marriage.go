package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
)

// SpouseTotalIncome is the spouse's total income received, computed
// through a computation that shares this session's cache. Zero when
// unmarried.
func (c *Computation) SpouseTotalIncome(ctx context.Context) (decimal.Decimal, error) {
	if c.spouse == nil {
		return decimal.Zero, nil
	}
	sc, err := c.spouseComputation(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return sc.TotalIncomeReceived(ctx)
}

// MarriageAllowanceDonorAmount is the slice of personal allowance this
// person transfers to their spouse: the capped unused allowance when
// the person is under the allowance and the spouse sits between the
// allowance and the higher rate threshold, zero otherwise.
func (c *Computation) MarriageAllowanceDonorAmount(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "marriage_allowance_donor", func(ctx context.Context) (decimal.Decimal, error) {
		if c.spouse == nil {
			return decimal.Zero, nil
		}
		total, err := c.TotalIncomeReceived(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		if total.GreaterThan(c.consts.PersonalAllowance) {
			return decimal.Zero, nil
		}
		spouseTotal, err := c.SpouseTotalIncome(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		if c.consts.PersonalAllowance.GreaterThan(spouseTotal) {
			return decimal.Zero, nil
		}
		if spouseTotal.GreaterThan(c.consts.HigherRateThreshold) {
			return decimal.Zero, nil
		}
		unused := c.consts.PersonalAllowance.Sub(total)
		return money.Min(c.consts.MarriageAllowanceCap, unused), nil
	})
}

// MarriageAllowanceRecipientAmount is the allowance received from the
// spouse, which is exactly the spouse's donor amount.
func (c *Computation) MarriageAllowanceRecipientAmount(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "marriage_allowance_recipient", func(ctx context.Context) (decimal.Decimal, error) {
		if c.spouse == nil {
			return decimal.Zero, nil
		}
		sc, err := c.spouseComputation(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return sc.MarriageAllowanceDonorAmount(ctx)
	})
}

// EffectiveAllowance is the personal allowance adjusted for marriage
// allowance transfers in both directions. At most one of the two
// adjustments is nonzero for a given person.
func (c *Computation) EffectiveAllowance(ctx context.Context) (decimal.Decimal, error) {
	return c.memoized(ctx, "effective_allowance", func(ctx context.Context) (decimal.Decimal, error) {
		received, err := c.MarriageAllowanceRecipientAmount(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		donated, err := c.MarriageAllowanceDonorAmount(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return c.consts.PersonalAllowance.Add(received).Sub(donated), nil
	})
}

// EligibleToClaimMarriageAllowance answers the guidance question on
// transferring allowance to the spouse. The comparisons are strict, so
// this can disagree with the amounts actually transferred at the exact
// boundaries; the answer is advisory, the transfer amounts decide.
func (c *Computation) EligibleToClaimMarriageAllowance(ctx context.Context) (bool, error) {
	if c.spouse == nil {
		return false, nil
	}
	total, err := c.TotalIncomeReceived(ctx)
	if err != nil {
		return false, err
	}
	if !total.LessThan(c.consts.PersonalAllowance) {
		return false, nil
	}
	spouseTotal, err := c.SpouseTotalIncome(ctx)
	if err != nil {
		return false, err
	}
	return c.consts.PersonalAllowance.LessThan(spouseTotal) &&
		spouseTotal.LessThan(c.consts.HigherRateThreshold), nil
}

// EligibleToReceiveMarriageAllowance is the mirror question: whether the
// spouse could transfer allowance to this person.
func (c *Computation) EligibleToReceiveMarriageAllowance(ctx context.Context) (bool, error) {
	if c.spouse == nil {
		return false, nil
	}
	total, err := c.TotalIncomeReceived(ctx)
	if err != nil {
		return false, err
	}
	spouseTotal, err := c.SpouseTotalIncome(ctx)
	if err != nil {
		return false, err
	}
	return spouseTotal.LessThan(c.consts.PersonalAllowance) &&
		c.consts.PersonalAllowance.LessThan(total) &&
		total.LessThan(c.consts.HigherRateThreshold), nil
}

// ClaimingMarriageAllowance answers the return-form question of whether
// this person is the lower earner making a transfer. Unlike the
// eligibility questions it ignores the higher rate threshold and
// disregards tax-free savings when comparing against the allowance.
func (c *Computation) ClaimingMarriageAllowance(ctx context.Context) (bool, error) {
	if c.spouse == nil {
		return false, nil
	}
	total, err := c.TotalIncomeReceived(ctx)
	if err != nil {
		return false, err
	}
	spouseTotal, err := c.SpouseTotalIncome(ctx)
	if err != nil {
		return false, err
	}
	if total.GreaterThan(spouseTotal) {
		return false, nil
	}
	excludingSavings, err := c.TotalIncomeExcludingTaxFreeSavings(ctx)
	if err != nil {
		return false, err
	}
	return !excludingSavings.GreaterThan(c.consts.PersonalAllowance), nil
}
