package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ANNUITY - Level-payment depreciation with implicit interest
// =============================================================================

// Annuity treats depreciation like a level loan payment: with monthly
// rate i and n remaining periods, the annuity factor is i/(1-(1+i)^-n)
// and the periodic payment is depreciableAmount * factor. The interest
// portion (current book value * i) is carved out of the payment unless
// the method is configured to expense the full payment.
//
// Falls back to straight-line when the rate is zero or negative.
type Annuity struct {
	IncludeInterestInExpense bool
}

func NewAnnuity(includeInterest bool) *Annuity {
	return &Annuity{IncludeInterestInExpense: includeInterest}
}

func (m *Annuity) Type() MethodType             { return MethodAnnuity }
func (m *Annuity) IsAccelerated() bool          { return false }
func (m *Annuity) SupportsProration() bool      { return false }
func (m *Annuity) RequiresUnitsData() bool      { return false }
func (m *Annuity) MinimumUsefulLifeMonths() int { return 1 }

func (m *Annuity) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if ctx.AnnualInterestRate.IsZero() || ctx.AnnualInterestRate.IsNegative() {
		errs = append(errs, ErrMissingInterestRate)
	}
	return errs
}

func (m *Annuity) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := validateCommon(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	monthlyRate := ctx.AnnualInterestRate.Div(decimalTwelve)

	// Zero or negative rate degenerates to straight-line.
	if !monthlyRate.IsPositive() {
		amount := cost.Sub(salvage).Div(decimal.NewFromInt(int64(ctx.UsefulLifeMonths)))
		return finalize(amount, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
	}

	n := ctx.RemainingMonths
	if n <= 0 {
		return ZeroAmount(ctx.Currency), nil
	}

	// factor = i / (1 - (1+i)^-n)
	compound := decimalOne.Add(monthlyRate).Pow(decimal.NewFromInt(int64(n)))
	factor := monthlyRate.Div(decimalOne.Sub(decimalOne.Div(compound)))

	payment := cost.Sub(salvage).Mul(factor)

	amount := payment
	if !m.IncludeInterestInExpense {
		interest := ctx.CurrentBookValue(cost).Mul(monthlyRate)
		amount = payment.Sub(interest)
	}

	return finalize(amount, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
}
