package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BONUS - First-year lump deduction
// =============================================================================

// Bonus takes cost * bonusRate as a single first-year deduction and zero
// in every later year. Like MACRS it works off a zero-salvage basis, and
// the remaining-basis cap makes the deduction single-shot: once taken,
// repeat calls in the same year cap to zero.
//
// Qualification is a simplified new-property check; used property
// returns zero rather than an error.
type Bonus struct{}

func NewBonus() *Bonus { return &Bonus{} }

func (m *Bonus) Type() MethodType             { return MethodBonus }
func (m *Bonus) IsAccelerated() bool          { return true }
func (m *Bonus) SupportsProration() bool      { return false }
func (m *Bonus) RequiresUnitsData() bool      { return false }
func (m *Bonus) MinimumUsefulLifeMonths() int { return 1 }

func (m *Bonus) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if ctx.BonusRate.IsNegative() || ctx.BonusRate.GreaterThan(decimalOne) {
		errs = append(errs, ErrInvalidBonusRate)
	}
	return errs
}

func (m *Bonus) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := m.ValidationErrors(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	if !ctx.NewProperty || ctx.RecoveryYear > 1 || !ctx.BonusRate.IsPositive() {
		return ZeroAmount(ctx.Currency), nil
	}

	amount := cost.Mul(ctx.BonusRate)
	return finalize(amount, ctx.RemainingBasis(cost), ctx.Currency), nil
}
