package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DECLINING BALANCE - Double-declining (200%) and 150%-declining
// =============================================================================

// DecliningBalance applies a fixed rate to the current book value:
// annual rate = factor / usefulLifeYears, monthly rate = annual / 12.
//
// With SwitchToStraightLine enabled the method computes a straight-line
// candidate over the remaining months and takes the LARGER of the two.
// This is the standard DB/SL crossover rule: once straight-line on the
// remaining balance overtakes the declining amount, every later period
// uses the (now constant) straight-line amount.
type DecliningBalance struct {
	methodType           MethodType
	Factor               decimal.Decimal
	SwitchToStraightLine bool
}

// NewDoubleDeclining returns the 200% declining-balance method.
func NewDoubleDeclining(switchToSL bool) *DecliningBalance {
	return &DecliningBalance{
		methodType:           MethodDoubleDeclining,
		Factor:               decimal.NewFromFloat(2.0),
		SwitchToStraightLine: switchToSL,
	}
}

// NewDeclining150 returns the 150% declining-balance method.
func NewDeclining150(switchToSL bool) *DecliningBalance {
	return &DecliningBalance{
		methodType:           MethodDeclining150,
		Factor:               decimal.NewFromFloat(1.5),
		SwitchToStraightLine: switchToSL,
	}
}

func (m *DecliningBalance) Type() MethodType             { return m.methodType }
func (m *DecliningBalance) IsAccelerated() bool          { return true }
func (m *DecliningBalance) SupportsProration() bool      { return false }
func (m *DecliningBalance) RequiresUnitsData() bool      { return false }
func (m *DecliningBalance) MinimumUsefulLifeMonths() int { return 12 }

func (m *DecliningBalance) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if ctx.UsefulLifeMonths > 0 && ctx.UsefulLifeMonths < m.MinimumUsefulLifeMonths() {
		errs = append(errs, ErrInvalidLife)
	}
	return errs
}

func (m *DecliningBalance) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := m.ValidationErrors(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	candidate := m.decliningCandidate(cost, ctx)

	if m.SwitchToStraightLine && ctx.RemainingMonths > 0 {
		sl := m.straightLineCandidate(cost, salvage, ctx)
		if sl.GreaterThan(candidate) {
			candidate = sl
		}
	}

	return finalize(candidate, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
}

// ShouldSwitchToStraightLine reports whether the straight-line candidate
// over the remaining months exceeds the declining candidate.
func (m *DecliningBalance) ShouldSwitchToStraightLine(cost, salvage decimal.Decimal, ctx Context) bool {
	if !m.SwitchToStraightLine || ctx.RemainingMonths <= 0 {
		return false
	}
	return m.straightLineCandidate(cost, salvage, ctx).GreaterThan(m.decliningCandidate(cost, ctx))
}

func (m *DecliningBalance) decliningCandidate(cost decimal.Decimal, ctx Context) decimal.Decimal {
	years := YearsFromMonths(ctx.UsefulLifeMonths)
	if years == 0 {
		return decimal.Zero
	}
	annualRate := m.Factor.Div(decimal.NewFromInt(int64(years)))
	monthlyRate := annualRate.Div(decimalTwelve)
	return ctx.CurrentBookValue(cost).Mul(monthlyRate)
}

func (m *DecliningBalance) straightLineCandidate(cost, salvage decimal.Decimal, ctx Context) decimal.Decimal {
	remaining := ctx.CurrentBookValue(cost).Sub(salvage)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(ctx.RemainingMonths)))
}
