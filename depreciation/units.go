package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// UNITS OF PRODUCTION - Depreciation by actual usage
// =============================================================================

// UnitsOfProduction depreciates at a per-unit rate:
// (cost - salvage) / totalExpectedUnits per unit produced in the period.
// Zero when either units input is missing or non-positive.
type UnitsOfProduction struct{}

func NewUnitsOfProduction() *UnitsOfProduction { return &UnitsOfProduction{} }

func (m *UnitsOfProduction) Type() MethodType             { return MethodUnitsOfProduction }
func (m *UnitsOfProduction) IsAccelerated() bool          { return false }
func (m *UnitsOfProduction) SupportsProration() bool      { return false }
func (m *UnitsOfProduction) RequiresUnitsData() bool      { return true }
func (m *UnitsOfProduction) MinimumUsefulLifeMonths() int { return 1 }

func (m *UnitsOfProduction) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if !ctx.TotalExpectedUnits.IsPositive() {
		errs = append(errs, ErrMissingUnitsData)
	}
	return errs
}

func (m *UnitsOfProduction) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := validateCommon(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	// Missing or non-positive units yield zero rather than an error:
	// a period with no recorded production simply has no wear.
	if !ctx.TotalExpectedUnits.IsPositive() || !ctx.UnitsProduced.IsPositive() {
		return ZeroAmount(ctx.Currency), nil
	}

	perUnit := cost.Sub(salvage).Div(ctx.TotalExpectedUnits)
	amount := perUnit.Mul(ctx.UnitsProduced)

	return finalize(amount, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
}
