package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SUM-OF-YEARS-DIGITS - Accelerated, front-loaded by remaining life
// =============================================================================

// SumOfYears depreciates depreciableAmount * remainingLife / sumOfYears
// per year, spread evenly over 12 months. For an n-year asset the yearly
// fractions n/S, (n-1)/S, ... 1/S sum to exactly 1.
type SumOfYears struct{}

func NewSumOfYears() *SumOfYears { return &SumOfYears{} }

func (m *SumOfYears) Type() MethodType             { return MethodSumOfYears }
func (m *SumOfYears) IsAccelerated() bool          { return true }
func (m *SumOfYears) SupportsProration() bool      { return false }
func (m *SumOfYears) RequiresUnitsData() bool      { return false }
func (m *SumOfYears) MinimumUsefulLifeMonths() int { return 12 }

func (m *SumOfYears) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if ctx.UsefulLifeMonths > 0 && ctx.UsefulLifeMonths < m.MinimumUsefulLifeMonths() {
		errs = append(errs, ErrInvalidLife)
	}
	return errs
}

func (m *SumOfYears) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := m.ValidationErrors(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	n := YearsFromMonths(ctx.UsefulLifeMonths)
	sumOfYears := n * (n + 1) / 2
	remainingLife := n - ctx.RecoveryYear + 1
	if remainingLife <= 0 || sumOfYears == 0 {
		return ZeroAmount(ctx.Currency), nil
	}

	fraction := decimal.NewFromInt(int64(remainingLife)).Div(decimal.NewFromInt(int64(sumOfYears)))
	annual := cost.Sub(salvage).Mul(fraction)
	monthly := annual.Div(decimalTwelve)

	return finalize(monthly, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
}
