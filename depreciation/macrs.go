/*
macrs.go - MACRS tax depreciation (IRS percentage tables)

PURPOSE:
  Implements the Modified Accelerated Cost Recovery System used for US
  tax depreciation. Amounts come from fixed IRS percentage tables per
  property class, applied to COST - MACRS ignores salvage value.

TABLES:
  Half-year convention tables for 3/5/7/10/15/20-year property, from
  IRS Publication 946 (Table A-1). Rates are indexed by recovery year
  (1-based); a class with n-year life has n+1 recovery years because
  the half-year convention splits the first year.

BONUS INTERACTION:
  An optional first-year bonus adds cost * bonusRate on top of the
  table amount. The combined result is capped at the remaining basis
  (cost - accumulated), so over-depreciation is impossible.
*/
package depreciation

import (
	"github.com/shopspring/decimal"
)

// macrsHalfYear holds the IRS half-year-convention percentage tables,
// keyed by property class, indexed by recovery year - 1.
var macrsHalfYear = map[PropertyClass][]decimal.Decimal{
	Property3Year: rates(0.3333, 0.4445, 0.1481, 0.0741),
	Property5Year: rates(0.20, 0.32, 0.192, 0.1152, 0.1152, 0.0576),
	Property7Year: rates(0.1429, 0.2449, 0.1749, 0.1249, 0.0893, 0.0892, 0.0893, 0.0446),
	Property10Year: rates(0.10, 0.18, 0.144, 0.1152, 0.0922, 0.0737, 0.0655, 0.0655,
		0.0656, 0.0655, 0.0328),
	Property15Year: rates(0.05, 0.095, 0.0855, 0.077, 0.0693, 0.0623, 0.059, 0.059,
		0.0591, 0.059, 0.0591, 0.059, 0.0591, 0.059, 0.0591, 0.0295),
	Property20Year: rates(0.0375, 0.07219, 0.06677, 0.06177, 0.05713, 0.05285, 0.04888,
		0.04522, 0.04462, 0.04461, 0.04462, 0.04461, 0.04462, 0.04461, 0.04462,
		0.04461, 0.04462, 0.04461, 0.04462, 0.04461, 0.02231),
}

func rates(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// =============================================================================
// MACRS METHOD
// =============================================================================

// MACRS yields the full annual table amount in the recovery year's first
// period and zero in the other eleven months: tax depreciation is an
// annual figure, not a monthly expense.
type MACRS struct{}

func NewMACRS() *MACRS { return &MACRS{} }

func (m *MACRS) Type() MethodType             { return MethodMACRS }
func (m *MACRS) IsAccelerated() bool          { return true }
func (m *MACRS) SupportsProration() bool      { return false }
func (m *MACRS) RequiresUnitsData() bool      { return false }
func (m *MACRS) MinimumUsefulLifeMonths() int { return 12 }

func (m *MACRS) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	errs := validateCommon(cost, salvage, ctx)
	if _, ok := macrsHalfYear[ctx.PropertyClass]; !ok {
		errs = append(errs, ErrMissingPropertyClass)
	}
	return errs
}

// AnnualRate returns the table rate for a recovery year, zero when the
// year is past the end of the table.
func (m *MACRS) AnnualRate(class PropertyClass, recoveryYear int) decimal.Decimal {
	table, ok := macrsHalfYear[class]
	if !ok || recoveryYear < 1 || recoveryYear > len(table) {
		return decimal.Zero
	}
	return table[recoveryYear-1]
}

func (m *MACRS) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := m.ValidationErrors(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	// Only the first period of each recovery year carries the annual amount.
	if !isFirstPeriodOfYear(ctx) {
		return ZeroAmount(ctx.Currency), nil
	}

	rate := m.AnnualRate(ctx.PropertyClass, ctx.RecoveryYear)
	amount := cost.Mul(rate) // on cost, not cost - salvage

	if ctx.RecoveryYear == 1 && ctx.BonusRate.IsPositive() {
		amount = amount.Add(cost.Mul(ctx.BonusRate))
	}

	return finalize(amount, ctx.RemainingBasis(cost), ctx.Currency), nil
}

// isFirstPeriodOfYear reports whether the remaining-months counter puts
// this period at the start of a recovery year.
func isFirstPeriodOfYear(ctx Context) bool {
	elapsed := ctx.UsefulLifeMonths - ctx.RemainingMonths // 0-based period index
	return elapsed%12 == 0
}
