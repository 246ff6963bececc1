package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STRAIGHT-LINE - Equal amounts over the useful life
// =============================================================================

// StraightLine depreciates (cost - salvage) / usefulLifeMonths per period.
// With ProrateDaily enabled, a partial first period (mid-month acquisition)
// is scaled by days held over days in the period's starting month.
type StraightLine struct {
	ProrateDaily bool
}

func NewStraightLine(prorateDaily bool) *StraightLine {
	return &StraightLine{ProrateDaily: prorateDaily}
}

func (m *StraightLine) Type() MethodType             { return MethodStraightLine }
func (m *StraightLine) IsAccelerated() bool          { return false }
func (m *StraightLine) SupportsProration() bool      { return true }
func (m *StraightLine) RequiresUnitsData() bool      { return false }
func (m *StraightLine) MinimumUsefulLifeMonths() int { return 1 }

func (m *StraightLine) ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error {
	return validateCommon(cost, salvage, ctx)
}

func (m *StraightLine) Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error) {
	if errs := m.ValidationErrors(cost, salvage, ctx); len(errs) > 0 {
		return DepreciationAmount{}, &ValidationError{Method: m.Type(), Errors: errs}
	}

	amount := cost.Sub(salvage).Div(decimal.NewFromInt(int64(ctx.UsefulLifeMonths)))

	if m.ProrateDaily && !ctx.AcquisitionDate.IsZero() {
		amount = amount.Mul(m.prorationFactor(window, ctx))
	}

	return finalize(amount, ctx.RemainingDepreciable(cost, salvage), ctx.Currency), nil
}

// prorationFactor scales a partial period: days actually held over days
// in the window's starting month, capped at 1.0.
func (m *StraightLine) prorationFactor(window PeriodWindow, ctx Context) decimal.Decimal {
	effectiveStart := MaxDate(ctx.AcquisitionDate, window.Start)
	daysInPeriod := DaysBetween(effectiveStart, window.End) + 1
	if daysInPeriod < 0 {
		daysInPeriod = 0
	}
	daysInMonth := DaysInMonth(window.Start)

	factor := decimal.NewFromInt(int64(daysInPeriod)).Div(decimal.NewFromInt(int64(daysInMonth)))
	if factor.GreaterThan(decimalOne) {
		return decimalOne
	}
	return factor
}
