/*
method.go - Depreciation method strategy interface

PURPOSE:
  Defines the contract every depreciation method implements, plus the
  calculation context threaded into each call. Methods are pure strategy
  objects: given cost, salvage, a period window, and a context, they
  return one period's depreciation amount.

KEY CONCEPTS:
  - Method: The strategy interface (calculate + introspection)
  - Context: Per-call state (accumulated depreciation, remaining months,
    recovery year) plus method-specific extras (units, rates, class)
  - Salvage floor: Most methods never drive book value below salvage;
    MACRS and bonus depreciate the full cost basis and ignore salvage

CALCULATION RULES (all methods):
  1. Monetary results are rounded to 2 places at the point of return
  2. Results are never negative
  3. Results are capped at the remaining depreciable amount
     (remaining basis for MACRS/bonus)

SEE ALSO:
  - factory.go: Tier-gated method selection
  - straightline.go .. annuity.go: The eight implementations
*/
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTEXT - Per-call calculation state
// =============================================================================

// Context carries everything a method needs beyond cost and salvage.
// The schedule generator rebuilds it for every period; callers doing
// one-off calculations fill it directly.
type Context struct {
	UsefulLifeMonths        int
	AccumulatedDepreciation decimal.Decimal
	RemainingMonths         int
	AcquisitionDate         time.Time
	RecoveryYear            int // 1-based
	Currency                string

	// Method-specific extras
	UnitsProduced      decimal.Decimal // units-of-production: this period
	TotalExpectedUnits decimal.Decimal // units-of-production: lifetime
	AnnualInterestRate decimal.Decimal // annuity
	BonusRate          decimal.Decimal // bonus / MACRS first-year bonus
	PropertyClass      PropertyClass   // MACRS
	NewProperty        bool            // bonus qualification
}

// CurrentBookValue is cost minus accumulated depreciation.
func (c Context) CurrentBookValue(cost decimal.Decimal) decimal.Decimal {
	return cost.Sub(c.AccumulatedDepreciation)
}

// RemainingDepreciable is what is still eligible under a salvage floor.
func (c Context) RemainingDepreciable(cost, salvage decimal.Decimal) decimal.Decimal {
	remaining := cost.Sub(salvage).Sub(c.AccumulatedDepreciation)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// RemainingBasis is what is still eligible on a zero-salvage basis
// (MACRS and bonus ignore salvage value).
func (c Context) RemainingBasis(cost decimal.Decimal) decimal.Decimal {
	remaining := cost.Sub(c.AccumulatedDepreciation)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// =============================================================================
// METHOD - Strategy interface
// =============================================================================

// Method computes one period's depreciation. Implementations are
// stateless and safe for concurrent use.
type Method interface {
	// Type returns the enum tag this method is registered under.
	Type() MethodType

	// Calculate returns the depreciation amount for the period window.
	// The result is rounded to 2 places, never negative, and capped at
	// the remaining depreciable amount (remaining basis for MACRS/bonus).
	Calculate(cost, salvage decimal.Decimal, window PeriodWindow, ctx Context) (DepreciationAmount, error)

	// IsAccelerated reports whether early periods depreciate faster
	// than straight-line.
	IsAccelerated() bool

	// SupportsProration reports whether the method prorates a partial
	// first period.
	SupportsProration() bool

	// RequiresUnitsData reports whether the method needs production
	// units input.
	RequiresUnitsData() bool

	// MinimumUsefulLifeMonths is the shortest life the method accepts.
	MinimumUsefulLifeMonths() int

	// ValidationErrors returns every input problem found, or nil.
	// Raised before any calculation proceeds; never silently coerced.
	ValidationErrors(cost, salvage decimal.Decimal, ctx Context) []error
}

// CrossoverMethod is implemented by the declining-balance family, which
// can switch to straight-line once that yields the larger amount.
type CrossoverMethod interface {
	Method

	// ShouldSwitchToStraightLine reports whether the straight-line
	// candidate now exceeds the declining-balance candidate.
	ShouldSwitchToStraightLine(cost, salvage decimal.Decimal, ctx Context) bool
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// finalize applies the universal result rules: floor at zero, cap at the
// given remaining amount, round to 2 places.
func finalize(amount, remaining decimal.Decimal, currency string) DepreciationAmount {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	return NewDepreciationAmount(amount.Round(2), currency)
}

// validateCommon checks the inputs every method shares.
func validateCommon(cost, salvage decimal.Decimal, ctx Context) []error {
	var errs []error
	if !cost.IsPositive() {
		errs = append(errs, ErrInvalidCost)
	}
	if salvage.IsNegative() {
		errs = append(errs, ErrInvalidSalvage)
	}
	if salvage.GreaterThan(cost) {
		errs = append(errs, ErrSalvageExceedsCost)
	}
	if ctx.UsefulLifeMonths <= 0 {
		errs = append(errs, ErrInvalidLife)
	}
	return errs
}
