/*
Package depreciation provides the fixed-asset depreciation calculation engine.

PURPOSE:
  This package contains the value types and algorithms for computing
  depreciation of fixed assets: eight method implementations behind a
  common strategy interface, a tier-gated factory, a schedule generator,
  forecast services, a tax-vs-book engine, and an IFRS-style revaluation
  service.

KEY CONCEPTS IN THIS FILE (types.go):
  - DepreciationAmount: A monetary amount with a currency tag
  - BookValue: Cost / salvage / accumulated depreciation triple
  - DepreciationLife: Useful-life parameters for an asset
  - MethodType / Tier / BookType: Enums driving factory dispatch

DESIGN PRINCIPLES:
  1. Immutability: Value objects are never mutated; every transition
     (depreciate, revalue, post) returns a new instance
  2. Precision: Uses decimal.Decimal to avoid floating-point errors;
     monetary results are rounded to 2 places at the point of return
  3. Purity: Calculations are side-effect-free; all state is threaded
     explicitly through inputs and returned values

USAGE:
  bv, _ := depreciation.NewBookValue(cost, salvage, decimal.Zero, "USD")
  next := bv.Depreciate(amount)  // bv is unchanged

SEE ALSO:
  - method.go: Method strategy interface and calculation context
  - factory.go: Tier-gated method construction
  - generator.go: Full-life schedule generation
*/
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AssetID string
type TenantID string
type RunID string
type SchedulePeriodID string

// =============================================================================
// METHOD TYPE - Drives factory dispatch
// =============================================================================

type MethodType string

const (
	MethodStraightLine      MethodType = "straight_line"
	MethodDoubleDeclining   MethodType = "double_declining"
	MethodDeclining150      MethodType = "declining_150"
	MethodSumOfYears        MethodType = "sum_of_years_digits"
	MethodUnitsOfProduction MethodType = "units_of_production"
	MethodMACRS             MethodType = "macrs"
	MethodBonus             MethodType = "bonus"
	MethodAnnuity           MethodType = "annuity"
)

// BookType distinguishes financial-reporting depreciation from tax
// depreciation. The same asset typically carries one schedule per book.
type BookType string

const (
	BookFinancial BookType = "book"
	BookTax       BookType = "tax"
)

// Tier is the capability level of the caller's configuration.
// Tier checks happen at the factory boundary only; method
// implementations know nothing about tiers.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// PropertyClass is the IRS recovery class for MACRS property, in years.
type PropertyClass int

const (
	Property3Year  PropertyClass = 3
	Property5Year  PropertyClass = 5
	Property7Year  PropertyClass = 7
	Property10Year PropertyClass = 10
	Property15Year PropertyClass = 15
	Property20Year PropertyClass = 20
)

// =============================================================================
// DEPRECIATION AMOUNT - Monetary amount with currency tag
// =============================================================================

// DepreciationAmount is an immutable monetary amount. Arithmetic between
// two amounts requires matching currencies; mixing currencies is a domain
// error, never a silent coercion.
type DepreciationAmount struct {
	Amount                  decimal.Decimal
	Currency                string
	AccumulatedDepreciation decimal.Decimal
}

func NewDepreciationAmount(amount decimal.Decimal, currency string) DepreciationAmount {
	return DepreciationAmount{Amount: amount, Currency: currency, AccumulatedDepreciation: decimal.Zero}
}

func ZeroAmount(currency string) DepreciationAmount {
	return DepreciationAmount{Amount: decimal.Zero, Currency: currency, AccumulatedDepreciation: decimal.Zero}
}

// Add returns a new amount. Fails when currencies differ.
func (a DepreciationAmount) Add(b DepreciationAmount) (DepreciationAmount, error) {
	if a.Currency != b.Currency {
		return DepreciationAmount{}, &CurrencyMismatchError{Left: a.Currency, Right: b.Currency}
	}
	return DepreciationAmount{
		Amount:                  a.Amount.Add(b.Amount),
		Currency:                a.Currency,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}, nil
}

// Sub returns a new amount. Fails when currencies differ.
func (a DepreciationAmount) Sub(b DepreciationAmount) (DepreciationAmount, error) {
	if a.Currency != b.Currency {
		return DepreciationAmount{}, &CurrencyMismatchError{Left: a.Currency, Right: b.Currency}
	}
	return DepreciationAmount{
		Amount:                  a.Amount.Sub(b.Amount),
		Currency:                a.Currency,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}, nil
}

// Mul scales the amount by a unitless factor. No currency check needed.
func (a DepreciationAmount) Mul(factor decimal.Decimal) DepreciationAmount {
	return DepreciationAmount{
		Amount:                  a.Amount.Mul(factor),
		Currency:                a.Currency,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}
}

// WithAccumulated returns a copy carrying the running accumulated
// depreciation after this amount is applied.
func (a DepreciationAmount) WithAccumulated(acc decimal.Decimal) DepreciationAmount {
	return DepreciationAmount{Amount: a.Amount, Currency: a.Currency, AccumulatedDepreciation: acc}
}

// Round returns a copy rounded to 2 decimal places.
func (a DepreciationAmount) Round() DepreciationAmount {
	return DepreciationAmount{
		Amount:                  a.Amount.Round(2),
		Currency:                a.Currency,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}
}

func (a DepreciationAmount) IsZero() bool     { return a.Amount.IsZero() }
func (a DepreciationAmount) IsNegative() bool { return a.Amount.IsNegative() }
func (a DepreciationAmount) IsPositive() bool { return a.Amount.IsPositive() }

// =============================================================================
// BOOK VALUE - Cost, salvage, accumulated depreciation
// =============================================================================

// BookValue captures the depreciable state of an asset. Immutable:
// Depreciate and Revalue return new instances.
//
// Invariant: AccumulatedDepreciation <= Cost - SalvageValue. Enforced by
// capping on every mutation, so a BookValue can never be over-depreciated.
type BookValue struct {
	Cost                    decimal.Decimal
	SalvageValue            decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Currency                string
}

// NewBookValue validates inputs and caps accumulated depreciation at the
// depreciable amount.
func NewBookValue(cost, salvage, accumulated decimal.Decimal, currency string) (BookValue, error) {
	if cost.IsNegative() {
		return BookValue{}, ErrInvalidCost
	}
	if salvage.IsNegative() {
		return BookValue{}, ErrInvalidSalvage
	}
	if salvage.GreaterThan(cost) {
		return BookValue{}, ErrSalvageExceedsCost
	}
	if accumulated.IsNegative() {
		accumulated = decimal.Zero
	}
	depreciable := cost.Sub(salvage)
	if accumulated.GreaterThan(depreciable) {
		accumulated = depreciable
	}
	return BookValue{Cost: cost, SalvageValue: salvage, AccumulatedDepreciation: accumulated, Currency: currency}, nil
}

// NetBookValue is cost minus accumulated depreciation.
func (bv BookValue) NetBookValue() decimal.Decimal {
	return bv.Cost.Sub(bv.AccumulatedDepreciation)
}

// DepreciableAmount is cost minus salvage: the total ever eligible.
func (bv BookValue) DepreciableAmount() decimal.Decimal {
	return bv.Cost.Sub(bv.SalvageValue)
}

// RemainingDepreciable is what is still eligible to be depreciated.
func (bv BookValue) RemainingDepreciable() decimal.Decimal {
	remaining := bv.DepreciableAmount().Sub(bv.AccumulatedDepreciation)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (bv BookValue) IsFullyDepreciated() bool {
	return bv.RemainingDepreciable().IsZero()
}

// Depreciate returns a new BookValue with the amount added to accumulated
// depreciation, capped so net book value never drops below salvage.
func (bv BookValue) Depreciate(amount decimal.Decimal) BookValue {
	if amount.IsNegative() {
		return bv
	}
	acc := bv.AccumulatedDepreciation.Add(amount)
	if acc.GreaterThan(bv.DepreciableAmount()) {
		acc = bv.DepreciableAmount()
	}
	return BookValue{Cost: bv.Cost, SalvageValue: bv.SalvageValue, AccumulatedDepreciation: acc, Currency: bv.Currency}
}

// Revalue returns a new BookValue with updated cost and salvage while
// preserving accumulated depreciation (re-capped against the new basis).
func (bv BookValue) Revalue(newCost, newSalvage decimal.Decimal) (BookValue, error) {
	return NewBookValue(newCost, newSalvage, bv.AccumulatedDepreciation, bv.Currency)
}

// =============================================================================
// DEPRECIATION LIFE - Useful-life parameters
// =============================================================================

type DepreciationLife struct {
	UsefulLifeYears        int
	UsefulLifeMonths       int
	SalvageValue           decimal.Decimal
	TotalDepreciableAmount decimal.Decimal
}

// NewDepreciationLife derives years from months (rounded up).
func NewDepreciationLife(months int, cost, salvage decimal.Decimal) DepreciationLife {
	return DepreciationLife{
		UsefulLifeYears:        YearsFromMonths(months),
		UsefulLifeMonths:       months,
		SalvageValue:           salvage,
		TotalDepreciableAmount: cost.Sub(salvage),
	}
}

// IsValid reports whether the life can drive a calculation at all.
func (l DepreciationLife) IsValid() bool {
	return l.UsefulLifeMonths > 0 && l.TotalDepreciableAmount.IsPositive()
}

// YearsFromMonths is ceil(months / 12).
func YearsFromMonths(months int) int {
	if months <= 0 {
		return 0
	}
	return (months + 11) / 12
}

// =============================================================================
// ASSET DEPRECIATION - Full record returned by CalculateForPeriod
// =============================================================================

// AssetDepreciation is the full result of a single-period calculation,
// carrying the book value before and after the amount is applied.
type AssetDepreciation struct {
	AssetID  AssetID
	PeriodID string
	BookType BookType
	Window   PeriodWindow
	Amount   DepreciationAmount
	Before   BookValue
	After    BookValue
	At       time.Time
}
