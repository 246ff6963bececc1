/*
revaluation.go - IFRS-style asset revaluation

PURPOSE:
  Applies a revaluation to an asset's book value and routes the delta:
  increments to an equity revaluation reserve, decrements to expense
  (the IAS 16 split). Supports full reversal by swapping the book value
  pair and negating the amount, and projects the depreciation impact of
  the new basis over the recomputed remaining life.

REMAINING LIFE:
  CalculateImpact uses RemainingLifeMonths - the same formula forecast
  uses - so a revaluation's projected schedule and a plain forecast can
  never disagree about how long the asset has left.

RECALCULATION:
  RecalculateDepreciation regenerates the schedule from the revalued
  basis over the remaining life, so future periods immediately reflect
  the new cost and salvage.
*/
package depreciation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REVALUATION VALUE OBJECTS
// =============================================================================

// RevaluationAmount is the signed delta of a revaluation.
type RevaluationAmount struct {
	Amount   decimal.Decimal
	Currency string
}

func (ra RevaluationAmount) IsIncrement() bool { return ra.Amount.IsPositive() }
func (ra RevaluationAmount) IsDecrement() bool { return ra.Amount.IsNegative() }

// Neg returns the negated amount.
func (ra RevaluationAmount) Neg() RevaluationAmount {
	return RevaluationAmount{Amount: ra.Amount.Neg(), Currency: ra.Currency}
}

// Revaluation captures the before/after book value pair and the routing
// of the delta. Increment routes to the equity reserve reference,
// decrement to the expense reference - the routing policy lives here in
// the service layer, not in the value objects.
type Revaluation struct {
	AssetID           AssetID
	PreviousBookValue BookValue
	NewBookValue      BookValue
	Amount            RevaluationAmount
	EquityReserveRef  string // set when the delta is an increment
	ExpenseRef        string // set when the delta is a decrement
	At                time.Time
}

// RevaluationImpact projects the depreciation consequences of applying
// a revaluation.
type RevaluationImpact struct {
	RemainingLifeMonths int
	AnnualBefore        decimal.Decimal
	AnnualAfter         decimal.Decimal
	AnnualDelta         decimal.Decimal
}

// =============================================================================
// REVALUATION SERVICE
// =============================================================================

type RevaluationService struct {
	Generator        *ScheduleGenerator
	Events           EventDispatcher
	EquityReserveRef string
	ExpenseRef       string
}

func NewRevaluationService(generator *ScheduleGenerator, events EventDispatcher) *RevaluationService {
	return &RevaluationService{
		Generator:        generator,
		Events:           events,
		EquityReserveRef: "revaluation-reserve",
		ExpenseRef:       "revaluation-expense",
	}
}

// Revalue computes the old/new book value pair for the asset and routes
// the signed delta. Fails when salvage exceeds the new cost.
func (rs *RevaluationService) Revalue(ctx context.Context, asset Asset, newCost, newSalvage decimal.Decimal) (Revaluation, error) {
	previous, err := asset.BookValue()
	if err != nil {
		return Revaluation{}, err
	}
	next, err := previous.Revalue(newCost, newSalvage)
	if err != nil {
		return Revaluation{}, err
	}

	delta := next.NetBookValue().Sub(previous.NetBookValue())
	rev := Revaluation{
		AssetID:           asset.ID,
		PreviousBookValue: previous,
		NewBookValue:      next,
		Amount:            RevaluationAmount{Amount: delta, Currency: asset.Currency},
		At:                time.Now().UTC(),
	}
	if rev.Amount.IsIncrement() {
		rev.EquityReserveRef = rs.EquityReserveRef
	} else if rev.Amount.IsDecrement() {
		rev.ExpenseRef = rs.ExpenseRef
	}

	if rs.Events != nil {
		rs.Events.Dispatch(ctx, Event{
			Type:     EventAssetRevalued,
			AssetID:  asset.ID,
			TenantID: asset.TenantID,
			At:       rev.At,
			Payload:  map[string]string{"amount": rev.Amount.Amount.String()},
		})
	}
	return rev, nil
}

// Reverse swaps the previous/new book values and negates the amount,
// undoing the revaluation in full.
func (rs *RevaluationService) Reverse(rev Revaluation) Revaluation {
	reversed := Revaluation{
		AssetID:           rev.AssetID,
		PreviousBookValue: rev.NewBookValue,
		NewBookValue:      rev.PreviousBookValue,
		Amount:            rev.Amount.Neg(),
		At:                time.Now().UTC(),
	}
	if reversed.Amount.IsIncrement() {
		reversed.EquityReserveRef = rs.EquityReserveRef
	} else if reversed.Amount.IsDecrement() {
		reversed.ExpenseRef = rs.ExpenseRef
	}
	return reversed
}

// CalculateImpact recomputes the remaining useful life from the current
// accumulated depreciation and projects the annual depreciation before
// and after the revaluation.
func (rs *RevaluationService) CalculateImpact(asset Asset, newCost, newSalvage decimal.Decimal) (RevaluationImpact, error) {
	if newSalvage.GreaterThan(newCost) {
		return RevaluationImpact{}, ErrSalvageExceedsCost
	}

	depreciable := asset.Cost.Sub(asset.SalvageValue)
	remaining := RemainingLifeMonths(asset.UsefulLifeMonths, asset.AccumulatedDepreciation, depreciable)
	if remaining == 0 {
		return RevaluationImpact{RemainingLifeMonths: 0, AnnualBefore: decimal.Zero, AnnualAfter: decimal.Zero, AnnualDelta: decimal.Zero}, nil
	}

	months := decimal.NewFromInt(int64(remaining))
	annualBefore := asset.Cost.Sub(asset.SalvageValue).Sub(asset.AccumulatedDepreciation).
		Div(months).Mul(decimalTwelve).Round(2)
	annualAfter := newCost.Sub(newSalvage).Sub(asset.AccumulatedDepreciation).
		Div(months).Mul(decimalTwelve).Round(2)

	return RevaluationImpact{
		RemainingLifeMonths: remaining,
		AnnualBefore:        annualBefore,
		AnnualAfter:         annualAfter,
		AnnualDelta:         annualAfter.Sub(annualBefore),
	}, nil
}

// RecalculateDepreciation regenerates the asset's schedule from the
// revalued basis. Accumulated depreciation carries over and the asset's
// useful life stays the rate denominator, so the schedule runs until the
// revalued basis is exhausted rather than for a fixed period count.
func (rs *RevaluationService) RecalculateDepreciation(asset Asset, rev Revaluation) (DepreciationSchedule, error) {
	in := asset.GenerateInput(BookFinancial)
	in.Cost = rev.NewBookValue.Cost
	in.SalvageValue = rev.NewBookValue.SalvageValue
	in.AccumulatedDepreciation = rev.NewBookValue.AccumulatedDepreciation

	return rs.Generator.Generate(in)
}
