package depreciation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/asset-engine/depreciation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRevaluationService() (*depreciation.RevaluationService, *depreciation.MemoryDispatcher) {
	events := &depreciation.MemoryDispatcher{}
	generator := depreciation.NewScheduleGenerator(depreciation.NewFactory(depreciation.Tier3))
	return depreciation.NewRevaluationService(generator, events), events
}

func testAsset() depreciation.Asset {
	return depreciation.Asset{
		ID:                      "asset-1",
		TenantID:                "tenant-1",
		Name:                    "CNC milling machine",
		Cost:                    dec("10000"),
		SalvageValue:            dec("1000"),
		UsefulLifeMonths:        60,
		AccumulatedDepreciation: dec("2000"),
		Method:                  depreciation.MethodStraightLine,
		AcquisitionDate:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Currency:                "USD",
		Active:                  true,
	}
}

// =============================================================================
// REVALUE - Increment/decrement routing
// =============================================================================

func TestRevaluationService_Increment_RoutesToEquityReserve(t *testing.T) {
	// GIVEN: An asset with net book value 8,000
	// WHEN: Revaluing the cost upward to 15,000
	// THEN: The +5,000 delta routes to the equity revaluation reserve

	svc, events := newTestRevaluationService()

	rev, err := svc.Revalue(context.Background(), testAsset(), dec("15000"), dec("1000"))

	require.NoError(t, err)
	assert.Equal(t, "5000", rev.Amount.Amount.String())
	assert.True(t, rev.Amount.IsIncrement())
	assert.Equal(t, "revaluation-reserve", rev.EquityReserveRef)
	assert.Empty(t, rev.ExpenseRef)
	assert.Equal(t, "8000", rev.PreviousBookValue.NetBookValue().String())
	assert.Equal(t, "13000", rev.NewBookValue.NetBookValue().String())

	dispatched := events.Events()
	require.Len(t, dispatched, 1)
	assert.Equal(t, depreciation.EventAssetRevalued, dispatched[0].Type)
	assert.Equal(t, "5000", dispatched[0].Payload["amount"])
}

func TestRevaluationService_Decrement_RoutesToExpense(t *testing.T) {
	// GIVEN: The same asset
	// WHEN: Revaluing the cost downward to 7,000
	// THEN: The -3,000 delta routes to expense

	svc, _ := newTestRevaluationService()

	rev, err := svc.Revalue(context.Background(), testAsset(), dec("7000"), dec("1000"))

	require.NoError(t, err)
	assert.Equal(t, "-3000", rev.Amount.Amount.String())
	assert.True(t, rev.Amount.IsDecrement())
	assert.Equal(t, "revaluation-expense", rev.ExpenseRef)
	assert.Empty(t, rev.EquityReserveRef)
}

func TestRevaluationService_SalvageExceedsNewCost_Rejected(t *testing.T) {
	svc, events := newTestRevaluationService()

	_, err := svc.Revalue(context.Background(), testAsset(), dec("5000"), dec("6000"))

	assert.ErrorIs(t, err, depreciation.ErrSalvageExceedsCost)
	assert.Empty(t, events.Events(), "no event on a failed revaluation")
}

// =============================================================================
// REVERSE
// =============================================================================

func TestRevaluationService_Reverse_SwapsAndNegates(t *testing.T) {
	// GIVEN: An upward revaluation
	// WHEN: Reversing it
	// THEN: The book value pair swaps, the amount negates, and the
	//       routing follows the now-negative delta

	svc, _ := newTestRevaluationService()
	rev, err := svc.Revalue(context.Background(), testAsset(), dec("15000"), dec("1000"))
	require.NoError(t, err)

	reversed := svc.Reverse(rev)

	assert.Equal(t, "-5000", reversed.Amount.Amount.String())
	assert.Equal(t, rev.NewBookValue, reversed.PreviousBookValue)
	assert.Equal(t, rev.PreviousBookValue, reversed.NewBookValue)
	assert.Equal(t, "revaluation-expense", reversed.ExpenseRef)
	assert.Empty(t, reversed.EquityReserveRef)
}

// =============================================================================
// IMPACT PROJECTION
// =============================================================================

func TestRevaluationService_CalculateImpact(t *testing.T) {
	// GIVEN: An asset halfway through a 12-month life
	// WHEN: Projecting an upward revaluation to 18,000
	// THEN: The annual run-rate before and after uses the same
	//       recomputed 6-month remaining life

	svc, _ := newTestRevaluationService()
	asset := testAsset()
	asset.Cost = dec("12000")
	asset.SalvageValue = dec("0")
	asset.UsefulLifeMonths = 12
	asset.AccumulatedDepreciation = dec("6000")

	impact, err := svc.CalculateImpact(asset, dec("18000"), dec("0"))

	require.NoError(t, err)
	assert.Equal(t, 6, impact.RemainingLifeMonths)
	assert.Equal(t, "12000.00", impact.AnnualBefore.StringFixed(2))
	assert.Equal(t, "24000.00", impact.AnnualAfter.StringFixed(2))
	assert.Equal(t, "12000.00", impact.AnnualDelta.StringFixed(2))
}

func TestRevaluationService_CalculateImpact_FullyDepreciated(t *testing.T) {
	svc, _ := newTestRevaluationService()
	asset := testAsset()
	asset.AccumulatedDepreciation = dec("9000")

	impact, err := svc.CalculateImpact(asset, dec("12000"), dec("1000"))

	require.NoError(t, err)
	assert.Equal(t, 0, impact.RemainingLifeMonths)
	assert.True(t, impact.AnnualDelta.IsZero())
}

func TestRevaluationService_CalculateImpact_InvalidPair_Rejected(t *testing.T) {
	svc, _ := newTestRevaluationService()

	_, err := svc.CalculateImpact(testAsset(), dec("5000"), dec("6000"))

	assert.ErrorIs(t, err, depreciation.ErrSalvageExceedsCost)
}

// =============================================================================
// SCHEDULE RECALCULATION
// =============================================================================

func TestRevaluationService_RecalculateDepreciation_UsesRevaluedBasis(t *testing.T) {
	// GIVEN: A 12,000 straight-line asset half depreciated, revalued to 18,000
	// WHEN: Regenerating the schedule
	// THEN: Periods start from the revalued book value and consume the
	//       remaining 12,000 at the new monthly rate

	svc, _ := newTestRevaluationService()
	asset := testAsset()
	asset.Cost = dec("12000")
	asset.SalvageValue = dec("0")
	asset.UsefulLifeMonths = 12
	asset.AccumulatedDepreciation = dec("6000")

	rev, err := svc.Revalue(context.Background(), asset, dec("18000"), dec("0"))
	require.NoError(t, err)

	schedule, err := svc.RecalculateDepreciation(asset, rev)

	require.NoError(t, err)
	require.NotEmpty(t, schedule.Periods)
	assert.Equal(t, "18000", schedule.Cost.String())
	assert.Equal(t, "12000", schedule.Periods[0].OpeningBookValue.String())
	// 18000 over 12 months is 1500; the remaining 12000 takes 8 periods.
	assert.Equal(t, "1500.00", schedule.Periods[0].DepreciationAmount.StringFixed(2))
	require.Len(t, schedule.Periods, 8)
	assert.Equal(t, "12000", schedule.TotalDepreciation().String())
	assert.True(t, schedule.FinalBookValue().IsZero())
}
