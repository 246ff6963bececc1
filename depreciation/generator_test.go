package depreciation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/asset-engine/depreciation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestGenerator(tier depreciation.Tier) *depreciation.ScheduleGenerator {
	return depreciation.NewScheduleGenerator(depreciation.NewFactory(tier))
}

func straightLineInput(cost, salvage string, lifeMonths int) depreciation.GenerateInput {
	return depreciation.GenerateInput{
		AssetID:          "asset-1",
		TenantID:         "tenant-1",
		BookType:         depreciation.BookFinancial,
		Cost:             dec(cost),
		SalvageValue:     dec(salvage),
		UsefulLifeMonths: lifeMonths,
		AcquisitionDate:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Currency:         "USD",
		Method:           depreciation.MethodStraightLine,
	}
}

// =============================================================================
// GENERATION
// =============================================================================

func TestScheduleGenerator_StraightLine_FullLife(t *testing.T) {
	// GIVEN: A 12,000 asset with no salvage over 12 months
	// WHEN: Generating the full schedule
	// THEN: 12 periods of exactly 1,000 each, book value landing on zero

	gen := newTestGenerator(depreciation.Tier1)

	schedule, err := gen.Generate(straightLineInput("12000", "0", 12))

	require.NoError(t, err)
	require.Len(t, schedule.Periods, 12)
	assert.Equal(t, "12000", schedule.TotalDepreciation().String())
	assert.Equal(t, "0", schedule.FinalBookValue().String())

	for i, p := range schedule.Periods {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, "1000.00", p.DepreciationAmount.StringFixed(2))
		assert.Equal(t, depreciation.StatusCalculated, p.Status)
		assert.NotEmpty(t, p.ID)
	}
}

func TestScheduleGenerator_AccumulatedIsMonotonic(t *testing.T) {
	// GIVEN: An accelerated double-declining schedule
	// WHEN: Generating over five years
	// THEN: Accumulated depreciation never decreases and opening/closing
	//       book values chain exactly

	gen := newTestGenerator(depreciation.Tier2)
	in := straightLineInput("10000", "1000", 60)
	in.Method = depreciation.MethodDoubleDeclining

	schedule, err := gen.Generate(in)
	require.NoError(t, err)
	require.NotEmpty(t, schedule.Periods)

	prev := decimal.Zero
	for _, p := range schedule.Periods {
		assert.True(t, p.AccumulatedDepreciation.GreaterThanOrEqual(prev),
			"accumulated dropped at period %d", p.Number)
		assert.True(t, p.ClosingBookValue.Equal(p.OpeningBookValue.Sub(p.DepreciationAmount)),
			"book values do not chain at period %d", p.Number)
		prev = p.AccumulatedDepreciation
	}

	// Crossover exhausts the depreciable amount within the life.
	diff := dec("9000").Sub(schedule.TotalDepreciation()).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")), "total %s", schedule.TotalDepreciation())
}

func TestScheduleGenerator_StopsAtSalvage(t *testing.T) {
	// GIVEN: An asset migrated mid-life with one month of depreciation left
	// WHEN: Generating
	// THEN: The schedule stops as soon as book value reaches salvage

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("10000", "4000", 12)
	in.AccumulatedDepreciation = dec("5500")

	schedule, err := gen.Generate(in)

	require.NoError(t, err)
	require.Len(t, schedule.Periods, 1)
	assert.Equal(t, "500.00", schedule.Periods[0].DepreciationAmount.StringFixed(2))
	assert.Equal(t, "4000", schedule.Periods[0].ClosingBookValue.String())
}

func TestScheduleGenerator_PeriodWindowsAnchorToAcquisition(t *testing.T) {
	// GIVEN: A mid-month acquisition date
	// WHEN: Generating
	// THEN: Each period window starts on the acquisition day-of-month

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("1200", "0", 3)
	in.AcquisitionDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	schedule, err := gen.Generate(in)
	require.NoError(t, err)
	require.Len(t, schedule.Periods, 3)

	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), schedule.Periods[0].Window.Start)
	assert.Equal(t, time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC), schedule.Periods[0].Window.End)
	assert.Equal(t, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), schedule.Periods[1].Window.Start)
}

func TestScheduleGenerator_UnitsOfProduction_RequiresUnits(t *testing.T) {
	// GIVEN: A units-of-production asset without expected units
	// WHEN: Generating
	// THEN: Validation fails before any period is produced

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("100000", "10000", 60)
	in.Method = depreciation.MethodUnitsOfProduction

	_, err := gen.Generate(in)

	require.Error(t, err)
	assert.ErrorIs(t, err, depreciation.ErrMissingUnitsData)
}

func TestScheduleGenerator_TierGateApplied(t *testing.T) {
	// GIVEN: A Tier 1 generator
	// WHEN: Generating a MACRS schedule
	// THEN: The factory's tier gate rejects the request

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("10000", "0", 60)
	in.Method = depreciation.MethodMACRS

	_, err := gen.Generate(in)

	require.Error(t, err)
	assert.ErrorIs(t, err, depreciation.ErrTierNotAvailable)
}

func TestScheduleGenerator_MACRS_AnnualLumps(t *testing.T) {
	// GIVEN: A five-year MACRS property
	// WHEN: Generating the schedule
	// THEN: Each recovery year's first period carries the table amount
	//       and the other eleven months are zero

	gen := newTestGenerator(depreciation.Tier3)
	in := straightLineInput("10000", "0", 60)
	in.Method = depreciation.MethodMACRS
	in.Inputs.PropertyClass = depreciation.Property5Year

	schedule, err := gen.Generate(in)
	require.NoError(t, err)
	require.Len(t, schedule.Periods, 60)

	p1, ok := schedule.Period(1)
	require.True(t, ok)
	assert.Equal(t, "2000.00", p1.DepreciationAmount.StringFixed(2))

	p2, _ := schedule.Period(2)
	assert.True(t, p2.DepreciationAmount.IsZero())

	p13, _ := schedule.Period(13)
	assert.Equal(t, "3200.00", p13.DepreciationAmount.StringFixed(2))
}

// =============================================================================
// ADJUSTMENT - Replay-then-regenerate
// =============================================================================

func TestScheduleGenerator_Adjust_HistoryPreserved(t *testing.T) {
	// GIVEN: A 12-month straight-line schedule
	// WHEN: Extending the life to 24 months from period 7
	// THEN: Periods 1-6 are byte-for-byte what the original run computed
	//       and later periods use the new life

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("12000", "0", 12)

	original, err := gen.Generate(in)
	require.NoError(t, err)

	newLife := 24
	adjusted, err := gen.Adjust(in, depreciation.Adjustments{
		FromPeriod:          7,
		NewUsefulLifeMonths: &newLife,
	})
	require.NoError(t, err)

	// History replays identically (ids are regenerated, amounts are not).
	for i := 0; i < 6; i++ {
		assert.True(t, adjusted.Periods[i].DepreciationAmount.Equal(original.Periods[i].DepreciationAmount),
			"history amount changed at period %d", i+1)
		assert.True(t, adjusted.Periods[i].AccumulatedDepreciation.Equal(original.Periods[i].AccumulatedDepreciation))
	}

	// Future periods spread 12000 over the 24-month life: 500 each, until
	// the remaining 6000 runs out after 12 more periods.
	require.Len(t, adjusted.Periods, 18)
	assert.Equal(t, "500.00", adjusted.Periods[6].DepreciationAmount.StringFixed(2))
	assert.Equal(t, "12000", adjusted.TotalDepreciation().String())
	assert.Equal(t, 24, adjusted.UsefulLifeMonths)
}

func TestScheduleGenerator_Adjust_MethodChange(t *testing.T) {
	// GIVEN: A straight-line schedule at Tier 2
	// WHEN: Switching to double-declining from period 4
	// THEN: The cutover period is computed under the new method

	gen := newTestGenerator(depreciation.Tier2)
	in := straightLineInput("12000", "0", 24)

	newMethod := depreciation.MethodDoubleDeclining
	adjusted, err := gen.Adjust(in, depreciation.Adjustments{
		FromPeriod: 4,
		NewMethod:  &newMethod,
	})
	require.NoError(t, err)

	assert.Equal(t, depreciation.MethodDoubleDeclining, adjusted.Method)
	// Replay: 3 months at 500 leaves book value 10500.
	// Declining: 10500 * (2/2)/12 = 875.
	p4, ok := adjusted.Period(4)
	require.True(t, ok)
	assert.Equal(t, "875.00", p4.DepreciationAmount.StringFixed(2))
}

func TestScheduleGenerator_Adjust_CutoverBeforePeriodOne_Rejected(t *testing.T) {
	gen := newTestGenerator(depreciation.Tier1)

	_, err := gen.Adjust(straightLineInput("12000", "0", 12), depreciation.Adjustments{FromPeriod: 0})

	require.Error(t, err)
	assert.ErrorIs(t, err, depreciation.ErrInvalidAdjustment)
}

func TestScheduleGenerator_Adjust_LifeShorterThanHistory_Rejected(t *testing.T) {
	// GIVEN: 12 periods of history already replayed
	// WHEN: Shrinking the life below the history length
	// THEN: The adjustment is rejected

	gen := newTestGenerator(depreciation.Tier1)
	in := straightLineInput("24000", "0", 24)

	newLife := 6
	_, err := gen.Adjust(in, depreciation.Adjustments{
		FromPeriod:          13,
		NewUsefulLifeMonths: &newLife,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, depreciation.ErrInvalidAdjustment)
}

// =============================================================================
// PERIOD STATUS STATE MACHINE
// =============================================================================

func TestSchedulePeriod_Posting(t *testing.T) {
	// GIVEN: A calculated period
	// WHEN: Posting it with a run id
	// THEN: Status moves to POSTED and the run is recorded

	p := depreciation.SchedulePeriod{ID: "p-1", Number: 1, Status: depreciation.StatusCalculated}

	posted, err := p.WithPosting("run-1")

	require.NoError(t, err)
	assert.Equal(t, depreciation.StatusPosted, posted.Status)
	assert.Equal(t, depreciation.RunID("run-1"), posted.RunID)
	// Original value untouched
	assert.Equal(t, depreciation.StatusCalculated, p.Status)
}

func TestSchedulePeriod_PostingWithoutRun_Rejected(t *testing.T) {
	p := depreciation.SchedulePeriod{Status: depreciation.StatusCalculated}

	_, err := p.WithPosting("")

	assert.ErrorIs(t, err, depreciation.ErrRunRequired)
}

func TestSchedulePeriod_DoublePosting_Rejected(t *testing.T) {
	p := depreciation.SchedulePeriod{Status: depreciation.StatusCalculated}
	posted, err := p.WithPosting("run-1")
	require.NoError(t, err)

	_, err = posted.WithPosting("run-2")

	require.Error(t, err)
	var te *depreciation.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, depreciation.StatusPosted, te.From)
	assert.ErrorIs(t, err, depreciation.ErrInvalidTransition)
}

func TestSchedulePeriod_ReverseRequiresPosted(t *testing.T) {
	// GIVEN: A period that was never posted
	// WHEN: Reversing it
	// THEN: The transition is rejected

	p := depreciation.SchedulePeriod{Status: depreciation.StatusCalculated}

	_, err := p.Reverse()

	assert.ErrorIs(t, err, depreciation.ErrInvalidTransition)
}

func TestSchedulePeriod_ReversedIsTerminal(t *testing.T) {
	p := depreciation.SchedulePeriod{Status: depreciation.StatusCalculated}
	posted, err := p.WithPosting("run-1")
	require.NoError(t, err)
	reversed, err := posted.Reverse()
	require.NoError(t, err)

	_, err = reversed.WithPosting("run-2")
	assert.ErrorIs(t, err, depreciation.ErrInvalidTransition)

	_, err = reversed.MarkAdjusted()
	assert.ErrorIs(t, err, depreciation.ErrInvalidTransition)
}

func TestSchedulePeriod_MarkAdjustedOnlyFromCalculated(t *testing.T) {
	calculated := depreciation.SchedulePeriod{Status: depreciation.StatusCalculated}
	adjusted, err := calculated.MarkAdjusted()
	require.NoError(t, err)
	assert.Equal(t, depreciation.StatusAdjusted, adjusted.Status)

	posted, err := calculated.WithPosting("run-1")
	require.NoError(t, err)
	_, err = posted.MarkAdjusted()
	assert.ErrorIs(t, err, depreciation.ErrInvalidTransition)
}
