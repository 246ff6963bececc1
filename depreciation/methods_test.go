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

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func freshContext(lifeMonths int) depreciation.Context {
	return depreciation.Context{
		UsefulLifeMonths: lifeMonths,
		RemainingMonths:  lifeMonths,
		RecoveryYear:     1,
		Currency:         "USD",
	}
}

func calendarWindow(year int, month time.Month) depreciation.PeriodWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return depreciation.PeriodWindow{Start: start, End: start.AddDate(0, 1, -1)}
}

// =============================================================================
// STRAIGHT-LINE
// =============================================================================

func TestStraightLine_FullMonth(t *testing.T) {
	// GIVEN: A 12,000 asset with no salvage over 12 months
	// WHEN: Calculating a full month
	// THEN: The amount is exactly 1,000

	method := depreciation.NewStraightLine(false)
	ctx := freshContext(12)

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "1000.00", amount.Amount.StringFixed(2))
	assert.Equal(t, "USD", amount.Currency)
}

func TestStraightLine_ProratedFirstMonth(t *testing.T) {
	// GIVEN: An asset acquired January 15 and a calendar January window
	// WHEN: Calculating with daily proration enabled
	// THEN: The amount is scaled by 17 held days over 31 days in January

	method := depreciation.NewStraightLine(true)
	ctx := freshContext(12)
	ctx.AcquisitionDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	// 1000 * 17/31
	assert.Equal(t, "548.39", amount.Amount.StringFixed(2))
}

func TestStraightLine_ProrationNeverExceedsFullMonth(t *testing.T) {
	// GIVEN: An acquisition date well before the window
	// WHEN: Calculating with proration enabled
	// THEN: The factor caps at 1.0 and the amount stays a full month

	method := depreciation.NewStraightLine(true)
	ctx := freshContext(12)
	ctx.AcquisitionDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.March), ctx)

	require.NoError(t, err)
	assert.Equal(t, "1000.00", amount.Amount.StringFixed(2))
}

func TestStraightLine_CappedAtRemainingDepreciable(t *testing.T) {
	// GIVEN: An asset nearly fully depreciated
	// WHEN: Calculating the next month
	// THEN: The amount caps at what is left above salvage

	method := depreciation.NewStraightLine(false)
	ctx := freshContext(12)
	ctx.AccumulatedDepreciation = dec("11700")

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.December), ctx)

	require.NoError(t, err)
	assert.Equal(t, "300.00", amount.Amount.StringFixed(2))
}

func TestStraightLine_InvalidInputs_Rejected(t *testing.T) {
	// GIVEN: A zero cost and a zero useful life
	// WHEN: Calculating
	// THEN: A ValidationError aggregates both problems

	method := depreciation.NewStraightLine(false)
	ctx := freshContext(0)

	_, err := method.Calculate(decimal.Zero, decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.Error(t, err)
	var ve *depreciation.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, depreciation.ErrInvalidCost)
	assert.ErrorIs(t, err, depreciation.ErrInvalidLife)
}

func TestStraightLine_SalvageExceedsCost_Rejected(t *testing.T) {
	method := depreciation.NewStraightLine(false)
	ctx := freshContext(12)

	_, err := method.Calculate(dec("1000"), dec("2000"), calendarWindow(2025, time.January), ctx)

	assert.ErrorIs(t, err, depreciation.ErrSalvageExceedsCost)
}

// =============================================================================
// DECLINING BALANCE
// =============================================================================

func TestDoubleDeclining_FirstMonth(t *testing.T) {
	// GIVEN: A 10,000 asset, 1,000 salvage, 5-year life
	// WHEN: Calculating the first month
	// THEN: Book value * (2/5)/12, well above the straight-line candidate

	method := depreciation.NewDoubleDeclining(true)
	ctx := freshContext(60)

	amount, err := method.Calculate(dec("10000"), dec("1000"), calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	// 10000 * (2/5)/12 = 333.33...
	assert.Equal(t, "333.33", amount.Amount.StringFixed(2))
}

func TestDoubleDeclining_SwitchesToStraightLine(t *testing.T) {
	// GIVEN: A mostly depreciated asset late in its life
	// WHEN: The straight-line candidate on the remaining balance exceeds
	//       the declining candidate
	// THEN: The larger straight-line amount is taken

	method := depreciation.NewDoubleDeclining(true)
	ctx := freshContext(60)
	ctx.AccumulatedDepreciation = dec("8500")
	ctx.RemainingMonths = 6
	ctx.RecoveryYear = 5

	assert.True(t, method.ShouldSwitchToStraightLine(dec("10000"), dec("1000"), ctx))

	amount, err := method.Calculate(dec("10000"), dec("1000"), calendarWindow(2029, time.July), ctx)
	require.NoError(t, err)
	// Declining: 1500 * 0.4/12 = 50. Straight-line: (1500-1000)/6 = 83.33.
	assert.Equal(t, "83.33", amount.Amount.StringFixed(2))
}

func TestDeclining150_UsesLowerFactor(t *testing.T) {
	// GIVEN: The same asset under the 150% variant
	// WHEN: Calculating the first month
	// THEN: The amount uses factor 1.5 instead of 2.0

	method := depreciation.NewDeclining150(true)
	ctx := freshContext(60)

	amount, err := method.Calculate(dec("10000"), dec("1000"), calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	// 10000 * (1.5/5)/12 = 250
	assert.Equal(t, "250.00", amount.Amount.StringFixed(2))
}

func TestDecliningBalance_LifeUnderOneYear_Rejected(t *testing.T) {
	method := depreciation.NewDoubleDeclining(true)
	ctx := freshContext(6)

	_, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	assert.ErrorIs(t, err, depreciation.ErrInvalidLife)
}

// =============================================================================
// SUM-OF-YEARS-DIGITS
// =============================================================================

func TestSumOfYears_YearlyFractions(t *testing.T) {
	// GIVEN: A 13,000 asset, 1,000 salvage, 3-year life (sum = 6)
	// WHEN: Calculating a month in each recovery year
	// THEN: Monthly amounts follow 3/6, 2/6, 1/6 of the depreciable amount

	method := depreciation.NewSumOfYears()
	cost, salvage := dec("13000"), dec("1000")

	cases := []struct {
		recoveryYear int
		accumulated  string
		remaining    int
		want         string
	}{
		{1, "0", 36, "500.00"},     // 12000 * 3/6 / 12
		{2, "6000", 24, "333.33"},  // 12000 * 2/6 / 12
		{3, "10000", 12, "166.67"}, // 12000 * 1/6 / 12
	}

	for _, tc := range cases {
		ctx := freshContext(36)
		ctx.RecoveryYear = tc.recoveryYear
		ctx.AccumulatedDepreciation = dec(tc.accumulated)
		ctx.RemainingMonths = tc.remaining

		amount, err := method.Calculate(cost, salvage, calendarWindow(2025, time.January), ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.want, amount.Amount.StringFixed(2), "recovery year %d", tc.recoveryYear)
	}
}

func TestSumOfYears_PastLastYear_Zero(t *testing.T) {
	method := depreciation.NewSumOfYears()
	ctx := freshContext(36)
	ctx.RecoveryYear = 4

	amount, err := method.Calculate(dec("13000"), dec("1000"), calendarWindow(2028, time.January), ctx)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

// =============================================================================
// UNITS OF PRODUCTION
// =============================================================================

func TestUnitsOfProduction_PerUnitRate(t *testing.T) {
	// GIVEN: A 100,000 asset, 10,000 salvage, 90,000 expected units
	// WHEN: The period produced 10,000 units
	// THEN: Depreciation is 10,000 at the 1.00/unit rate

	method := depreciation.NewUnitsOfProduction()
	ctx := freshContext(60)
	ctx.TotalExpectedUnits = dec("90000")
	ctx.UnitsProduced = dec("10000")

	amount, err := method.Calculate(dec("100000"), dec("10000"), calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "10000.00", amount.Amount.StringFixed(2))
}

func TestUnitsOfProduction_NoProduction_Zero(t *testing.T) {
	// GIVEN: A period with no recorded production
	// WHEN: Calculating
	// THEN: The amount is zero, not an error

	method := depreciation.NewUnitsOfProduction()
	ctx := freshContext(60)
	ctx.TotalExpectedUnits = dec("90000")

	amount, err := method.Calculate(dec("100000"), dec("10000"), calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestUnitsOfProduction_MissingTotalUnits_FlaggedByValidation(t *testing.T) {
	// GIVEN: No total expected units configured
	// WHEN: Asking for validation errors up front
	// THEN: The missing-units problem is reported

	method := depreciation.NewUnitsOfProduction()
	ctx := freshContext(60)

	errs := method.ValidationErrors(dec("100000"), dec("10000"), ctx)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], depreciation.ErrMissingUnitsData)
}

// =============================================================================
// MACRS
// =============================================================================

func TestMACRS_FirstYearTableRate(t *testing.T) {
	// GIVEN: A 10,000 five-year property
	// WHEN: Calculating the first period of recovery year 1
	// THEN: The full 20% annual table amount lands in that period

	method := depreciation.NewMACRS()
	ctx := freshContext(60)
	ctx.PropertyClass = depreciation.Property5Year

	amount, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "2000.00", amount.Amount.StringFixed(2))
}

func TestMACRS_MidYearPeriods_Zero(t *testing.T) {
	// GIVEN: The same property two months into recovery year 1
	// WHEN: Calculating
	// THEN: The amount is zero; MACRS is an annual figure

	method := depreciation.NewMACRS()
	ctx := freshContext(60)
	ctx.PropertyClass = depreciation.Property5Year
	ctx.AccumulatedDepreciation = dec("2000")
	ctx.RemainingMonths = 58

	amount, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2025, time.March), ctx)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestMACRS_SecondYearTableRate(t *testing.T) {
	method := depreciation.NewMACRS()
	ctx := freshContext(60)
	ctx.PropertyClass = depreciation.Property5Year
	ctx.AccumulatedDepreciation = dec("2000")
	ctx.RemainingMonths = 48
	ctx.RecoveryYear = 2

	amount, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2026, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "3200.00", amount.Amount.StringFixed(2))
}

func TestMACRS_FirstYearBonus_AddedAndCapped(t *testing.T) {
	// GIVEN: A 50% first-year bonus on a five-year property
	// WHEN: Calculating year 1
	// THEN: Table amount plus bonus, capped at remaining basis

	method := depreciation.NewMACRS()
	ctx := freshContext(60)
	ctx.PropertyClass = depreciation.Property5Year
	ctx.BonusRate = dec("0.5")

	amount, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	// 2000 table + 5000 bonus
	assert.Equal(t, "7000.00", amount.Amount.StringFixed(2))
}

func TestMACRS_UnknownPropertyClass_Rejected(t *testing.T) {
	method := depreciation.NewMACRS()
	ctx := freshContext(60)

	_, err := method.Calculate(dec("10000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	assert.ErrorIs(t, err, depreciation.ErrMissingPropertyClass)
}

func TestMACRS_AnnualRate_PastTable_Zero(t *testing.T) {
	method := depreciation.NewMACRS()

	assert.True(t, method.AnnualRate(depreciation.Property3Year, 5).IsZero())
	assert.True(t, method.AnnualRate(depreciation.Property3Year, 0).IsZero())
	assert.Equal(t, "0.3333", method.AnnualRate(depreciation.Property3Year, 1).String())
}

// =============================================================================
// BONUS
// =============================================================================

func TestBonus_FirstYearNewProperty(t *testing.T) {
	// GIVEN: New property with a 40% bonus rate
	// WHEN: Calculating recovery year 1
	// THEN: The deduction is cost * rate

	method := depreciation.NewBonus()
	ctx := freshContext(36)
	ctx.NewProperty = true
	ctx.BonusRate = dec("0.4")

	amount, err := method.Calculate(dec("50000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "20000.00", amount.Amount.StringFixed(2))
}

func TestBonus_UsedProperty_Zero(t *testing.T) {
	method := depreciation.NewBonus()
	ctx := freshContext(36)
	ctx.BonusRate = dec("0.4")

	amount, err := method.Calculate(dec("50000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestBonus_LaterYears_Zero(t *testing.T) {
	method := depreciation.NewBonus()
	ctx := freshContext(36)
	ctx.NewProperty = true
	ctx.BonusRate = dec("0.4")
	ctx.RecoveryYear = 2
	ctx.AccumulatedDepreciation = dec("20000")

	amount, err := method.Calculate(dec("50000"), decimal.Zero, calendarWindow(2026, time.January), ctx)

	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestBonus_RateOutsideUnitInterval_Rejected(t *testing.T) {
	method := depreciation.NewBonus()
	ctx := freshContext(36)
	ctx.NewProperty = true
	ctx.BonusRate = dec("1.5")

	_, err := method.Calculate(dec("50000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	assert.ErrorIs(t, err, depreciation.ErrInvalidBonusRate)
}

// =============================================================================
// ANNUITY
// =============================================================================

func TestAnnuity_ZeroRate_FallsBackToStraightLine(t *testing.T) {
	// GIVEN: An annuity method with no interest rate
	// WHEN: Calculating directly
	// THEN: The amount degenerates to straight-line

	method := depreciation.NewAnnuity(false)
	ctx := freshContext(12)

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	assert.Equal(t, "1000.00", amount.Amount.StringFixed(2))
}

func TestAnnuity_PositiveRate_FirstMonthBelowPayment(t *testing.T) {
	// GIVEN: A 12% annual rate on a 12,000 asset over 12 months
	// WHEN: Calculating the first month
	// THEN: The depreciation portion is the level payment minus interest
	//       on the full opening book value

	method := depreciation.NewAnnuity(false)
	ctx := freshContext(12)
	ctx.AnnualInterestRate = dec("0.12")

	amount, err := method.Calculate(dec("12000"), decimal.Zero, calendarWindow(2025, time.January), ctx)

	require.NoError(t, err)
	// payment = 12000 * 0.01/(1 - 1.01^-12) = 1066.19; interest = 120
	assert.Equal(t, "946.19", amount.Amount.StringFixed(2))
}

func TestAnnuity_MissingRate_FlaggedByValidation(t *testing.T) {
	method := depreciation.NewAnnuity(false)
	ctx := freshContext(12)

	errs := method.ValidationErrors(dec("12000"), decimal.Zero, ctx)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], depreciation.ErrMissingInterestRate)
}

// =============================================================================
// SHARED VALUE OBJECTS
// =============================================================================

func TestBookValue_DepreciateCapsAtSalvage(t *testing.T) {
	// GIVEN: A book value close to its salvage floor
	// WHEN: Depreciating past the floor
	// THEN: Accumulated depreciation caps so net never drops below salvage

	bv, err := depreciation.NewBookValue(dec("10000"), dec("1000"), dec("8500"), "USD")
	require.NoError(t, err)

	next := bv.Depreciate(dec("2000"))

	assert.Equal(t, "9000", next.AccumulatedDepreciation.String())
	assert.Equal(t, "1000", next.NetBookValue().String())
	assert.True(t, next.IsFullyDepreciated())
	// Original untouched
	assert.Equal(t, "8500", bv.AccumulatedDepreciation.String())
}

func TestDepreciationAmount_CurrencyMismatch_Rejected(t *testing.T) {
	usd := depreciation.NewDepreciationAmount(dec("100"), "USD")
	eur := depreciation.NewDepreciationAmount(dec("100"), "EUR")

	_, err := usd.Add(eur)

	require.Error(t, err)
	assert.ErrorIs(t, err, depreciation.ErrCurrencyMismatch)
	var cme *depreciation.CurrencyMismatchError
	assert.ErrorAs(t, err, &cme)
}
