package depreciation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/asset-engine/depreciation"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestForecastService(tier depreciation.Tier) *depreciation.ForecastService {
	return depreciation.NewForecastService(depreciation.NewFactory(tier))
}

// =============================================================================
// REMAINING LIFE
// =============================================================================

func TestRemainingLifeMonths(t *testing.T) {
	cases := []struct {
		name        string
		life        int
		accumulated string
		depreciable string
		want        int
	}{
		{"fresh asset", 12, "0", "12000", 12},
		{"half consumed", 12, "6000", "12000", 6},
		{"fully depreciated", 12, "12000", "12000", 0},
		{"almost done floors at one", 12, "11999", "12000", 1},
		{"zero depreciable", 12, "0", "0", 0},
		{"zero life", 0, "0", "12000", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := depreciation.RemainingLifeMonths(tc.life, dec(tc.accumulated), dec(tc.depreciable))
			assert.Equal(t, tc.want, got)
		})
	}
}

// =============================================================================
// FORECAST
// =============================================================================

func TestForecast_FixedHorizon(t *testing.T) {
	// GIVEN: A fresh 12,000 straight-line asset over 12 months
	// WHEN: Forecasting 5 periods
	// THEN: 5 projections of 1,000 each with running book values

	fs := newTestForecastService(depreciation.Tier1)

	forecast, err := fs.Forecast(straightLineInput("12000", "0", 12), 5)

	require.NoError(t, err)
	assert.Equal(t, 5, forecast.Count)
	assert.Equal(t, "5000", forecast.Total.String())
	assert.Equal(t, "1000.00", forecast.Average.StringFixed(2))
	assert.Equal(t, "7000", forecast.Periods[4].BookValueAfter.String())
	assert.Equal(t, "5000", forecast.Periods[4].AccumulatedAfter.String())
}

func TestForecast_ZeroHorizonMeansRemainingLife(t *testing.T) {
	// GIVEN: The same fresh asset
	// WHEN: Forecasting with a non-positive horizon
	// THEN: The projection covers the whole remaining life

	fs := newTestForecastService(depreciation.Tier1)

	forecast, err := fs.Forecast(straightLineInput("12000", "0", 12), 0)

	require.NoError(t, err)
	assert.Equal(t, 12, forecast.Count)
	assert.Equal(t, "12000", forecast.Total.String())
}

func TestForecast_HorizonCappedAtRemainingLife(t *testing.T) {
	fs := newTestForecastService(depreciation.Tier1)

	forecast, err := fs.Forecast(straightLineInput("12000", "0", 12), 100)

	require.NoError(t, err)
	assert.Equal(t, 12, forecast.Count)
}

func TestForecast_MidLifeStartsAtCurrentPeriod(t *testing.T) {
	// GIVEN: An asset halfway through its life
	// WHEN: Forecasting the remainder
	// THEN: Projections are numbered from the first unconsumed period

	fs := newTestForecastService(depreciation.Tier1)
	in := straightLineInput("12000", "0", 12)
	in.AccumulatedDepreciation = dec("6000")

	forecast, err := fs.Forecast(in, 0)

	require.NoError(t, err)
	require.Equal(t, 6, forecast.Count)
	assert.Equal(t, 7, forecast.Periods[0].Number)
	assert.Equal(t, 12, forecast.Periods[5].Number)
	assert.Equal(t, "6000", forecast.Total.String())
	assert.True(t, forecast.Periods[5].BookValueAfter.IsZero())
}

func TestForecast_FullyDepreciated_Empty(t *testing.T) {
	fs := newTestForecastService(depreciation.Tier1)
	in := straightLineInput("12000", "0", 12)
	in.AccumulatedDepreciation = dec("12000")

	forecast, err := fs.Forecast(in, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, forecast.Count)
	assert.Empty(t, forecast.Periods)
	assert.True(t, forecast.Total.IsZero())
	assert.True(t, forecast.Average.IsZero())
}

func TestForecast_TierGateApplied(t *testing.T) {
	fs := newTestForecastService(depreciation.Tier1)
	in := straightLineInput("12000", "0", 12)
	in.Method = depreciation.MethodAnnuity

	_, err := fs.Forecast(in, 0)

	assert.ErrorIs(t, err, depreciation.ErrTierNotAvailable)
}

// =============================================================================
// YEARLY AGGREGATION
// =============================================================================

func TestForecast_Yearly_BucketsByCalendarYear(t *testing.T) {
	// GIVEN: A 1,200 asset acquired November 2024 over 12 months
	// WHEN: Aggregating the forecast by year
	// THEN: Two months land in 2024 and ten in 2025, in ascending order

	fs := newTestForecastService(depreciation.Tier1)
	in := straightLineInput("1200", "0", 12)
	in.AcquisitionDate = time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)

	forecast, err := fs.Forecast(in, 0)
	require.NoError(t, err)

	yearly := forecast.Yearly()

	require.Len(t, yearly, 2)
	assert.Equal(t, 2024, yearly[0].Year)
	assert.Equal(t, "200", yearly[0].Total.String())
	assert.Equal(t, 2, yearly[0].Count)
	assert.Equal(t, 2025, yearly[1].Year)
	assert.Equal(t, "1000", yearly[1].Total.String())
	assert.Equal(t, 10, yearly[1].Count)
}

func TestForecast_AverageRoundedToCents(t *testing.T) {
	// GIVEN: A depreciable amount that does not divide evenly
	// WHEN: Forecasting the full life
	// THEN: The average is rounded to 2 places

	fs := newTestForecastService(depreciation.Tier1)

	forecast, err := fs.Forecast(straightLineInput("1000", "0", 3), 0)

	require.NoError(t, err)
	require.Equal(t, 3, forecast.Count)
	// Each period rounds to 333.33, total 999.99.
	assert.Equal(t, "333.33", forecast.Average.StringFixed(2))
	assert.Equal(t, "999.99", forecast.Total.StringFixed(2))
}
