/*
forecast.go - Forward-looking depreciation projections

PURPOSE:
  Projects future depreciation without mutating any persisted state.
  A forecast is a snapshot: an ordered, finite sequence of per-period
  projections plus aggregate totals, computed once and returned as a
  value.

REMAINING LIFE:
  When the caller does not fix the horizon, it is derived from how much
  of the depreciable amount is already consumed:
    remaining = ceil(usefulLifeMonths * (1 - accumulated/depreciable))
  floored at 1 while any depreciation remains. The same formula is used
  by the revaluation service; RemainingLifeMonths is the single home so
  the call sites cannot drift apart.

SEE ALSO:
  - generator.go: Shares GenerateInput and the method abstraction
  - revaluation.go: Reuses RemainingLifeMonths for impact projection
*/
package depreciation

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FORECAST TYPES
// =============================================================================

type ForecastPeriod struct {
	Number           int // 1-based month within the asset's life
	Window           PeriodWindow
	Amount           decimal.Decimal
	BookValueAfter   decimal.Decimal
	AccumulatedAfter decimal.Decimal
	Year             int // calendar year of the window start
}

// DepreciationForecast is a finished snapshot, not a restartable
// iterator: totals are computed at creation.
type DepreciationForecast struct {
	AssetID  AssetID
	Currency string
	Periods  []ForecastPeriod
	Total    decimal.Decimal
	Average  decimal.Decimal
	Count    int
}

// YearlySummary buckets forecast periods by calendar year.
type YearlySummary struct {
	Year  int
	Total decimal.Decimal
	Count int
}

// Yearly aggregates the forecast by calendar year, in ascending order.
func (f DepreciationForecast) Yearly() []YearlySummary {
	var out []YearlySummary
	index := map[int]int{}
	for _, p := range f.Periods {
		i, ok := index[p.Year]
		if !ok {
			i = len(out)
			index[p.Year] = i
			out = append(out, YearlySummary{Year: p.Year, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(p.Amount)
		out[i].Count++
	}
	return out
}

// =============================================================================
// REMAINING LIFE
// =============================================================================

// RemainingLifeMonths derives the months of life left from the share of
// the depreciable amount already consumed. Returns 0 for a fully
// depreciated asset and at least 1 while any depreciation remains.
func RemainingLifeMonths(usefulLifeMonths int, accumulated, depreciable decimal.Decimal) int {
	if usefulLifeMonths <= 0 || !depreciable.IsPositive() {
		return 0
	}
	remaining := depreciable.Sub(accumulated)
	if !remaining.IsPositive() {
		return 0
	}

	ratio := accumulated.Div(depreciable)
	months := decimal.NewFromInt(int64(usefulLifeMonths)).Mul(decimalOne.Sub(ratio))
	f, _ := months.Float64()
	n := int(math.Ceil(f))
	if n < 1 {
		n = 1
	}
	return n
}

// =============================================================================
// FORECAST SERVICE
// =============================================================================

type ForecastService struct {
	Factory *Factory
}

func NewForecastService(factory *Factory) *ForecastService {
	return &ForecastService{Factory: factory}
}

// Forecast projects up to numberOfPeriods future periods, starting from
// the asset's current accumulated depreciation. A non-positive
// numberOfPeriods means "the remaining life". Projection short-circuits
// once book value reaches salvage; every amount is capped so the
// running book value never drops below salvage.
func (fs *ForecastService) Forecast(in GenerateInput, numberOfPeriods int) (DepreciationForecast, error) {
	method, err := fs.Factory.Create(in.Method)
	if err != nil {
		return DepreciationForecast{}, err
	}

	if errs := method.ValidationErrors(in.Cost, in.SalvageValue, in.contextFor(1, in.UsefulLifeMonths, in.AccumulatedDepreciation)); len(errs) > 0 {
		return DepreciationForecast{}, &ValidationError{Method: in.Method, Errors: errs}
	}

	depreciable := in.Cost.Sub(in.SalvageValue)
	remainingLife := RemainingLifeMonths(in.UsefulLifeMonths, in.AccumulatedDepreciation, depreciable)
	horizon := numberOfPeriods
	if horizon <= 0 || horizon > remainingLife {
		horizon = remainingLife
	}

	startMonth := in.UsefulLifeMonths - remainingLife + 1
	if startMonth < 1 {
		startMonth = 1
	}

	forecast := DepreciationForecast{
		AssetID:  in.AssetID,
		Currency: in.Currency,
		Total:    decimal.Zero,
		Average:  decimal.Zero,
	}

	accumulated := in.AccumulatedDepreciation
	for i := 0; i < horizon; i++ {
		month := startMonth + i
		if month > in.UsefulLifeMonths {
			break
		}
		book := in.Cost.Sub(accumulated)
		if !book.GreaterThan(in.SalvageValue) {
			break
		}

		window := MonthWindow(in.AcquisitionDate, month)
		ctx := in.contextFor(month, in.UsefulLifeMonths, accumulated)

		amount, err := method.Calculate(in.Cost, in.SalvageValue, window, ctx)
		if err != nil {
			return DepreciationForecast{}, err
		}

		accumulated = accumulated.Add(amount.Amount)
		forecast.Periods = append(forecast.Periods, ForecastPeriod{
			Number:           month,
			Window:           window,
			Amount:           amount.Amount,
			BookValueAfter:   in.Cost.Sub(accumulated),
			AccumulatedAfter: accumulated,
			Year:             window.Start.Year(),
		})
		forecast.Total = forecast.Total.Add(amount.Amount)
	}

	forecast.Count = len(forecast.Periods)
	if forecast.Count > 0 {
		forecast.Average = forecast.Total.Div(decimal.NewFromInt(int64(forecast.Count))).Round(2)
	}
	return forecast, nil
}
