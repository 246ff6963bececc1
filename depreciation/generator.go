/*
generator.go - Schedule generation and replay-then-regenerate adjustment

PURPOSE:
  Drives a depreciation method across an asset's full useful life to
  produce a period-by-period schedule, and adjusts existing schedules
  from a cutover point without touching history.

GENERATION LOOP:
  For each month while currentBookValue > salvageValue and
  month <= usefulLifeMonths:
    1. Compute the period window (acquisition + month-1 whole months)
    2. Call the method with remainingMonths = usefulLifeMonths - month + 1
    3. Append a schedule period
    4. accumulated += amount; currentBookValue = cost - accumulated
  Stops early once book value reaches salvage.

ADJUSTMENT (replay-then-regenerate):
  Adjust() REPLAYS the original method from period 1 up to (not
  including) the cutover to reconstruct historical accumulated
  depreciation exactly as originally computed, then generates all
  future periods under the new parameters from the reconstructed book
  value. Posted history is never silently altered; the replay is the
  proof. Do not "optimize" the replay away with cached totals - the
  recomputation is the audit property.

SEE ALSO:
  - schedule.go: Period lifecycle
  - forecast.go: Forward projections on the same method abstraction
*/
package depreciation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUTS
// =============================================================================

// MethodInputs bundles the method-specific extras an asset carries.
type MethodInputs struct {
	TotalExpectedUnits decimal.Decimal
	UnitsPerPeriod     decimal.Decimal
	AnnualInterestRate decimal.Decimal
	BonusRate          decimal.Decimal
	PropertyClass      PropertyClass
	NewProperty        bool
}

// GenerateInput is everything needed to build a schedule from scratch.
type GenerateInput struct {
	AssetID          AssetID
	TenantID         TenantID
	BookType         BookType
	Cost             decimal.Decimal
	SalvageValue     decimal.Decimal
	UsefulLifeMonths int
	AcquisitionDate  time.Time
	Currency         string
	Method           MethodType
	Inputs           MethodInputs

	// Opening accumulated depreciation, for assets migrated mid-life.
	AccumulatedDepreciation decimal.Decimal
}

func (in GenerateInput) contextFor(month, lifeMonths int, accumulated decimal.Decimal) Context {
	return Context{
		UsefulLifeMonths:        lifeMonths,
		AccumulatedDepreciation: accumulated,
		RemainingMonths:         lifeMonths - month + 1,
		AcquisitionDate:         in.AcquisitionDate,
		RecoveryYear:            RecoveryYear(month),
		Currency:                in.Currency,
		UnitsProduced:           in.Inputs.UnitsPerPeriod,
		TotalExpectedUnits:      in.Inputs.TotalExpectedUnits,
		AnnualInterestRate:      in.Inputs.AnnualInterestRate,
		BonusRate:               in.Inputs.BonusRate,
		PropertyClass:           in.Inputs.PropertyClass,
		NewProperty:             in.Inputs.NewProperty,
	}
}

// Adjustments carries the cutover parameters for Adjust. Nil fields keep
// the original value.
type Adjustments struct {
	FromPeriod          int // first period computed under the new parameters
	NewUsefulLifeMonths *int
	NewSalvageValue     *decimal.Decimal
	NewMethod           *MethodType
	NewInputs           *MethodInputs
}

// =============================================================================
// SCHEDULE GENERATOR
// =============================================================================

type ScheduleGenerator struct {
	Factory *Factory
}

func NewScheduleGenerator(factory *Factory) *ScheduleGenerator {
	return &ScheduleGenerator{Factory: factory}
}

// Generate builds the full schedule for an asset.
func (g *ScheduleGenerator) Generate(in GenerateInput) (DepreciationSchedule, error) {
	method, err := g.Factory.Create(in.Method)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	if errs := method.ValidationErrors(in.Cost, in.SalvageValue, in.contextFor(1, in.UsefulLifeMonths, in.AccumulatedDepreciation)); len(errs) > 0 {
		return DepreciationSchedule{}, &ValidationError{Method: in.Method, Errors: errs}
	}

	periods, _, err := g.run(in, method, 1, in.UsefulLifeMonths, in.UsefulLifeMonths, in.SalvageValue, in.AccumulatedDepreciation)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	return DepreciationSchedule{
		AssetID:          in.AssetID,
		TenantID:         in.TenantID,
		BookType:         in.BookType,
		Method:           in.Method,
		Currency:         in.Currency,
		Cost:             in.Cost,
		SalvageValue:     in.SalvageValue,
		UsefulLifeMonths: in.UsefulLifeMonths,
		AcquisitionDate:  in.AcquisitionDate,
		GeneratedAt:      time.Now().UTC(),
		Periods:          periods,
	}, nil
}

// Adjust replays the original schedule up to (not including) the
// cutover period, then regenerates the remainder under the adjusted
// parameters. Historical periods are identical to the original run.
func (g *ScheduleGenerator) Adjust(original GenerateInput, adj Adjustments) (DepreciationSchedule, error) {
	if adj.FromPeriod < 1 {
		return DepreciationSchedule{}, &ValidationError{Method: original.Method, Errors: []error{ErrInvalidAdjustment}}
	}

	originalMethod, err := g.Factory.Create(original.Method)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	// Phase 1: replay history exactly as originally computed.
	history, accumulated, err := g.run(original, originalMethod,
		1, adj.FromPeriod-1, original.UsefulLifeMonths, original.SalvageValue, original.AccumulatedDepreciation)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	// Phase 2: regenerate the future under the new parameters.
	adjusted := original
	if adj.NewUsefulLifeMonths != nil {
		adjusted.UsefulLifeMonths = *adj.NewUsefulLifeMonths
	}
	if adj.NewSalvageValue != nil {
		adjusted.SalvageValue = *adj.NewSalvageValue
	}
	if adj.NewMethod != nil {
		adjusted.Method = *adj.NewMethod
	}
	if adj.NewInputs != nil {
		adjusted.Inputs = *adj.NewInputs
	}

	newMethod, err := g.Factory.Create(adjusted.Method)
	if err != nil {
		return DepreciationSchedule{}, err
	}
	if adjusted.UsefulLifeMonths < adj.FromPeriod-1 {
		return DepreciationSchedule{}, &ValidationError{Method: adjusted.Method, Errors: []error{ErrInvalidAdjustment}}
	}

	future, _, err := g.run(adjusted, newMethod,
		adj.FromPeriod, adjusted.UsefulLifeMonths, adjusted.UsefulLifeMonths, adjusted.SalvageValue, accumulated)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	return DepreciationSchedule{
		AssetID:          original.AssetID,
		TenantID:         original.TenantID,
		BookType:         original.BookType,
		Method:           adjusted.Method,
		Currency:         original.Currency,
		Cost:             original.Cost,
		SalvageValue:     adjusted.SalvageValue,
		UsefulLifeMonths: adjusted.UsefulLifeMonths,
		AcquisitionDate:  original.AcquisitionDate,
		GeneratedAt:      time.Now().UTC(),
		Periods:          append(history, future...),
	}, nil
}

// run executes the generation loop for months [from, to]. Periods for a
// single asset are computed strictly in order: each result depends on
// the accumulated depreciation of the one before.
func (g *ScheduleGenerator) run(
	in GenerateInput,
	method Method,
	from, to, lifeMonths int,
	salvage decimal.Decimal,
	accumulated decimal.Decimal,
) ([]SchedulePeriod, decimal.Decimal, error) {

	var periods []SchedulePeriod

	for month := from; month <= to; month++ {
		opening := in.Cost.Sub(accumulated)
		if !opening.GreaterThan(salvage) {
			break
		}

		window := MonthWindow(in.AcquisitionDate, month)
		ctx := in.contextFor(month, lifeMonths, accumulated)

		amount, err := method.Calculate(in.Cost, salvage, window, ctx)
		if err != nil {
			return nil, decimal.Zero, err
		}

		accumulated = accumulated.Add(amount.Amount)
		periods = append(periods, SchedulePeriod{
			ID:                      SchedulePeriodID(uuid.NewString()),
			Number:                  month,
			Window:                  window,
			OpeningBookValue:        opening,
			ClosingBookValue:        in.Cost.Sub(accumulated),
			DepreciationAmount:      amount.Amount,
			AccumulatedDepreciation: accumulated,
			Status:                  StatusCalculated,
			Currency:                in.Currency,
		})
	}

	return periods, accumulated, nil
}
