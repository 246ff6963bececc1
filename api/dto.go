/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  All monetary fields travel as decimal strings ("12345.67"), never as
  floats. Handlers parse them with shopspring/decimal.

VALIDATION:
  Request types carry validator struct tags; handlers run them through
  a shared validator instance before touching domain logic.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Router setup and middleware
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/asset-engine/depreciation"
)

// =============================================================================
// ASSET TYPES
// =============================================================================

// AssetDTO represents an asset in API responses.
type AssetDTO struct {
	ID                      string           `json:"id"`
	TenantID                string           `json:"tenant_id,omitempty"`
	Name                    string           `json:"name"`
	Cost                    string           `json:"cost"`
	SalvageValue            string           `json:"salvage_value"`
	UsefulLifeMonths        int              `json:"useful_life_months"`
	AccumulatedDepreciation string           `json:"accumulated_depreciation"`
	NetBookValue            string           `json:"net_book_value"`
	Method                  string           `json:"method"`
	TaxMethod               string           `json:"tax_method,omitempty"`
	AcquisitionDate         string           `json:"acquisition_date"`
	Currency                string           `json:"currency"`
	Active                  bool             `json:"active"`
	Disposed                bool             `json:"disposed"`
	Inputs                  *MethodInputsDTO `json:"inputs,omitempty"`
}

// MethodInputsDTO carries method-specific extras.
type MethodInputsDTO struct {
	TotalExpectedUnits string `json:"total_expected_units,omitempty"`
	UnitsPerPeriod     string `json:"units_per_period,omitempty"`
	AnnualInterestRate string `json:"annual_interest_rate,omitempty"`
	BonusRate          string `json:"bonus_rate,omitempty"`
	PropertyClass      int    `json:"property_class,omitempty"`
	NewProperty        bool   `json:"new_property,omitempty"`
}

// CreateAssetRequest registers a new asset in the catalog.
type CreateAssetRequest struct {
	ID               string           `json:"id" validate:"required"`
	TenantID         string           `json:"tenant_id"`
	Name             string           `json:"name" validate:"required"`
	Cost             string           `json:"cost" validate:"required"`
	SalvageValue     string           `json:"salvage_value"`
	UsefulLifeMonths int              `json:"useful_life_months" validate:"required,gt=0"`
	Method           string           `json:"method" validate:"required"`
	TaxMethod        string           `json:"tax_method"`
	AcquisitionDate  string           `json:"acquisition_date" validate:"required"`
	Currency         string           `json:"currency" validate:"required,len=3"`
	Inputs           *MethodInputsDTO `json:"inputs"`
}

// =============================================================================
// CALCULATION TYPES
// =============================================================================

// DepreciationDTO is a single calculated depreciation amount.
type DepreciationDTO struct {
	AssetID                 string `json:"asset_id"`
	BookType                string `json:"book_type"`
	Amount                  string `json:"amount"`
	Currency                string `json:"currency"`
	AccumulatedDepreciation string `json:"accumulated_depreciation"`
	AsOf                    string `json:"as_of,omitempty"`
	PeriodID                string `json:"period_id,omitempty"`
}

// SchedulePeriodDTO is one monthly line of a schedule.
type SchedulePeriodDTO struct {
	ID                      string `json:"id"`
	Number                  int    `json:"number"`
	PeriodStart             string `json:"period_start"`
	PeriodEnd               string `json:"period_end"`
	OpeningBookValue        string `json:"opening_book_value"`
	ClosingBookValue        string `json:"closing_book_value"`
	DepreciationAmount      string `json:"depreciation_amount"`
	AccumulatedDepreciation string `json:"accumulated_depreciation"`
	Status                  string `json:"status"`
	RunID                   string `json:"run_id,omitempty"`
}

// ScheduleDTO is a full depreciation schedule.
type ScheduleDTO struct {
	AssetID           string              `json:"asset_id"`
	BookType          string              `json:"book_type"`
	Method            string              `json:"method"`
	Currency          string              `json:"currency"`
	Cost              string              `json:"cost"`
	SalvageValue      string              `json:"salvage_value"`
	UsefulLifeMonths  int                 `json:"useful_life_months"`
	TotalDepreciation string              `json:"total_depreciation"`
	GeneratedAt       string              `json:"generated_at"`
	Periods           []SchedulePeriodDTO `json:"periods"`
}

// AdjustScheduleRequest changes schedule parameters from a cutover period.
type AdjustScheduleRequest struct {
	FromPeriod          int              `json:"from_period" validate:"required,gt=0"`
	NewUsefulLifeMonths *int             `json:"new_useful_life_months" validate:"omitempty,gt=0"`
	NewSalvageValue     *string          `json:"new_salvage_value"`
	NewMethod           *string          `json:"new_method"`
	NewInputs           *MethodInputsDTO `json:"new_inputs"`
}

// =============================================================================
// FORECAST TYPES
// =============================================================================

// ForecastPeriodDTO is one projected period.
type ForecastPeriodDTO struct {
	Number           int    `json:"number"`
	PeriodStart      string `json:"period_start"`
	PeriodEnd        string `json:"period_end"`
	Amount           string `json:"amount"`
	BookValueAfter   string `json:"book_value_after"`
	AccumulatedAfter string `json:"accumulated_after"`
	Year             int    `json:"year"`
}

// YearlySummaryDTO aggregates forecast periods by recovery year.
type YearlySummaryDTO struct {
	Year   int    `json:"year"`
	Amount string `json:"amount"`
}

// ForecastDTO is the forecast response.
type ForecastDTO struct {
	AssetID  string              `json:"asset_id"`
	Currency string              `json:"currency"`
	Total    string              `json:"total"`
	Average  string              `json:"average"`
	Count    int                 `json:"count"`
	Periods  []ForecastPeriodDTO `json:"periods"`
	Yearly   []YearlySummaryDTO  `json:"yearly"`
}

// =============================================================================
// TAX BOOK TYPES
// =============================================================================

// TaxBookPeriodDTO is one period of the book-versus-tax comparison.
type TaxBookPeriodDTO struct {
	Number               int    `json:"number"`
	PeriodStart          string `json:"period_start"`
	PeriodEnd            string `json:"period_end"`
	BookAmount           string `json:"book_amount"`
	TaxAmount            string `json:"tax_amount"`
	TemporaryDifference  string `json:"temporary_difference"`
	DeferredTax          string `json:"deferred_tax"`
	CumulativeDifference string `json:"cumulative_difference"`
	DeferredLiability    bool   `json:"deferred_liability"`
}

// TaxBookDTO is the tax-book comparison response.
type TaxBookDTO struct {
	AssetID  string             `json:"asset_id"`
	Currency string             `json:"currency"`
	TaxRate  string             `json:"tax_rate"`
	Periods  []TaxBookPeriodDTO `json:"periods"`
}

// =============================================================================
// REVALUATION TYPES
// =============================================================================

// RevalueAssetRequest applies a revaluation to an asset.
type RevalueAssetRequest struct {
	NewCost         string `json:"new_cost" validate:"required"`
	NewSalvageValue string `json:"new_salvage_value"`
}

// RevaluationDTO is the applied revaluation.
type RevaluationDTO struct {
	AssetID          string `json:"asset_id"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	Direction        string `json:"direction"` // increment | decrement | none
	PreviousNetValue string `json:"previous_net_value"`
	NewNetValue      string `json:"new_net_value"`
	EquityReserveRef string `json:"equity_reserve_ref,omitempty"`
	ExpenseRef       string `json:"expense_ref,omitempty"`
	At               string `json:"at"`
}

// RevaluationImpactDTO projects the depreciation consequences.
type RevaluationImpactDTO struct {
	RemainingLifeMonths int    `json:"remaining_life_months"`
	AnnualBefore        string `json:"annual_before"`
	AnnualAfter         string `json:"annual_after"`
	AnnualDelta         string `json:"annual_delta"`
}

// =============================================================================
// PERIOD TYPES
// =============================================================================

// CreatePeriodRequest registers an accounting period.
type CreatePeriodRequest struct {
	ID    string `json:"id" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// PeriodDTO represents an accounting period.
type PeriodDTO struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// =============================================================================
// MISC
// =============================================================================

// MethodDTO describes an available depreciation method.
type MethodDTO struct {
	Type        string `json:"type"`
	Accelerated bool   `json:"accelerated"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAssetDTO(a depreciation.Asset) AssetDTO {
	dto := AssetDTO{
		ID:                      string(a.ID),
		TenantID:                string(a.TenantID),
		Name:                    a.Name,
		Cost:                    a.Cost.StringFixed(2),
		SalvageValue:            a.SalvageValue.StringFixed(2),
		UsefulLifeMonths:        a.UsefulLifeMonths,
		AccumulatedDepreciation: a.AccumulatedDepreciation.StringFixed(2),
		NetBookValue:            a.Cost.Sub(a.AccumulatedDepreciation).StringFixed(2),
		Method:                  string(a.Method),
		TaxMethod:               string(a.TaxMethod),
		AcquisitionDate:         a.AcquisitionDate.Format("2006-01-02"),
		Currency:                a.Currency,
		Active:                  a.Active,
		Disposed:                a.Disposed,
	}
	if !a.Inputs.TotalExpectedUnits.IsZero() || !a.Inputs.AnnualInterestRate.IsZero() ||
		!a.Inputs.BonusRate.IsZero() || a.Inputs.PropertyClass != 0 {
		dto.Inputs = &MethodInputsDTO{
			TotalExpectedUnits: a.Inputs.TotalExpectedUnits.String(),
			UnitsPerPeriod:     a.Inputs.UnitsPerPeriod.String(),
			AnnualInterestRate: a.Inputs.AnnualInterestRate.String(),
			BonusRate:          a.Inputs.BonusRate.String(),
			PropertyClass:      int(a.Inputs.PropertyClass),
			NewProperty:        a.Inputs.NewProperty,
		}
	}
	return dto
}

func toScheduleDTO(s depreciation.DepreciationSchedule) ScheduleDTO {
	dto := ScheduleDTO{
		AssetID:           string(s.AssetID),
		BookType:          string(s.BookType),
		Method:            string(s.Method),
		Currency:          s.Currency,
		Cost:              s.Cost.StringFixed(2),
		SalvageValue:      s.SalvageValue.StringFixed(2),
		UsefulLifeMonths:  s.UsefulLifeMonths,
		TotalDepreciation: s.TotalDepreciation().StringFixed(2),
		GeneratedAt:       s.GeneratedAt.Format(time.RFC3339),
		Periods:           make([]SchedulePeriodDTO, len(s.Periods)),
	}
	for i, p := range s.Periods {
		dto.Periods[i] = SchedulePeriodDTO{
			ID:                      string(p.ID),
			Number:                  p.Number,
			PeriodStart:             p.Window.Start.Format("2006-01-02"),
			PeriodEnd:               p.Window.End.Format("2006-01-02"),
			OpeningBookValue:        p.OpeningBookValue.StringFixed(2),
			ClosingBookValue:        p.ClosingBookValue.StringFixed(2),
			DepreciationAmount:      p.DepreciationAmount.StringFixed(2),
			AccumulatedDepreciation: p.AccumulatedDepreciation.StringFixed(2),
			Status:                  string(p.Status),
			RunID:                   string(p.RunID),
		}
	}
	return dto
}

func toForecastDTO(f depreciation.DepreciationForecast) ForecastDTO {
	dto := ForecastDTO{
		AssetID:  string(f.AssetID),
		Currency: f.Currency,
		Total:    f.Total.StringFixed(2),
		Average:  f.Average.StringFixed(2),
		Count:    f.Count,
		Periods:  make([]ForecastPeriodDTO, len(f.Periods)),
	}
	for i, p := range f.Periods {
		dto.Periods[i] = ForecastPeriodDTO{
			Number:           p.Number,
			PeriodStart:      p.Window.Start.Format("2006-01-02"),
			PeriodEnd:        p.Window.End.Format("2006-01-02"),
			Amount:           p.Amount.StringFixed(2),
			BookValueAfter:   p.BookValueAfter.StringFixed(2),
			AccumulatedAfter: p.AccumulatedAfter.StringFixed(2),
			Year:             p.Year,
		}
	}
	for _, y := range f.Yearly() {
		dto.Yearly = append(dto.Yearly, YearlySummaryDTO{
			Year:   y.Year,
			Amount: y.Total.StringFixed(2),
		})
	}
	return dto
}

func toTaxBookDTO(s depreciation.TaxBookSchedule) TaxBookDTO {
	dto := TaxBookDTO{
		AssetID:  string(s.AssetID),
		Currency: s.Currency,
		TaxRate:  s.TaxRate.String(),
		Periods:  make([]TaxBookPeriodDTO, len(s.Periods)),
	}
	for i, p := range s.Periods {
		dto.Periods[i] = TaxBookPeriodDTO{
			Number:               p.Number,
			PeriodStart:          p.Window.Start.Format("2006-01-02"),
			PeriodEnd:            p.Window.End.Format("2006-01-02"),
			BookAmount:           p.BookAmount.StringFixed(2),
			TaxAmount:            p.TaxAmount.StringFixed(2),
			TemporaryDifference:  p.TemporaryDifference.StringFixed(2),
			DeferredTax:          p.DeferredTax.StringFixed(2),
			CumulativeDifference: p.CumulativeDifference.StringFixed(2),
			DeferredLiability:    p.IsDeferredLiability(),
		}
	}
	return dto
}

func toRevaluationDTO(r depreciation.Revaluation) RevaluationDTO {
	direction := "none"
	if r.Amount.IsIncrement() {
		direction = "increment"
	} else if r.Amount.IsDecrement() {
		direction = "decrement"
	}
	return RevaluationDTO{
		AssetID:          string(r.AssetID),
		Amount:           r.Amount.Amount.StringFixed(2),
		Currency:         r.Amount.Currency,
		Direction:        direction,
		PreviousNetValue: r.PreviousBookValue.NetBookValue().StringFixed(2),
		NewNetValue:      r.NewBookValue.NetBookValue().StringFixed(2),
		EquityReserveRef: r.EquityReserveRef,
		ExpenseRef:       r.ExpenseRef,
		At:               r.At.Format(time.RFC3339),
	}
}

func (d *MethodInputsDTO) methodInputs() (depreciation.MethodInputs, error) {
	var in depreciation.MethodInputs
	if d == nil {
		return in, nil
	}
	var err error
	if in.TotalExpectedUnits, err = parseOptionalDecimal(d.TotalExpectedUnits); err != nil {
		return in, err
	}
	if in.UnitsPerPeriod, err = parseOptionalDecimal(d.UnitsPerPeriod); err != nil {
		return in, err
	}
	if in.AnnualInterestRate, err = parseOptionalDecimal(d.AnnualInterestRate); err != nil {
		return in, err
	}
	if in.BonusRate, err = parseOptionalDecimal(d.BonusRate); err != nil {
		return in, err
	}
	in.PropertyClass = depreciation.PropertyClass(d.PropertyClass)
	in.NewProperty = d.NewProperty
	return in, nil
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
