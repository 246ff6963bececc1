/*
taxbook.go - Parallel book/tax depreciation and deferred tax

PURPOSE:
  Runs a financial-book method and a tax method over the same periods
  independently, then derives the temporary difference and the deferred
  tax it drives:

    temporaryDifference = taxAmount - bookAmount
    deferredTax         = temporaryDifference * taxRate

  A positive temporary difference means tax depreciation is running
  ahead of book - a deferred tax liability. Negative means a deferred
  tax asset. Over the asset's life the cumulative difference reverses
  to zero (barring basis differences like MACRS ignoring salvage).
*/
package depreciation

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULTS
// =============================================================================

type TaxBookPeriod struct {
	Number              int
	Window              PeriodWindow
	BookAmount          decimal.Decimal
	TaxAmount           decimal.Decimal
	TemporaryDifference decimal.Decimal
	DeferredTax         decimal.Decimal

	// Running totals carried period over period
	BookAccumulated      decimal.Decimal
	TaxAccumulated       decimal.Decimal
	CumulativeDifference decimal.Decimal
}

// IsDeferredLiability reports whether tax depreciation is ahead of book
// for this period.
func (p TaxBookPeriod) IsDeferredLiability() bool {
	return p.TemporaryDifference.IsPositive()
}

type TaxBookSchedule struct {
	AssetID  AssetID
	Currency string
	TaxRate  decimal.Decimal
	Periods  []TaxBookPeriod
}

// =============================================================================
// ENGINE
// =============================================================================

// TaxBookEngine pairs a book-basis input with a tax-basis input for the
// same asset. The two inputs may differ in method, salvage treatment,
// and method extras, but share acquisition date and currency.
type TaxBookEngine struct {
	Factory *Factory
}

func NewTaxBookEngine(factory *Factory) *TaxBookEngine {
	return &TaxBookEngine{Factory: factory}
}

// CalculatePeriod runs both methods over one period and derives the
// temporary-difference figures. Accumulated amounts are the caller's
// running state for each basis.
func (e *TaxBookEngine) CalculatePeriod(
	book, tax GenerateInput,
	month int,
	bookAccumulated, taxAccumulated decimal.Decimal,
	taxRate decimal.Decimal,
) (TaxBookPeriod, error) {

	bookMethod, err := e.Factory.Create(book.Method)
	if err != nil {
		return TaxBookPeriod{}, err
	}
	taxMethod, err := e.Factory.Create(tax.Method)
	if err != nil {
		return TaxBookPeriod{}, err
	}

	window := MonthWindow(book.AcquisitionDate, month)

	bookAmount, err := bookMethod.Calculate(book.Cost, book.SalvageValue, window, book.contextFor(month, book.UsefulLifeMonths, bookAccumulated))
	if err != nil {
		return TaxBookPeriod{}, err
	}
	taxAmount, err := taxMethod.Calculate(tax.Cost, tax.SalvageValue, window, tax.contextFor(month, tax.UsefulLifeMonths, taxAccumulated))
	if err != nil {
		return TaxBookPeriod{}, err
	}

	difference := taxAmount.Amount.Sub(bookAmount.Amount)
	return TaxBookPeriod{
		Number:              month,
		Window:              window,
		BookAmount:          bookAmount.Amount,
		TaxAmount:           taxAmount.Amount,
		TemporaryDifference: difference,
		DeferredTax:         difference.Mul(taxRate).Round(2),
		BookAccumulated:     bookAccumulated.Add(bookAmount.Amount),
		TaxAccumulated:      taxAccumulated.Add(taxAmount.Amount),
	}, nil
}

// CalculateSchedule chains CalculatePeriod over the longer of the two
// useful lives, carrying forward each basis's accumulated depreciation
// and the cumulative temporary difference.
func (e *TaxBookEngine) CalculateSchedule(book, tax GenerateInput, taxRate decimal.Decimal) (TaxBookSchedule, error) {
	months := book.UsefulLifeMonths
	if tax.UsefulLifeMonths > months {
		months = tax.UsefulLifeMonths
	}

	schedule := TaxBookSchedule{
		AssetID:  book.AssetID,
		Currency: book.Currency,
		TaxRate:  taxRate,
	}

	bookAccumulated := book.AccumulatedDepreciation
	taxAccumulated := tax.AccumulatedDepreciation
	cumulative := decimal.Zero

	for month := 1; month <= months; month++ {
		period, err := e.CalculatePeriod(book, tax, month, bookAccumulated, taxAccumulated, taxRate)
		if err != nil {
			return TaxBookSchedule{}, err
		}

		bookAccumulated = period.BookAccumulated
		taxAccumulated = period.TaxAccumulated
		cumulative = cumulative.Add(period.TemporaryDifference)
		period.CumulativeDifference = cumulative

		schedule.Periods = append(schedule.Periods, period)

		// Stop once both bases are exhausted.
		if !book.Cost.Sub(bookAccumulated).GreaterThan(book.SalvageValue) &&
			!tax.Cost.Sub(taxAccumulated).GreaterThan(tax.SalvageValue) {
			break
		}
	}

	return schedule, nil
}
