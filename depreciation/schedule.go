/*
schedule.go - Depreciation schedule and period lifecycle

PURPOSE:
  A DepreciationSchedule is the period-by-period plan for an asset's
  full useful life. Each period carries opening/closing book value, the
  period amount, the running accumulated depreciation, and a lifecycle
  status.

STATUS STATE MACHINE:
  CALCULATED -> POSTED -> REVERSED
       \-> ADJUSTED

  - Posting requires a depreciation-run id and a period that is not
    already posted or reversed
  - Reversal is only valid from POSTED
  - REVERSED is terminal: no further transitions
  - ADJUSTED marks periods superseded by a schedule adjustment

  Transitions are with-style: WithPosting / Reverse / MarkAdjusted
  return new period values, never mutate in place.

SELF-CONSISTENCY:
  A period's depreciable amount is reconstructed as
  openingBookValue - closingBookValue + depreciationAmount, which for a
  well-formed period equals the opening book value; the identity is a
  cheap corruption check on persisted schedules.

SEE ALSO:
  - generator.go: Builds schedules and replays adjustments
*/
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD STATUS
// =============================================================================

type PeriodStatus string

const (
	StatusCalculated PeriodStatus = "CALCULATED"
	StatusPosted     PeriodStatus = "POSTED"
	StatusReversed   PeriodStatus = "REVERSED"
	StatusAdjusted   PeriodStatus = "ADJUSTED"
)

// =============================================================================
// SCHEDULE PERIOD
// =============================================================================

type SchedulePeriod struct {
	ID                      SchedulePeriodID
	Number                  int // 1-based month within the schedule
	Window                  PeriodWindow
	OpeningBookValue        decimal.Decimal
	ClosingBookValue        decimal.Decimal
	DepreciationAmount      decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	Status                  PeriodStatus
	RunID                   RunID
	Currency                string
}

// DepreciableAmount reconstructs opening - closing + depreciation.
func (p SchedulePeriod) DepreciableAmount() decimal.Decimal {
	return p.OpeningBookValue.Sub(p.ClosingBookValue).Add(p.DepreciationAmount)
}

// WithStatus returns a copy with the status replaced. No transition
// rules are checked; use WithPosting / Reverse / MarkAdjusted for
// guarded transitions.
func (p SchedulePeriod) WithStatus(status PeriodStatus) SchedulePeriod {
	p.Status = status
	return p
}

// WithPosting assigns the depreciation run and moves the period to
// POSTED. Fails without a run id or when already posted/reversed.
func (p SchedulePeriod) WithPosting(run RunID) (SchedulePeriod, error) {
	if run == "" {
		return SchedulePeriod{}, ErrRunRequired
	}
	if p.Status == StatusPosted || p.Status == StatusReversed {
		return SchedulePeriod{}, &TransitionError{From: p.Status, To: StatusPosted}
	}
	p.RunID = run
	p.Status = StatusPosted
	return p, nil
}

// Reverse moves a POSTED period to REVERSED. REVERSED is terminal.
func (p SchedulePeriod) Reverse() (SchedulePeriod, error) {
	if p.Status != StatusPosted {
		return SchedulePeriod{}, &TransitionError{From: p.Status, To: StatusReversed}
	}
	p.Status = StatusReversed
	return p, nil
}

// MarkAdjusted marks a CALCULATED period as superseded by an adjustment.
func (p SchedulePeriod) MarkAdjusted() (SchedulePeriod, error) {
	if p.Status != StatusCalculated {
		return SchedulePeriod{}, &TransitionError{From: p.Status, To: StatusAdjusted}
	}
	p.Status = StatusAdjusted
	return p, nil
}

// =============================================================================
// DEPRECIATION SCHEDULE
// =============================================================================

type DepreciationSchedule struct {
	AssetID          AssetID
	TenantID         TenantID
	BookType         BookType
	Method           MethodType
	Currency         string
	Cost             decimal.Decimal
	SalvageValue     decimal.Decimal
	UsefulLifeMonths int
	AcquisitionDate  time.Time
	GeneratedAt      time.Time
	Periods          []SchedulePeriod
}

// TotalDepreciation sums every period amount.
func (s DepreciationSchedule) TotalDepreciation() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Periods {
		total = total.Add(p.DepreciationAmount)
	}
	return total
}

// Period returns the period with the given 1-based number.
func (s DepreciationSchedule) Period(number int) (SchedulePeriod, bool) {
	for _, p := range s.Periods {
		if p.Number == number {
			return p, true
		}
	}
	return SchedulePeriod{}, false
}

// FinalBookValue is the closing book value of the last period, or cost
// for an empty schedule.
func (s DepreciationSchedule) FinalBookValue() decimal.Decimal {
	if len(s.Periods) == 0 {
		return s.Cost
	}
	return s.Periods[len(s.Periods)-1].ClosingBookValue
}
