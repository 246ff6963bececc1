package depreciation

import "time"

// =============================================================================
// PERIOD WINDOW - A single depreciation period's date range
// =============================================================================

// PeriodWindow is the inclusive [Start, End] date range of one depreciation
// period. Schedule periods are whole months anchored to the acquisition
// date; proration handles mid-month acquisitions inside the first window.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the window for the 1-based period number: the start
// is acquisition plus (number-1) whole months, the end is the day before
// the next period starts.
func MonthWindow(acquisition time.Time, number int) PeriodWindow {
	start := acquisition.AddDate(0, number-1, 0)
	end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
	return PeriodWindow{Start: dateOnly(start), End: dateOnly(end)}
}

// Days returns the inclusive day count of the window.
func (w PeriodWindow) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

// Contains reports whether t falls inside [Start, End].
func (w PeriodWindow) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w PeriodWindow) String() string {
	return "[" + w.Start.Format("2006-01-02") + ", " + w.End.Format("2006-01-02") + "]"
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns whole days from a to b (negative if b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

// DaysInMonth returns the number of days in t's calendar month.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// MaxDate returns the later of two dates.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecoveryYear returns the 1-based year a period number falls into.
func RecoveryYear(periodNumber int) int {
	if periodNumber < 1 {
		return 1
	}
	return (periodNumber-1)/12 + 1
}
