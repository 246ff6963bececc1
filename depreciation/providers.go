/*
providers.go - External collaborator contracts

PURPOSE:
  The engine does no I/O of its own. Asset attributes, accounting
  period boundaries, schedule persistence, and event delivery are all
  behind interfaces supplied by the caller. The engine treats them as
  given contracts: not-found errors come from the lookup, never
  manufactured by the calculation core, and event delivery/ordering is
  the dispatcher's responsibility.

IMPLEMENTATIONS:
  - depreciation/store: in-memory (tests, demos)
  - store/sqlite: production SQLite catalog
*/
package depreciation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ASSET - Attributes the engine needs for calculation
// =============================================================================

type Asset struct {
	ID                      AssetID
	TenantID                TenantID
	Name                    string
	Cost                    decimal.Decimal
	SalvageValue            decimal.Decimal
	UsefulLifeMonths        int
	AccumulatedDepreciation decimal.Decimal
	Method                  MethodType
	TaxMethod               MethodType // optional; empty means same as Method
	AcquisitionDate         time.Time
	Currency                string
	Active                  bool
	Disposed                bool
	Inputs                  MethodInputs
}

// GenerateInput builds the engine input for one of the asset's books.
func (a Asset) GenerateInput(bookType BookType) GenerateInput {
	method := a.Method
	if bookType == BookTax && a.TaxMethod != "" {
		method = a.TaxMethod
	}
	return GenerateInput{
		AssetID:                 a.ID,
		TenantID:                a.TenantID,
		BookType:                bookType,
		Cost:                    a.Cost,
		SalvageValue:            a.SalvageValue,
		UsefulLifeMonths:        a.UsefulLifeMonths,
		AcquisitionDate:         a.AcquisitionDate,
		Currency:                a.Currency,
		Method:                  method,
		Inputs:                  a.Inputs,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
	}
}

// BookValue returns the asset's current book value triple.
func (a Asset) BookValue() (BookValue, error) {
	return NewBookValue(a.Cost, a.SalvageValue, a.AccumulatedDepreciation, a.Currency)
}

// AccountingPeriod is a resolved accounting period boundary.
type AccountingPeriod struct {
	ID    string
	Start time.Time
	End   time.Time
}

// =============================================================================
// PROVIDER INTERFACES
// =============================================================================

// AssetDataProvider looks up asset attributes by id.
type AssetDataProvider interface {
	Asset(ctx context.Context, id AssetID) (Asset, error)
}

// PeriodProvider resolves accounting period identifiers to boundaries.
type PeriodProvider interface {
	Period(ctx context.Context, id string) (AccountingPeriod, error)
}

// ScheduleStore persists generated schedules. Optional: a nil store on
// the manager keeps generation purely in-memory.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, schedule DepreciationSchedule) error
	Schedule(ctx context.Context, assetID AssetID, bookType BookType) (DepreciationSchedule, error)
}

// =============================================================================
// DOMAIN EVENTS
// =============================================================================

type EventType string

const (
	EventDepreciationCalculated EventType = "depreciation.calculated"
	EventScheduleGenerated      EventType = "depreciation.schedule_generated"
	EventScheduleAdjusted       EventType = "depreciation.schedule_adjusted"
	EventAssetRevalued          EventType = "asset.revalued"
)

type Event struct {
	Type     EventType
	AssetID  AssetID
	TenantID TenantID
	At       time.Time
	Payload  map[string]string
}

// EventDispatcher receives domain events after successful operations.
// Delivery and ordering guarantees are the dispatcher's concern.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// LogDispatcher writes events to the standard logger.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, event Event) {
	log.Printf("event %s asset=%s tenant=%s", event.Type, event.AssetID, event.TenantID)
}

// MemoryDispatcher records events in order. Intended for tests.
type MemoryDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func (d *MemoryDispatcher) Dispatch(_ context.Context, event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

// Events returns a copy of everything dispatched so far.
func (d *MemoryDispatcher) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}
