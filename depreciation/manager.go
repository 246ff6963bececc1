/*
manager.go - Depreciation manager facade

PURPOSE:
  The entry point callers wire their providers into. The manager loads
  asset attributes, resolves accounting periods, drives the generator
  and forecast services, persists schedules when a store is configured,
  and emits domain events after successful operations.

  The manager holds no cross-call state: every operation loads what it
  needs and computes from scratch, so calculations for different assets
  are trivially parallelizable by the caller.
*/
package depreciation

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Manager struct {
	Assets    AssetDataProvider
	Periods   PeriodProvider
	Schedules ScheduleStore // optional
	Events    EventDispatcher

	factory    *Factory
	generator  *ScheduleGenerator
	forecaster *ForecastService
}

func NewManager(assets AssetDataProvider, periods PeriodProvider, schedules ScheduleStore, events EventDispatcher, tier Tier) *Manager {
	factory := NewFactory(tier)
	return &Manager{
		Assets:     assets,
		Periods:    periods,
		Schedules:  schedules,
		Events:     events,
		factory:    factory,
		generator:  NewScheduleGenerator(factory),
		forecaster: NewForecastService(factory),
	}
}

// Factory exposes the tier-gated factory for callers composing their
// own services (tax-book engine, revaluation) on the same tier.
func (m *Manager) Factory() *Factory { return m.factory }

// Generator exposes the schedule generator wired to the manager's tier.
func (m *Manager) Generator() *ScheduleGenerator { return m.generator }

// NewRun mints a depreciation-run identifier for posting periods.
func (m *Manager) NewRun() RunID { return RunID(uuid.NewString()) }

// =============================================================================
// OPERATIONS
// =============================================================================

// Calculate returns the depreciation amount for the period containing
// asOf. A zero asOf means the current date. Pure replay: calling twice
// with identical inputs yields identical output.
func (m *Manager) Calculate(ctx context.Context, assetID AssetID, asOf time.Time, bookType BookType) (DepreciationAmount, error) {
	asset, err := m.loadAsset(ctx, assetID)
	if err != nil {
		return DepreciationAmount{}, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	schedule, err := m.generator.Generate(asset.GenerateInput(bookType))
	if err != nil {
		return DepreciationAmount{}, err
	}

	for _, p := range schedule.Periods {
		if p.Window.Contains(asOf) {
			amount := NewDepreciationAmount(p.DepreciationAmount, asset.Currency).
				WithAccumulated(p.AccumulatedDepreciation)
			m.dispatch(ctx, EventDepreciationCalculated, asset, map[string]string{
				"amount": amount.Amount.String(),
				"period": p.Window.String(),
			})
			return amount, nil
		}
	}
	// asOf outside the depreciable life: nothing left to expense.
	return ZeroAmount(asset.Currency), nil
}

// CalculateForPeriod computes the depreciation for a named accounting
// period and returns the full record with before/after book values.
func (m *Manager) CalculateForPeriod(ctx context.Context, assetID AssetID, periodID string, bookType BookType) (AssetDepreciation, error) {
	asset, err := m.loadAsset(ctx, assetID)
	if err != nil {
		return AssetDepreciation{}, err
	}
	period, err := m.Periods.Period(ctx, periodID)
	if err != nil {
		return AssetDepreciation{}, err
	}

	schedule, err := m.generator.Generate(asset.GenerateInput(bookType))
	if err != nil {
		return AssetDepreciation{}, err
	}

	window := PeriodWindow{Start: period.Start, End: period.End}
	record := AssetDepreciation{
		AssetID:  assetID,
		PeriodID: periodID,
		BookType: bookType,
		Window:   window,
		At:       time.Now().UTC(),
	}

	first := true
	amount := ZeroAmount(asset.Currency)
	for _, p := range schedule.Periods {
		if !window.Contains(p.Window.Start) {
			continue
		}
		if first {
			before, err := NewBookValue(schedule.Cost, schedule.SalvageValue, p.AccumulatedDepreciation.Sub(p.DepreciationAmount), asset.Currency)
			if err != nil {
				return AssetDepreciation{}, err
			}
			record.Before = before
			first = false
		}
		amount.Amount = amount.Amount.Add(p.DepreciationAmount)
		after, err := NewBookValue(schedule.Cost, schedule.SalvageValue, p.AccumulatedDepreciation, asset.Currency)
		if err != nil {
			return AssetDepreciation{}, err
		}
		record.After = after
	}
	if first {
		// No schedule period starts inside the accounting period.
		bv, err := asset.BookValue()
		if err != nil {
			return AssetDepreciation{}, err
		}
		record.Before, record.After = bv, bv
	}

	record.Amount = amount.WithAccumulated(record.After.AccumulatedDepreciation)
	m.dispatch(ctx, EventDepreciationCalculated, asset, map[string]string{
		"amount": record.Amount.Amount.String(),
		"period": periodID,
	})
	return record, nil
}

// Forecast projects future depreciation for the asset without touching
// persisted state.
func (m *Manager) Forecast(ctx context.Context, assetID AssetID, numberOfPeriods int) (DepreciationForecast, error) {
	asset, err := m.loadAsset(ctx, assetID)
	if err != nil {
		return DepreciationForecast{}, err
	}
	return m.forecaster.Forecast(asset.GenerateInput(BookFinancial), numberOfPeriods)
}

// Generate builds (and persists, when a store is configured) the full
// schedule for the asset.
func (m *Manager) Generate(ctx context.Context, assetID AssetID, tenantID TenantID, bookType BookType) (DepreciationSchedule, error) {
	asset, err := m.loadAsset(ctx, assetID)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	in := asset.GenerateInput(bookType)
	in.TenantID = tenantID
	schedule, err := m.generator.Generate(in)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	if m.Schedules != nil {
		if err := m.Schedules.SaveSchedule(ctx, schedule); err != nil {
			return DepreciationSchedule{}, err
		}
	}
	m.dispatch(ctx, EventScheduleGenerated, asset, map[string]string{
		"periods": strconv.Itoa(len(schedule.Periods)),
		"book":    string(bookType),
	})
	return schedule, nil
}

// Adjust recomputes the schedule from a cutover point under new
// parameters, preserving history exactly (see generator.Adjust).
func (m *Manager) Adjust(ctx context.Context, assetID AssetID, tenantID TenantID, adj Adjustments) (DepreciationSchedule, error) {
	asset, err := m.loadAsset(ctx, assetID)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	in := asset.GenerateInput(BookFinancial)
	in.TenantID = tenantID
	schedule, err := m.generator.Adjust(in, adj)
	if err != nil {
		return DepreciationSchedule{}, err
	}

	if m.Schedules != nil {
		if err := m.Schedules.SaveSchedule(ctx, schedule); err != nil {
			return DepreciationSchedule{}, err
		}
	}
	m.dispatch(ctx, EventScheduleAdjusted, asset, map[string]string{
		"from_period": strconv.Itoa(adj.FromPeriod),
	})
	return schedule, nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (m *Manager) loadAsset(ctx context.Context, assetID AssetID) (Asset, error) {
	asset, err := m.Assets.Asset(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	if asset.Disposed {
		return Asset{}, ErrAssetDisposed
	}
	return asset, nil
}

func (m *Manager) dispatch(ctx context.Context, eventType EventType, asset Asset, payload map[string]string) {
	if m.Events == nil {
		return
	}
	m.Events.Dispatch(ctx, Event{
		Type:     eventType,
		AssetID:  asset.ID,
		TenantID: asset.TenantID,
		At:       time.Now().UTC(),
		Payload:  payload,
	})
}
