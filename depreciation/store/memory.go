// Package store provides provider and store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/asset-engine/depreciation"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements AssetDataProvider, PeriodProvider and ScheduleStore
// over process memory. Safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	assets    map[depreciation.AssetID]depreciation.Asset
	periods   map[string]depreciation.AccountingPeriod
	schedules map[scheduleKey]depreciation.DepreciationSchedule
}

type scheduleKey struct {
	AssetID  depreciation.AssetID
	BookType depreciation.BookType
}

func NewMemory() *Memory {
	return &Memory{
		assets:    make(map[depreciation.AssetID]depreciation.Asset),
		periods:   make(map[string]depreciation.AccountingPeriod),
		schedules: make(map[scheduleKey]depreciation.DepreciationSchedule),
	}
}

// PutAsset registers or replaces an asset.
func (m *Memory) PutAsset(_ context.Context, asset depreciation.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

func (m *Memory) Asset(_ context.Context, id depreciation.AssetID) (depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	asset, ok := m.assets[id]
	if !ok {
		return depreciation.Asset{}, depreciation.ErrAssetNotFound
	}
	return asset, nil
}

// Assets returns all registered assets, for listing endpoints.
func (m *Memory) Assets(_ context.Context) ([]depreciation.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]depreciation.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a)
	}
	return out, nil
}

// PutPeriod registers an accounting period.
func (m *Memory) PutPeriod(_ context.Context, period depreciation.AccountingPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[period.ID] = period
	return nil
}

func (m *Memory) Period(_ context.Context, id string) (depreciation.AccountingPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	period, ok := m.periods[id]
	if !ok {
		return depreciation.AccountingPeriod{}, depreciation.ErrPeriodNotFound
	}
	return period, nil
}

func (m *Memory) SaveSchedule(_ context.Context, schedule depreciation.DepreciationSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := scheduleKey{AssetID: schedule.AssetID, BookType: schedule.BookType}
	// Deep-copy periods so later caller mutations cannot leak in.
	stored := schedule
	stored.Periods = append([]depreciation.SchedulePeriod{}, schedule.Periods...)
	m.schedules[k] = stored
	return nil
}

func (m *Memory) Schedule(_ context.Context, assetID depreciation.AssetID, bookType depreciation.BookType) (depreciation.DepreciationSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := scheduleKey{AssetID: assetID, BookType: bookType}
	schedule, ok := m.schedules[k]
	if !ok {
		return depreciation.DepreciationSchedule{}, depreciation.ErrScheduleNotFound
	}
	out := schedule
	out.Periods = append([]depreciation.SchedulePeriod{}, schedule.Periods...)
	return out, nil
}
