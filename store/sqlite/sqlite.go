/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the engine's persistence contracts (AssetDataProvider,
  PeriodProvider, ScheduleStore) plus the asset catalog and revaluation
  log using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  depreciation.AssetDataProvider: Asset attribute lookups
  depreciation.PeriodProvider:    Accounting period boundaries
  depreciation.ScheduleStore:     Generated schedule persistence

SCHEDULE PERSISTENCE:
  SaveSchedule replaces the stored schedule for (asset, book) wholesale.
  A regenerated or adjusted schedule is the new truth, and replacing it
  atomically keeps period rows consistent with their header. Posted and
  reversed statuses travel with the rows.

KEY TABLES:
  assets:             Asset catalog (cost, salvage, life, method, inputs)
  schedules:          Schedule headers, one per (asset, book)
  schedule_periods:   Monthly lines belonging to a schedule
  accounting_periods: Named period boundaries
  revaluations:       Revaluation log (append-only)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/assets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  mgr := depreciation.NewManager(store, store, store, nil, depreciation.Tier3)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - depreciation/providers.go: Interface definitions
  - depreciation/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/asset-engine/depreciation"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Asset catalog
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		cost TEXT NOT NULL,
		salvage_value TEXT NOT NULL,
		useful_life_months INTEGER NOT NULL,
		accumulated_depreciation TEXT NOT NULL DEFAULT '0',
		method TEXT NOT NULL,
		tax_method TEXT,
		acquisition_date TEXT NOT NULL,
		currency TEXT NOT NULL,
		active BOOLEAN DEFAULT TRUE,
		disposed BOOLEAN DEFAULT FALSE,
		inputs_json TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_tenant
		ON assets(tenant_id);
	CREATE INDEX IF NOT EXISTS idx_assets_active
		ON assets(active) WHERE active = TRUE;

	-- Schedule headers, one per (asset, book)
	CREATE TABLE IF NOT EXISTS schedules (
		asset_id TEXT NOT NULL,
		book_type TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		method TEXT NOT NULL,
		currency TEXT NOT NULL,
		cost TEXT NOT NULL,
		salvage_value TEXT NOT NULL,
		useful_life_months INTEGER NOT NULL,
		acquisition_date TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (asset_id, book_type)
	);

	-- Monthly schedule lines
	CREATE TABLE IF NOT EXISTS schedule_periods (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		book_type TEXT NOT NULL,
		number INTEGER NOT NULL,
		window_start TEXT NOT NULL,
		window_end TEXT NOT NULL,
		opening_book_value TEXT NOT NULL,
		closing_book_value TEXT NOT NULL,
		depreciation_amount TEXT NOT NULL,
		accumulated_depreciation TEXT NOT NULL,
		status TEXT NOT NULL,
		run_id TEXT,
		currency TEXT NOT NULL,
		UNIQUE(asset_id, book_type, number)
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_periods_asset_book
		ON schedule_periods(asset_id, book_type, number);
	CREATE INDEX IF NOT EXISTS idx_schedule_periods_run
		ON schedule_periods(run_id) WHERE run_id IS NOT NULL;

	-- Named accounting periods
	CREATE TABLE IF NOT EXISTS accounting_periods (
		id TEXT PRIMARY KEY,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounting_periods_start
		ON accounting_periods(period_start);

	-- Revaluation log
	CREATE TABLE IF NOT EXISTS revaluations (
		id TEXT PRIMARY KEY,
		asset_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		previous_book_value TEXT NOT NULL,
		new_book_value TEXT NOT NULL,
		equity_reserve_ref TEXT,
		expense_ref TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revaluations_asset
		ON revaluations(asset_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ASSET CATALOG (depreciation.AssetDataProvider interface)
// =============================================================================

// SaveAsset inserts or replaces an asset.
func (s *Store) SaveAsset(ctx context.Context, a depreciation.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inputsJSON, _ := json.Marshal(methodInputsRow{
		TotalExpectedUnits: a.Inputs.TotalExpectedUnits.String(),
		UnitsPerPeriod:     a.Inputs.UnitsPerPeriod.String(),
		AnnualInterestRate: a.Inputs.AnnualInterestRate.String(),
		BonusRate:          a.Inputs.BonusRate.String(),
		PropertyClass:      int(a.Inputs.PropertyClass),
		NewProperty:        a.Inputs.NewProperty,
	})

	query := `
		INSERT INTO assets (id, tenant_id, name, cost, salvage_value, useful_life_months,
			accumulated_depreciation, method, tax_method, acquisition_date, currency,
			active, disposed, inputs_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cost = excluded.cost,
			salvage_value = excluded.salvage_value,
			useful_life_months = excluded.useful_life_months,
			accumulated_depreciation = excluded.accumulated_depreciation,
			method = excluded.method,
			tax_method = excluded.tax_method,
			acquisition_date = excluded.acquisition_date,
			currency = excluded.currency,
			active = excluded.active,
			disposed = excluded.disposed,
			inputs_json = excluded.inputs_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.TenantID, a.Name,
		a.Cost.String(), a.SalvageValue.String(), a.UsefulLifeMonths,
		a.AccumulatedDepreciation.String(),
		string(a.Method), nullString(string(a.TaxMethod)),
		a.AcquisitionDate.Format(time.RFC3339), a.Currency,
		a.Active, a.Disposed, string(inputsJSON), now, now,
	)
	return err
}

// Asset retrieves an asset by ID.
func (s *Store) Asset(ctx context.Context, id depreciation.AssetID) (depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadAsset(ctx, id)
}

func (s *Store) loadAsset(ctx context.Context, id depreciation.AssetID) (depreciation.Asset, error) {
	query := `
		SELECT id, tenant_id, name, cost, salvage_value, useful_life_months,
		       accumulated_depreciation, method, tax_method, acquisition_date, currency,
		       active, disposed, inputs_json
		FROM assets WHERE id = ?
	`

	var (
		a           depreciation.Asset
		cost        string
		salvage     string
		accumulated string
		taxMethod   sql.NullString
		acquisition string
		inputsJSON  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.TenantID, &a.Name, &cost, &salvage, &a.UsefulLifeMonths,
		&accumulated, &a.Method, &taxMethod, &acquisition, &a.Currency,
		&a.Active, &a.Disposed, &inputsJSON,
	)
	if err == sql.ErrNoRows {
		return depreciation.Asset{}, depreciation.ErrAssetNotFound
	}
	if err != nil {
		return depreciation.Asset{}, fmt.Errorf("failed to load asset: %w", err)
	}

	a.Cost = mustDecimal(cost)
	a.SalvageValue = mustDecimal(salvage)
	a.AccumulatedDepreciation = mustDecimal(accumulated)
	a.TaxMethod = depreciation.MethodType(taxMethod.String)
	a.AcquisitionDate, _ = time.Parse(time.RFC3339, acquisition)
	if inputsJSON.Valid && inputsJSON.String != "" {
		var row methodInputsRow
		if err := json.Unmarshal([]byte(inputsJSON.String), &row); err == nil {
			a.Inputs = row.methodInputs()
		}
	}
	return a, nil
}

// ListAssets returns all assets for a tenant. An empty tenant lists everything.
func (s *Store) ListAssets(ctx context.Context, tenantID depreciation.TenantID) ([]depreciation.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM assets WHERE (? = '' OR tenant_id = ?) ORDER BY name",
		tenantID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []depreciation.AssetID
	for rows.Next() {
		var id depreciation.AssetID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assets := make([]depreciation.Asset, 0, len(ids))
	for _, id := range ids {
		a, err := s.loadAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// DeleteAsset removes an asset and its schedules.
func (s *Store) DeleteAsset(ctx context.Context, id depreciation.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM schedule_periods WHERE asset_id = ?",
		"DELETE FROM schedules WHERE asset_id = ?",
		"DELETE FROM assets WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// ACCOUNTING PERIODS (depreciation.PeriodProvider interface)
// =============================================================================

// SavePeriod inserts or replaces an accounting period.
func (s *Store) SavePeriod(ctx context.Context, p depreciation.AccountingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO accounting_periods (id, period_start, period_end)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end
	`
	_, err := s.db.ExecContext(ctx, query, p.ID,
		p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
	return err
}

// Period resolves an accounting period by ID.
func (s *Store) Period(ctx context.Context, id string) (depreciation.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p depreciation.AccountingPeriod
	var start, end string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, period_start, period_end FROM accounting_periods WHERE id = ?",
		id,
	).Scan(&p.ID, &start, &end)
	if err == sql.ErrNoRows {
		return depreciation.AccountingPeriod{}, depreciation.ErrPeriodNotFound
	}
	if err != nil {
		return depreciation.AccountingPeriod{}, err
	}

	p.Start, _ = time.Parse(time.RFC3339, start)
	p.End, _ = time.Parse(time.RFC3339, end)
	return p, nil
}

// =============================================================================
// SCHEDULE STORE (depreciation.ScheduleStore interface)
// =============================================================================

// SaveSchedule replaces the stored schedule for (asset, book) atomically.
func (s *Store) SaveSchedule(ctx context.Context, schedule depreciation.DepreciationSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	header := `
		INSERT INTO schedules (asset_id, book_type, tenant_id, method, currency,
			cost, salvage_value, useful_life_months, acquisition_date, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_id, book_type) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			method = excluded.method,
			currency = excluded.currency,
			cost = excluded.cost,
			salvage_value = excluded.salvage_value,
			useful_life_months = excluded.useful_life_months,
			acquisition_date = excluded.acquisition_date,
			generated_at = excluded.generated_at
	`
	_, err = tx.ExecContext(ctx, header,
		schedule.AssetID, schedule.BookType, schedule.TenantID,
		string(schedule.Method), schedule.Currency,
		schedule.Cost.String(), schedule.SalvageValue.String(),
		schedule.UsefulLifeMonths,
		schedule.AcquisitionDate.Format(time.RFC3339),
		schedule.GeneratedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM schedule_periods WHERE asset_id = ? AND book_type = ?",
		schedule.AssetID, schedule.BookType)
	if err != nil {
		return err
	}

	line := `
		INSERT INTO schedule_periods (id, asset_id, book_type, number,
			window_start, window_end, opening_book_value, closing_book_value,
			depreciation_amount, accumulated_depreciation, status, run_id, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, p := range schedule.Periods {
		_, err = tx.ExecContext(ctx, line,
			p.ID, schedule.AssetID, schedule.BookType, p.Number,
			p.Window.Start.Format(time.RFC3339), p.Window.End.Format(time.RFC3339),
			p.OpeningBookValue.String(), p.ClosingBookValue.String(),
			p.DepreciationAmount.String(), p.AccumulatedDepreciation.String(),
			string(p.Status), nullString(string(p.RunID)), p.Currency,
		)
		if err != nil {
			return fmt.Errorf("failed to save schedule period %d: %w", p.Number, err)
		}
	}

	return tx.Commit()
}

// Schedule loads the stored schedule for (asset, book).
func (s *Store) Schedule(ctx context.Context, assetID depreciation.AssetID, bookType depreciation.BookType) (depreciation.DepreciationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		schedule    depreciation.DepreciationSchedule
		cost        string
		salvage     string
		acquisition string
		generatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT asset_id, book_type, tenant_id, method, currency,
		       cost, salvage_value, useful_life_months, acquisition_date, generated_at
		FROM schedules WHERE asset_id = ? AND book_type = ?`,
		assetID, bookType,
	).Scan(&schedule.AssetID, &schedule.BookType, &schedule.TenantID,
		&schedule.Method, &schedule.Currency,
		&cost, &salvage, &schedule.UsefulLifeMonths, &acquisition, &generatedAt)
	if err == sql.ErrNoRows {
		return depreciation.DepreciationSchedule{}, depreciation.ErrScheduleNotFound
	}
	if err != nil {
		return depreciation.DepreciationSchedule{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	schedule.Cost = mustDecimal(cost)
	schedule.SalvageValue = mustDecimal(salvage)
	schedule.AcquisitionDate, _ = time.Parse(time.RFC3339, acquisition)
	schedule.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, window_start, window_end, opening_book_value,
		       closing_book_value, depreciation_amount, accumulated_depreciation,
		       status, run_id, currency
		FROM schedule_periods
		WHERE asset_id = ? AND book_type = ?
		ORDER BY number ASC`,
		assetID, bookType)
	if err != nil {
		return depreciation.DepreciationSchedule{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          depreciation.SchedulePeriod
			start, end string
			opening    string
			closing    string
			amount     string
			acc        string
			runID      sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Number, &start, &end, &opening,
			&closing, &amount, &acc, &p.Status, &runID, &p.Currency); err != nil {
			return depreciation.DepreciationSchedule{}, fmt.Errorf("failed to scan schedule period: %w", err)
		}
		p.Window.Start, _ = time.Parse(time.RFC3339, start)
		p.Window.End, _ = time.Parse(time.RFC3339, end)
		p.OpeningBookValue = mustDecimal(opening)
		p.ClosingBookValue = mustDecimal(closing)
		p.DepreciationAmount = mustDecimal(amount)
		p.AccumulatedDepreciation = mustDecimal(acc)
		p.RunID = depreciation.RunID(runID.String)
		schedule.Periods = append(schedule.Periods, p)
	}
	return schedule, rows.Err()
}

// =============================================================================
// REVALUATION LOG
// =============================================================================

// SaveRevaluation appends a revaluation record. Append-only: reversals
// are recorded as new rows, never as updates.
func (s *Store) SaveRevaluation(ctx context.Context, id string, r depreciation.Revaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO revaluations (id, asset_id, amount, currency,
			previous_book_value, new_book_value, equity_reserve_ref, expense_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		id, r.AssetID,
		r.Amount.Amount.String(), r.Amount.Currency,
		r.PreviousBookValue.NetBookValue().String(),
		r.NewBookValue.NetBookValue().String(),
		nullString(r.EquityReserveRef), nullString(r.ExpenseRef),
		r.At.Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"schedule_periods", "schedules", "revaluations", "accounting_periods", "assets"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

type methodInputsRow struct {
	TotalExpectedUnits string `json:"total_expected_units,omitempty"`
	UnitsPerPeriod     string `json:"units_per_period,omitempty"`
	AnnualInterestRate string `json:"annual_interest_rate,omitempty"`
	BonusRate          string `json:"bonus_rate,omitempty"`
	PropertyClass      int    `json:"property_class,omitempty"`
	NewProperty        bool   `json:"new_property,omitempty"`
}

func (r methodInputsRow) methodInputs() depreciation.MethodInputs {
	return depreciation.MethodInputs{
		TotalExpectedUnits: mustDecimal(r.TotalExpectedUnits),
		UnitsPerPeriod:     mustDecimal(r.UnitsPerPeriod),
		AnnualInterestRate: mustDecimal(r.AnnualInterestRate),
		BonusRate:          mustDecimal(r.BonusRate),
		PropertyClass:      depreciation.PropertyClass(r.PropertyClass),
		NewProperty:        r.NewProperty,
	}
}

func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
