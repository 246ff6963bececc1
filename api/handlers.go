/*
handlers.go - HTTP API handlers for the depreciation engine

PURPOSE:
  Exposes the depreciation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Assets:
    GET    /api/assets                      List all assets
    POST   /api/assets                      Register asset
    GET    /api/assets/{id}                 Get asset details
    DELETE /api/assets/{id}                 Remove asset and its schedules

  Depreciation:
    GET    /api/assets/{id}/depreciation    Calculate for a date (?as_of=&book=)
    POST   /api/assets/{id}/schedule        Generate and persist schedule (?book=)
    GET    /api/assets/{id}/schedule        Load stored schedule (?book=)
    POST   /api/assets/{id}/adjustments     Adjust schedule from a cutover period
    GET    /api/assets/{id}/forecast        Project future periods (?periods=)
    GET    /api/assets/{id}/taxbook         Book-versus-tax comparison (?tax_rate=)

  Revaluation:
    POST   /api/assets/{id}/revaluations    Apply a revaluation
    POST   /api/assets/{id}/revaluations/impact  Preview impact without applying

  Periods:
    POST   /api/periods                     Register accounting period
    GET    /api/periods/{id}                Get period boundaries
    POST   /api/periods/{periodID}/assets/{id}/depreciation  Period calculation

  Misc:
    GET    /api/methods                     Methods available at current tier
    POST   /api/reset                       Database reset (dev only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, tier gating
  - 404: Asset/period/schedule not found
  - 500: Internal errors
  Every error body carries a stable machine-readable code.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/asset-engine/depreciation"
	"github.com/warp/asset-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Manager *depreciation.Manager

	taxEngine      *depreciation.TaxBookEngine
	revaluations   *depreciation.RevaluationService
	defaultTaxRate decimal.Decimal
	validate       *validator.Validate
}

// NewHandler creates a new handler with the given store and tier.
func NewHandler(store *sqlite.Store, tier depreciation.Tier, defaultTaxRate decimal.Decimal) *Handler {
	events := depreciation.LogDispatcher{}
	manager := depreciation.NewManager(store, store, store, events, tier)
	return &Handler{
		Store:          store,
		Manager:        manager,
		taxEngine:      depreciation.NewTaxBookEngine(manager.Factory()),
		revaluations:   depreciation.NewRevaluationService(manager.Generator(), events),
		defaultTaxRate: defaultTaxRate,
		validate:       validator.New(),
	}
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns all assets, optionally filtered by tenant.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	tenant := depreciation.TenantID(r.URL.Query().Get("tenant_id"))
	assets, err := h.Store.ListAssets(r.Context(), tenant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return
	}

	dtos := make([]AssetDTO, len(assets))
	for i, a := range assets {
		dtos[i] = toAssetDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAsset returns a single asset.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))

	asset, err := h.Store.Asset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(asset))
}

// CreateAsset registers a new asset.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	cost, err := decimal.NewFromString(req.Cost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cost (use a decimal string)", err)
		return
	}
	salvage, err := parseOptionalDecimal(req.SalvageValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid salvage_value", err)
		return
	}
	acquisition, err := time.Parse("2006-01-02", req.AcquisitionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid acquisition_date format (use YYYY-MM-DD)", err)
		return
	}
	inputs, err := req.Inputs.methodInputs()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid method inputs", err)
		return
	}

	asset := depreciation.Asset{
		ID:               depreciation.AssetID(req.ID),
		TenantID:         depreciation.TenantID(req.TenantID),
		Name:             req.Name,
		Cost:             cost,
		SalvageValue:     salvage,
		UsefulLifeMonths: req.UsefulLifeMonths,
		Method:           depreciation.MethodType(req.Method),
		TaxMethod:        depreciation.MethodType(req.TaxMethod),
		AcquisitionDate:  acquisition,
		Currency:         req.Currency,
		Active:           true,
		Inputs:           inputs,
	}

	// Reject unusable parameters up front. A dry-run generation exercises
	// the same validation the calculation endpoints would hit later, and
	// the factory enforces tier gating inside it.
	if _, err := h.Manager.Generator().Generate(asset.GenerateInput(depreciation.BookFinancial)); err != nil {
		writeDomainError(w, "Invalid asset parameters", err)
		return
	}

	if err := h.Store.SaveAsset(r.Context(), asset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(asset))
}

// DeleteAsset removes an asset and all its schedules.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteAsset(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DEPRECIATION HANDLERS
// =============================================================================

// CalculateDepreciation returns the depreciation for the period
// containing as_of (default: today).
// GET /api/assets/{id}/depreciation?as_of=2025-03-15&book=tax
func (h *Handler) CalculateDepreciation(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	bookType := bookTypeParam(r)

	var asOf time.Time
	if s := r.URL.Query().Get("as_of"); s != "" {
		var err error
		asOf, err = time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
	}

	amount, err := h.Manager.Calculate(r.Context(), id, asOf, bookType)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}

	dto := DepreciationDTO{
		AssetID:                 string(id),
		BookType:                string(bookType),
		Amount:                  amount.Amount.StringFixed(2),
		Currency:                amount.Currency,
		AccumulatedDepreciation: amount.AccumulatedDepreciation.StringFixed(2),
	}
	if !asOf.IsZero() {
		dto.AsOf = asOf.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, dto)
}

// CalculateForPeriod computes depreciation over a named accounting period.
// POST /api/periods/{periodID}/assets/{id}/depreciation
func (h *Handler) CalculateForPeriod(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	periodID := chi.URLParam(r, "periodID")
	bookType := bookTypeParam(r)

	record, err := h.Manager.CalculateForPeriod(r.Context(), id, periodID, bookType)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, DepreciationDTO{
		AssetID:                 string(id),
		BookType:                string(bookType),
		Amount:                  record.Amount.Amount.StringFixed(2),
		Currency:                record.Amount.Currency,
		AccumulatedDepreciation: record.Amount.AccumulatedDepreciation.StringFixed(2),
		PeriodID:                periodID,
	})
}

// GenerateSchedule builds and persists the full schedule.
// POST /api/assets/{id}/schedule?book=tax
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	tenant := depreciation.TenantID(r.URL.Query().Get("tenant_id"))
	bookType := bookTypeParam(r)

	schedule, err := h.Manager.Generate(r.Context(), id, tenant, bookType)
	if err != nil {
		writeDomainError(w, "Schedule generation failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleDTO(schedule))
}

// GetSchedule loads the stored schedule.
// GET /api/assets/{id}/schedule?book=tax
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	bookType := bookTypeParam(r)

	schedule, err := h.Store.Schedule(r.Context(), id, bookType)
	if err != nil {
		writeDomainError(w, "Failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// AdjustSchedule re-plans the schedule from a cutover period.
// POST /api/assets/{id}/adjustments
func (h *Handler) AdjustSchedule(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))
	tenant := depreciation.TenantID(r.URL.Query().Get("tenant_id"))

	var req AdjustScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	adj := depreciation.Adjustments{
		FromPeriod:          req.FromPeriod,
		NewUsefulLifeMonths: req.NewUsefulLifeMonths,
	}
	if req.NewSalvageValue != nil {
		salvage, err := decimal.NewFromString(*req.NewSalvageValue)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid new_salvage_value", err)
			return
		}
		adj.NewSalvageValue = &salvage
	}
	if req.NewMethod != nil {
		method := depreciation.MethodType(*req.NewMethod)
		adj.NewMethod = &method
	}
	if req.NewInputs != nil {
		inputs, err := req.NewInputs.methodInputs()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid new_inputs", err)
			return
		}
		adj.NewInputs = &inputs
	}

	schedule, err := h.Manager.Adjust(r.Context(), id, tenant, adj)
	if err != nil {
		writeDomainError(w, "Adjustment failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// Forecast projects future depreciation.
// GET /api/assets/{id}/forecast?periods=24
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))

	periods := 0
	if s := r.URL.Query().Get("periods"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid periods (use a non-negative integer)", err)
			return
		}
		periods = n
	}

	forecast, err := h.Manager.Forecast(r.Context(), id, periods)
	if err != nil {
		writeDomainError(w, "Forecast failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toForecastDTO(forecast))
}

// TaxBook compares book and tax depreciation for the asset.
// GET /api/assets/{id}/taxbook?tax_rate=0.21
func (h *Handler) TaxBook(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))

	taxRate := h.defaultTaxRate
	if s := r.URL.Query().Get("tax_rate"); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid tax_rate", err)
			return
		}
		taxRate = rate
	}

	asset, err := h.Store.Asset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get asset", err)
		return
	}

	schedule, err := h.taxEngine.CalculateSchedule(
		asset.GenerateInput(depreciation.BookFinancial),
		asset.GenerateInput(depreciation.BookTax),
		taxRate,
	)
	if err != nil {
		writeDomainError(w, "Tax book calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaxBookDTO(schedule))
}

// =============================================================================
// REVALUATION HANDLERS
// =============================================================================

// RevalueAsset applies a revaluation and persists the new basis.
// POST /api/assets/{id}/revaluations
func (h *Handler) RevalueAsset(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))

	newCost, newSalvage, ok := h.parseRevalueRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.Store.Asset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get asset", err)
		return
	}

	rev, err := h.revaluations.Revalue(r.Context(), asset, newCost, newSalvage)
	if err != nil {
		writeDomainError(w, "Revaluation failed", err)
		return
	}

	// Persist the revalued basis and the audit record.
	asset.Cost = newCost
	asset.SalvageValue = newSalvage
	if err := h.Store.SaveAsset(r.Context(), asset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist revalued asset", err)
		return
	}
	revID := string(h.Manager.NewRun())
	if err := h.Store.SaveRevaluation(r.Context(), revID, rev); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record revaluation", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRevaluationDTO(rev))
}

// RevaluationImpact previews depreciation changes without applying.
// POST /api/assets/{id}/revaluations/impact
func (h *Handler) RevaluationImpact(w http.ResponseWriter, r *http.Request) {
	id := depreciation.AssetID(chi.URLParam(r, "id"))

	newCost, newSalvage, ok := h.parseRevalueRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.Store.Asset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get asset", err)
		return
	}

	impact, err := h.revaluations.CalculateImpact(asset, newCost, newSalvage)
	if err != nil {
		writeDomainError(w, "Impact calculation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, RevaluationImpactDTO{
		RemainingLifeMonths: impact.RemainingLifeMonths,
		AnnualBefore:        impact.AnnualBefore.StringFixed(2),
		AnnualAfter:         impact.AnnualAfter.StringFixed(2),
		AnnualDelta:         impact.AnnualDelta.StringFixed(2),
	})
}

func (h *Handler) parseRevalueRequest(w http.ResponseWriter, r *http.Request) (decimal.Decimal, decimal.Decimal, bool) {
	var req RevalueAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return decimal.Zero, decimal.Zero, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return decimal.Zero, decimal.Zero, false
	}
	newCost, err := decimal.NewFromString(req.NewCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_cost", err)
		return decimal.Zero, decimal.Zero, false
	}
	newSalvage, err := parseOptionalDecimal(req.NewSalvageValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_salvage_value", err)
		return decimal.Zero, decimal.Zero, false
	}
	return newCost, newSalvage, true
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// CreatePeriod registers an accounting period.
func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "Period end before start", nil)
		return
	}

	period := depreciation.AccountingPeriod{ID: req.ID, Start: start, End: end}
	if err := h.Store.SavePeriod(r.Context(), period); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period", err)
		return
	}
	writeJSON(w, http.StatusCreated, PeriodDTO{
		ID:    period.ID,
		Start: period.Start.Format("2006-01-02"),
		End:   period.End.Format("2006-01-02"),
	})
}

// GetPeriod returns accounting period boundaries.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	period, err := h.Store.Period(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get period", err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodDTO{
		ID:    period.ID,
		Start: period.Start.Format("2006-01-02"),
		End:   period.End.Format("2006-01-02"),
	})
}

// =============================================================================
// MISC HANDLERS
// =============================================================================

// ListMethods returns the methods available at the configured tier.
func (h *Handler) ListMethods(w http.ResponseWriter, r *http.Request) {
	available := h.Manager.Factory().Methods()
	dtos := make([]MethodDTO, 0, len(available))
	for _, mt := range available {
		method, err := h.Manager.Factory().Create(mt)
		if err != nil {
			continue
		}
		dtos = append(dtos, MethodDTO{
			Type:        string(mt),
			Accelerated: method.IsAccelerated(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetDatabase clears all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses and stable codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case depreciation.IsNotFound(err):
		status = http.StatusNotFound
	case depreciation.IsClientError(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    depreciation.CodeFor(err),
		Details: err.Error(),
	})
}

func bookTypeParam(r *http.Request) depreciation.BookType {
	if r.URL.Query().Get("book") == string(depreciation.BookTax) {
		return depreciation.BookTax
	}
	return depreciation.BookFinancial
}
