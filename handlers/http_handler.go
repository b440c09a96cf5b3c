package handlers

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/loader"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/search"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore     interfaces.DataStore
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	catalogLoader interfaces.Loader
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, healthChecker interfaces.HealthChecker, catalogLoader interfaces.Loader) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore:     dataStore,
		validator:     validator,
		healthChecker: healthChecker,
		catalogLoader: catalogLoader,
	}
}

// ListMedicines serves GET /medicines with search, category, manufacturer,
// price and sort query parameters
func (h *HTTPHandlerImpl) ListMedicines(w http.ResponseWriter, r *http.Request) {
	criteria := search.FromValues(r.URL.Query())

	// A blank query matches everything, like an absent one
	if strings.TrimSpace(criteria.Query) != "" {
		if err := h.validator.ValidateInput(criteria.Query); err != nil {
			logging.Warn("Unusual user input", "search", criteria.Query, "error", err)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for name, value := range map[string]string{
		search.ParamCategory:     criteria.Category,
		search.ParamManufacturer: criteria.Manufacturer,
	} {
		if err := h.validator.ValidateFilterValue(name, value); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Unknown values leave their axis unconstrained
	if criteria.PriceBracket != "" && !search.ValidPriceBracket(criteria.PriceBracket) {
		logging.Debug("Ignoring unknown price bracket", "price", criteria.PriceBracket)
	}
	if criteria.Sort != "" && !search.ValidSort(criteria.Sort) {
		logging.Debug("Ignoring unknown sort key", "sort", criteria.Sort)
	}

	results := search.Evaluate(h.dataStore.GetEntries(), criteria)

	RespondWithJSON(w, http.StatusOK, ListResponse{
		Data:          results,
		Total:         len(results),
		Manufacturers: h.dataStore.GetManufacturers(),
		Categories:    entities.Categories(),
		Advisory:      h.dataStore.GetAdvisory(),
		Source:        h.dataStore.GetSource(),
		Query:         criteria.Values().Encode(),
	})
}

// GetMedicine serves GET /medicines/{id}
func (h *HTTPHandlerImpl) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validator.ValidateID(id); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, ok := h.dataStore.GetEntryByID(id)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Medicine not found")
		return
	}

	RespondWithJSON(w, http.StatusOK, DetailResponse{
		Entry:           entry,
		CategoryDetails: resolveCategory(entry.Category),
	})
}

// ListCategories serves GET /categories
func (h *HTTPHandlerImpl) ListCategories(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, countCategories(h.dataStore.GetEntries()))
}

// ListManufacturers serves GET /manufacturers
func (h *HTTPHandlerImpl) ListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers := h.dataStore.GetManufacturers()
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"manufacturers": manufacturers,
		"total":         len(manufacturers),
	})
}

// Refresh serves POST /refresh: the cache slot is invalidated and the sheet
// fetched again. The load outlives the request so a client disconnect does
// not discard it.
func (h *HTTPHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.catalogLoader == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Refresh is not available")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	result, err := h.catalogLoader.Load(ctx, interfaces.LoadOptions{Force: true})
	if err != nil {
		if errors.Is(err, loader.ErrSuperseded) || errors.Is(err, context.Canceled) {
			RespondWithError(w, http.StatusConflict, "Refresh was superseded by a newer load")
			return
		}
		logging.Error("Refresh failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	RespondWithJSON(w, http.StatusOK, RefreshResponse{
		Source:   result.Source,
		Advisory: result.Advisory,
		Total:    len(result.Entries),
		LoadedAt: result.LoadedAt.Format(time.RFC3339),
	})
}

// HealthCheck serves GET /health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.healthChecker.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status: status,
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		response.Uptime = formatUptimeHuman(time.Since(start))
	}

	RespondWithJSON(w, httpStatus, response)
}
