// Package health reports service health derived from the published catalog.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medicines-catalog/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore interfaces.DataStore
	ttl       time.Duration
	now       func() time.Time
}

// NewHealthChecker creates a health checker. Staleness thresholds scale with
// the cache TTL, which is also the refresh period.
func NewHealthChecker(dataStore interfaces.DataStore, ttl time.Duration) *HealthCheckerImpl {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HealthCheckerImpl{
		dataStore: dataStore,
		ttl:       ttl,
		now:       time.Now,
	}
}

// HealthCheck returns the status, the details served by /health and the HTTP
// code to answer with. Serving the fallback dataset is degraded but still
// answers 200 since the API stays usable.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	entries := h.dataStore.GetEntries()
	lastUpdate := h.dataStore.GetLastUpdated()
	source := h.dataStore.GetSource()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := h.now().Sub(lastUpdate)

	switch {
	case len(entries) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 4*h.ttl:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 2*h.ttl:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case source == interfaces.SourceFallback:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"entries":       len(entries),
		"manufacturers": len(h.dataStore.GetManufacturers()),
		"source":        string(source),
		"is_updating":   isUpdating,
	}
	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
		data["next_refresh"] = h.NextRefresh().Format(time.RFC3339)
	}
	if advisory := h.dataStore.GetAdvisory(); advisory != "" {
		data["advisory"] = advisory
	}
	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int64(h.now().Sub(start).Seconds())
	}

	return status, data, httpStatus
}

// NextRefresh returns when the current catalog's cache slot expires
func (h *HealthCheckerImpl) NextRefresh() time.Time {
	last := h.dataStore.GetLastUpdated()
	if last.IsZero() {
		return h.now()
	}
	return last.Add(h.ttl)
}
