// Package interfaces defines core abstractions for the medicines catalog
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/medicines-catalog/entities"
)

// Source tells where the currently served catalog came from.
type Source string

const (
	SourceNone     Source = ""
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
)

// LoadResult is the outcome of one completed load.
type LoadResult struct {
	Source   Source
	Entries  []entities.Entry
	Advisory string
	LoadedAt time.Time
}

// LoadOptions tunes a single load. Force skips the cache after invalidating it.
type LoadOptions struct {
	Force bool
}

// DataQualityReport summarizes anomalies found in a loaded catalog
type DataQualityReport struct {
	DuplicateIDs       []string
	UncategorizedCount int
	UnknownCategories  []string
	MissingPriceCount  int
	DefaultNameCount   int
}

// DataStore defines the contract for the catalog snapshot holder.
// It provides thread-safe access with wholesale replacement on each load.
type DataStore interface {
	// Data retrieval methods
	GetEntries() []entities.Entry
	GetEntryByID(id string) (entities.Entry, bool)
	GetManufacturers() []string
	GetSource() Source
	GetAdvisory() string
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(result LoadResult)
	BeginUpdate()
	EndUpdate()
}

// Parser defines the contract for turning the remote sheet into entries.
type Parser interface {
	// ParseEntries downloads, decodes and normalizes the remote table
	ParseEntries(ctx context.Context) ([]entities.Entry, error)

	// SourceKey identifies the remote table (spreadsheet + tab)
	SourceKey() string
}

// SnapshotCache is the TTL bounded store of the last good entry set.
// Read never reports errors: anything unusable is a miss.
type SnapshotCache interface {
	Read(ctx context.Context) ([]entities.Entry, bool)
	Write(ctx context.Context, entries []entities.Entry) error
	Invalidate(ctx context.Context) error
}

// Loader runs the cache -> network -> fallback pipeline.
type Loader interface {
	Load(ctx context.Context, opts LoadOptions) (LoadResult, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// Catalog endpoints
	ListMedicines(w http.ResponseWriter, r *http.Request)
	GetMedicine(w http.ResponseWriter, r *http.Request)
	ListCategories(w http.ResponseWriter, r *http.Request)
	ListManufacturers(w http.ResponseWriter, r *http.Request)

	// Operations
	Refresh(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	// ValidateInput validates free text user input
	ValidateInput(input string) error

	// ValidateFilterValue checks a category or manufacturer filter value
	ValidateFilterValue(name, value string) error

	// ValidateID checks an entry id taken from a request path
	ValidateID(id string) error

	// ValidateEntry checks one entry for structural problems
	ValidateEntry(e *entities.Entry) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(entries []entities.Entry) *DataQualityReport
}
