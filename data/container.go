// Package data holds the published catalog. Each load replaces the whole
// snapshot atomically so readers never see a half updated catalog.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/search"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// Catalog is one immutable published snapshot with its derived views.
type Catalog struct {
	Entries       []entities.Entry
	Manufacturers []string
	ByID          map[string]int // index into Entries
	Source        interfaces.Source
	Advisory      string
	LoadedAt      time.Time
}

var emptyCatalog = &Catalog{
	Entries:       []entities.Entry{},
	Manufacturers: []string{},
	ByID:          map[string]int{},
}

// DataContainer publishes catalogs for concurrent readers
type DataContainer struct {
	catalog         atomic.Pointer[Catalog]
	updating        atomic.Int32
	serverStartTime atomic.Pointer[time.Time]
}

// NewDataContainer creates a container serving an empty catalog
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.catalog.Store(emptyCatalog)
	return dc
}

// Snapshot returns the current catalog. Callers must treat it as read only.
func (dc *DataContainer) Snapshot() *Catalog {
	if c := dc.catalog.Load(); c != nil {
		return c
	}
	return emptyCatalog
}

// GetEntries returns the entries of the current catalog
func (dc *DataContainer) GetEntries() []entities.Entry {
	return dc.Snapshot().Entries
}

// GetEntryByID looks an entry up by id
func (dc *DataContainer) GetEntryByID(id string) (entities.Entry, bool) {
	c := dc.Snapshot()
	i, ok := c.ByID[id]
	if !ok {
		return entities.Entry{}, false
	}
	return c.Entries[i], true
}

// GetManufacturers returns the derived manufacturer listing
func (dc *DataContainer) GetManufacturers() []string {
	return dc.Snapshot().Manufacturers
}

// GetSource tells where the current catalog came from
func (dc *DataContainer) GetSource() interfaces.Source {
	return dc.Snapshot().Source
}

// GetAdvisory returns the user facing notice attached to the catalog, if any
func (dc *DataContainer) GetAdvisory() string {
	return dc.Snapshot().Advisory
}

// GetLastUpdated returns when the current catalog was published
func (dc *DataContainer) GetLastUpdated() time.Time {
	return dc.Snapshot().LoadedAt
}

// UpdateData replaces the catalog. Derived views are built once here.
func (dc *DataContainer) UpdateData(result interfaces.LoadResult) {
	entries := result.Entries
	if entries == nil {
		entries = []entities.Entry{}
	}

	byID := make(map[string]int, len(entries))
	for i := range entries {
		// First occurrence wins on duplicate ids
		if _, ok := byID[entries[i].ID]; !ok {
			byID[entries[i].ID] = i
		}
	}

	loadedAt := result.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}

	dc.catalog.Store(&Catalog{
		Entries:       entries,
		Manufacturers: search.Manufacturers(entries),
		ByID:          byID,
		Source:        result.Source,
		Advisory:      result.Advisory,
		LoadedAt:      loadedAt,
	})
}

// IsUpdating returns true while at least one load is in flight
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load() > 0
}

// BeginUpdate marks the start of a load. Loads supersede each other rather
// than being rejected, so this counts instead of gating.
func (dc *DataContainer) BeginUpdate() {
	dc.updating.Add(1)
}

// EndUpdate marks the end of a load
func (dc *DataContainer) EndUpdate() {
	if dc.updating.Add(-1) < 0 {
		dc.updating.Store(0)
	}
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(&startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if t := dc.serverStartTime.Load(); t != nil {
		return *t
	}
	return time.Time{}
}
