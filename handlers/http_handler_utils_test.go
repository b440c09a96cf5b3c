package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/giygas/medicines-catalog/data"
	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/validation"
	"github.com/go-chi/chi/v5"
)

func init() {
	logging.InitLogger("")
}

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory creates consistent test data across all tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateEntry creates a single test entry with realistic data
func (f *TestDataFactory) CreateEntry(id, name, category, manufacturer string, price float64) entities.Entry {
	return entities.Entry{
		ID:                id,
		Name:              name,
		GenericName:       name + " Generic",
		Category:          category,
		Manufacturer:      manufacturer,
		Dosage:            "500mg",
		Form:              "Tablet",
		Price:             price,
		Stock:             40,
		Availability:      entities.InStock,
		Uses:              []string{},
		SideEffects:       []string{},
		Contraindications: []string{},
		Extra:             map[string]any{},
	}
}

// CreateEntries creates count entries spread over the known categories
func (f *TestDataFactory) CreateEntries(count int) []entities.Entry {
	categories := entities.Categories()
	entries := make([]entities.Entry, count)
	for i := range count {
		entries[i] = f.CreateEntry(
			fmt.Sprintf("med-%04d", i+1),
			fmt.Sprintf("Medicine %d", i+1),
			categories[i%len(categories)].ID,
			fmt.Sprintf("Maker %d", i%5),
			float64(i%80)+0.5,
		)
	}
	return entries
}

// CreateCatalog returns the small catalog most handler tests run against
func (f *TestDataFactory) CreateCatalog() []entities.Entry {
	return []entities.Entry{
		f.CreateEntry("med-1", "Ibuprofen", "painkillers", "Pfizer", 8.99),
		f.CreateEntry("med-2", "Amoxicillin", "antibiotics", "GSK", 24.5),
		f.CreateEntry("med-3", "Atorvastatin", "cardiac", "", 62),
		f.CreateEntry("med-4", "Aspirin", "painkillers", "Bayer", 4.25),
		f.CreateEntry("med-5", "Herbal Tea", "herbal", "Pfizer", 12),
	}
}

// CreateDataContainer creates a populated data container
func (f *TestDataFactory) CreateDataContainer(entries []entities.Entry, source interfaces.Source, advisory string) *data.DataContainer {
	dc := data.NewDataContainer()
	dc.UpdateData(interfaces.LoadResult{
		Source:   source,
		Entries:  entries,
		Advisory: advisory,
		LoadedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	dc.SetServerStartTime(time.Now().Add(-90 * time.Minute))
	return dc
}

// ============================================================================
// MOCKS
// ============================================================================

// MockHealthChecker returns a canned health result
type MockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

// MockHealthCheckerBuilder builds MockHealthChecker values
type MockHealthCheckerBuilder struct {
	checker *MockHealthChecker
}

func NewMockHealthCheckerBuilder() *MockHealthCheckerBuilder {
	return &MockHealthCheckerBuilder{checker: &MockHealthChecker{
		status:     "healthy",
		details:    map[string]any{"entries": 5},
		httpStatus: http.StatusOK,
	}}
}

func (b *MockHealthCheckerBuilder) WithStatus(status string, httpStatus int) *MockHealthCheckerBuilder {
	b.checker.status = status
	b.checker.httpStatus = httpStatus
	return b
}

func (b *MockHealthCheckerBuilder) Build() *MockHealthChecker {
	return b.checker
}

// MockLoader records forced loads and returns a canned result
type MockLoader struct {
	mu     sync.Mutex
	calls  []interfaces.LoadOptions
	result interfaces.LoadResult
	err    error
	ctxErr error
}

func (m *MockLoader) Load(ctx context.Context, opts interfaces.LoadOptions) (interfaces.LoadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts)
	m.ctxErr = ctx.Err()
	return m.result, m.err
}

func (m *MockLoader) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// ============================================================================
// HELPERS
// ============================================================================

// newTestHandler wires a handler over the default test catalog
func newTestHandler() *HTTPHandlerImpl {
	factory := NewTestDataFactory()
	dc := factory.CreateDataContainer(factory.CreateCatalog(), interfaces.SourceNetwork, "")
	return NewHTTPHandler(dc, validation.NewDataValidator(), NewMockHealthCheckerBuilder().Build(), &MockLoader{})
}

// newRouter mounts the handler the way the server does
func newRouter(h *HTTPHandlerImpl) chi.Router {
	r := chi.NewRouter()
	r.Get("/medicines", h.ListMedicines)
	r.Get("/medicines/{id}", h.GetMedicine)
	r.Get("/categories", h.ListCategories)
	r.Get("/manufacturers", h.ListManufacturers)
	r.Post("/refresh", h.Refresh)
	r.Get("/health", h.HealthCheck)
	return r
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
	return out
}

func entryIDs(entries []entities.Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].ID
	}
	return out
}
