package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giygas/medicines-catalog/data"
	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
)

func init() {
	logging.InitLogger("")
}

// callLog records the order in which collaborators are used
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (c *callLog) add(call string) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}

func (c *callLog) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type mockParser struct {
	log     *callLog
	entries []entities.Entry
	err     error
	// block, when set, makes ParseEntries wait for it or for ctx
	block chan struct{}
}

func (m *mockParser) ParseEntries(ctx context.Context) ([]entities.Entry, error) {
	m.log.add("parse")
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.entries, m.err
}

func (m *mockParser) SourceKey() string { return "sheet_cache_test_0" }

type mockCache struct {
	log     *callLog
	mu      sync.Mutex
	entries []entities.Entry
	hit     bool
	writes  int
}

func (m *mockCache) Read(ctx context.Context) ([]entities.Entry, bool) {
	m.log.add("read")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, m.hit
}

func (m *mockCache) Write(ctx context.Context, entries []entities.Entry) error {
	m.log.add("write")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.hit = true
	m.writes++
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	m.log.add("invalidate")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.hit = false
	return nil
}

func (m *mockCache) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func named(names ...string) []entities.Entry {
	out := make([]entities.Entry, len(names))
	for i, n := range names {
		out[i] = entities.Entry{ID: n, Name: n}
	}
	return out
}

func equalCalls(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadCacheHitSkipsNetwork(t *testing.T) {
	log := &callLog{}
	parser := &mockParser{log: log, entries: named("net")}
	cache := &mockCache{log: log, entries: named("cached"), hit: true}
	store := data.NewDataContainer()

	result, err := New(parser, cache, store).Load(context.Background(), interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.Source != interfaces.SourceCache {
		t.Errorf("Expected source cache, got %q", result.Source)
	}
	if got := log.get(); !equalCalls(got, []string{"read"}) {
		t.Errorf("Expected only a cache read, got %v", got)
	}
	if store.GetEntries()[0].Name != "cached" {
		t.Errorf("Expected cached entries to be published, got %+v", store.GetEntries())
	}
}

func TestLoadCacheMissFetchesAndWrites(t *testing.T) {
	log := &callLog{}
	parser := &mockParser{log: log, entries: named("a", "b")}
	cache := &mockCache{log: log}
	store := data.NewDataContainer()
	stamp := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)

	result, err := New(parser, cache, store, WithClock(func() time.Time { return stamp })).Load(context.Background(), interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.Source != interfaces.SourceNetwork || result.Advisory != "" {
		t.Errorf("Expected network result without advisory, got %+v", result)
	}
	if got := log.get(); !equalCalls(got, []string{"read", "parse", "write"}) {
		t.Errorf("Expected read, parse, write, got %v", got)
	}
	if !store.GetLastUpdated().Equal(stamp) {
		t.Errorf("Expected LoadedAt %v, got %v", stamp, store.GetLastUpdated())
	}
	if store.IsUpdating() {
		t.Error("Expected no update in flight after Load")
	}
}

func TestLoadFallback(t *testing.T) {
	tests := []struct {
		name   string
		parser *mockParser
	}{
		{"network error", &mockParser{err: errors.New("unexpected HTTP status: 500")}},
		{"empty sheet", &mockParser{entries: []entities.Entry{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &callLog{}
			tt.parser.log = log
			cache := &mockCache{log: log}
			store := data.NewDataContainer()

			result, err := New(tt.parser, cache, store).Load(context.Background(), interfaces.LoadOptions{})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if result.Source != interfaces.SourceFallback {
				t.Errorf("Expected fallback source, got %q", result.Source)
			}
			if result.Advisory != FallbackAdvisory {
				t.Errorf("Expected advisory %q, got %q", FallbackAdvisory, result.Advisory)
			}
			if len(store.GetEntries()) != len(entities.FallbackEntries()) {
				t.Errorf("Expected the fallback dataset, got %d entries", len(store.GetEntries()))
			}
			if cache.writeCount() != 0 {
				t.Error("Fallback data must never be written to the cache")
			}
		})
	}
}

func TestLoadForceInvalidatesFirst(t *testing.T) {
	log := &callLog{}
	parser := &mockParser{log: log, entries: named("fresh")}
	cache := &mockCache{log: log, entries: named("stale"), hit: true}
	store := data.NewDataContainer()

	result, err := New(parser, cache, store).Load(context.Background(), interfaces.LoadOptions{Force: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.Source != interfaces.SourceNetwork {
		t.Errorf("Expected a network load, got %q", result.Source)
	}
	if got := log.get(); !equalCalls(got, []string{"invalidate", "parse", "write"}) {
		t.Errorf("Expected invalidate, parse, write, got %v", got)
	}
}

func TestLoadSupersede(t *testing.T) {
	log := &callLog{}
	slow := &mockParser{log: log, entries: named("old"), block: make(chan struct{})}
	cache := &mockCache{log: log}
	store := data.NewDataContainer()
	l := New(slow, cache, store)

	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), interfaces.LoadOptions{})
		firstErr <- err
	}()

	// Wait until the first load is inside the fetch
	deadline := time.Now().Add(time.Second)
	for len(log.get()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("First load never reached the parser")
		}
		time.Sleep(time.Millisecond)
	}

	l.parser = &mockParser{log: log, entries: named("new")}
	result, err := l.Load(context.Background(), interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("Expected ErrSuperseded from the first load, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("First load did not return")
	}

	if result.Entries[0].Name != "new" || store.GetEntries()[0].Name != "new" {
		t.Errorf("Expected the newer load to be published, got %+v", store.GetEntries())
	}
	if cache.writeCount() != 1 {
		t.Errorf("Expected a single cache write from the newer load, got %d", cache.writeCount())
	}
}

func TestLoadCancelledContext(t *testing.T) {
	log := &callLog{}
	parser := &mockParser{log: log, entries: named("x"), block: make(chan struct{})}
	cache := &mockCache{log: log}
	store := data.NewDataContainer()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(parser, cache, store).Load(ctx, interfaces.LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if store.GetSource() != interfaces.SourceNone || len(store.GetEntries()) != 0 {
		t.Error("A cancelled load must not publish")
	}
	if cache.writeCount() != 0 {
		t.Error("A cancelled load must not write the cache")
	}
}

func TestLoaderCancel(t *testing.T) {
	log := &callLog{}
	parser := &mockParser{log: log, block: make(chan struct{})}
	cache := &mockCache{log: log}
	l := New(parser, cache, data.NewDataContainer())

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), interfaces.LoadOptions{})
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for len(log.get()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("Load never reached the parser")
		}
		time.Sleep(time.Millisecond)
	}
	l.Cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Load did not stop after Cancel")
	}
}

type mockValidator struct {
	reported  int
	validated int
}

func (m *mockValidator) ValidateInput(string) error               { return nil }
func (m *mockValidator) ValidateFilterValue(string, string) error { return nil }
func (m *mockValidator) ValidateID(string) error                  { return nil }

func (m *mockValidator) ValidateEntry(*entities.Entry) error {
	m.validated++
	return nil
}

func (m *mockValidator) ReportDataQuality(entries []entities.Entry) *interfaces.DataQualityReport {
	m.reported++
	return &interfaces.DataQualityReport{DuplicateIDs: []string{"a"}}
}

func TestLoadReportsQualityForSheetLoadsOnly(t *testing.T) {
	log := &callLog{}
	validator := &mockValidator{}
	parser := &mockParser{log: log, entries: named("a", "a")}
	cache := &mockCache{log: log}
	l := New(parser, cache, data.NewDataContainer(), WithValidator(validator))

	if _, err := l.Load(context.Background(), interfaces.LoadOptions{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if validator.reported != 1 {
		t.Errorf("Expected 1 quality report after a sheet load, got %d", validator.reported)
	}
	if validator.validated != 2 {
		t.Errorf("Expected both entries validated, got %d", validator.validated)
	}

	// Second load is served from the cache the first one wrote
	if _, err := l.Load(context.Background(), interfaces.LoadOptions{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if validator.reported != 1 {
		t.Errorf("Expected no report for a cache hit, got %d reports", validator.reported)
	}
}
