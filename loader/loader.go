// Package loader runs catalog loads: cache first, then the sheet, then the
// bundled fallback. Only one load is current at a time; starting a new one
// cancels the previous one.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/metrics"
)

// FallbackAdvisory is shown while the bundled dataset is served.
const FallbackAdvisory = "Failed to load sheet data. Using fallback dataset."

// ErrSuperseded is returned by a load that a newer load replaced.
var ErrSuperseded = errors.New("load superseded by a newer load")

// Compile-time check to ensure Loader implements the interface
var _ interfaces.Loader = (*Loader)(nil)

// Loader publishes load results into a DataStore.
type Loader struct {
	parser    interfaces.Parser
	cache     interfaces.SnapshotCache
	store     interfaces.DataStore
	fallback  func() []entities.Entry
	validator interfaces.DataValidator
	now       func() time.Time

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// Option customizes a Loader.
type Option func(*Loader)

// WithFallback replaces the bundled dataset.
func WithFallback(fn func() []entities.Entry) Option {
	return func(l *Loader) { l.fallback = fn }
}

// WithValidator reports data quality issues of each sheet load.
func WithValidator(v interfaces.DataValidator) Option {
	return func(l *Loader) { l.validator = v }
}

// WithClock replaces time.Now for LoadedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a Loader.
func New(parser interfaces.Parser, cache interfaces.SnapshotCache, store interfaces.DataStore, opts ...Option) *Loader {
	l := &Loader{
		parser:   parser,
		cache:    cache,
		store:    store,
		fallback: entities.FallbackEntries,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// outcome is a resolved load before it is committed
type outcome struct {
	result     interfaces.LoadResult
	writeCache bool
}

// Load runs one load and publishes its result. A forced load invalidates the
// cache and goes to the network. A load that is superseded or whose context
// ends returns an error and leaves both the cache and the store untouched.
func (l *Loader) Load(ctx context.Context, opts interfaces.LoadOptions) (interfaces.LoadResult, error) {
	loadCtx, id := l.begin(ctx)
	defer l.finish(id)

	l.store.BeginUpdate()
	defer l.store.EndUpdate()

	start := time.Now()
	out, err := l.resolve(loadCtx, opts)
	if err != nil {
		return interfaces.LoadResult{}, l.abandoned(ctx, loadCtx, err)
	}

	if err := l.commit(loadCtx, id, out); err != nil {
		return interfaces.LoadResult{}, l.abandoned(ctx, loadCtx, err)
	}

	metrics.ObserveLoad(string(out.result.Source), time.Since(start).Seconds(), len(out.result.Entries))
	logging.Info("Catalog published",
		"source", out.result.Source,
		"entries", len(out.result.Entries),
		"duration_ms", time.Since(start).Milliseconds())
	return out.result, nil
}

// Cancel aborts the current load, if any.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel(context.Canceled)
		l.cancel = nil
	}
	l.seq++
}

func (l *Loader) begin(parent context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel(ErrSuperseded)
	}
	l.seq++
	ctx, cancel := context.WithCancelCause(parent)
	l.cancel = cancel
	return ctx, l.seq
}

func (l *Loader) finish(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seq == id && l.cancel != nil {
		l.cancel(nil)
		l.cancel = nil
	}
}

// abandoned maps a failed load to the error the caller sees
func (l *Loader) abandoned(parent, loadCtx context.Context, err error) error {
	if errors.Is(context.Cause(loadCtx), ErrSuperseded) {
		logging.Debug("Load superseded")
		return ErrSuperseded
	}
	if parent.Err() != nil {
		logging.Debug("Load cancelled", "error", parent.Err())
		return parent.Err()
	}
	if loadCtx.Err() != nil {
		logging.Debug("Load cancelled")
		return context.Canceled
	}
	return err
}

func (l *Loader) resolve(ctx context.Context, opts interfaces.LoadOptions) (outcome, error) {
	if opts.Force {
		if err := l.cache.Invalidate(ctx); err != nil {
			logging.Warn("Failed to invalidate snapshot cache", "error", err)
		}
	} else {
		entries, ok := l.cache.Read(ctx)
		ok = ok && len(entries) > 0
		metrics.ObserveCacheLookup(ok)
		if ok {
			return outcome{result: l.result(interfaces.SourceCache, entries, "")}, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	entries, err := l.parser.ParseEntries(ctx)
	if ctx.Err() != nil {
		return outcome{}, ctx.Err()
	}

	switch {
	case err != nil:
		logging.Error("Failed to load sheet, serving fallback dataset", "source", l.parser.SourceKey(), "error", err)
	case len(entries) == 0:
		logging.Warn("Sheet returned no rows, serving fallback dataset", "source", l.parser.SourceKey())
	default:
		l.reportQuality(entries)
		return outcome{result: l.result(interfaces.SourceNetwork, entries, ""), writeCache: true}, nil
	}

	return outcome{result: l.result(interfaces.SourceFallback, l.fallback(), FallbackAdvisory)}, nil
}

// reportQuality logs anomalies the normalizer tolerated. They never block a load.
func (l *Loader) reportQuality(entries []entities.Entry) {
	if l.validator == nil {
		return
	}
	invalid := 0
	var firstErr error
	for i := range entries {
		if err := l.validator.ValidateEntry(&entries[i]); err != nil {
			invalid++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if invalid > 0 {
		logging.Warn("Sheet entries failed validation", "count", invalid, "first_error", firstErr)
	}

	report := l.validator.ReportDataQuality(entries)
	if len(report.DuplicateIDs) > 0 {
		logging.Warn("Sheet contains duplicate ids", "count", len(report.DuplicateIDs), "ids", report.DuplicateIDs)
	}
	if len(report.UnknownCategories) > 0 {
		logging.Info("Sheet references unknown categories", "categories", report.UnknownCategories)
	}
	logging.Debug("Sheet data quality",
		"uncategorized", report.UncategorizedCount,
		"missing_price", report.MissingPriceCount,
		"default_name", report.DefaultNameCount)
}

func (l *Loader) result(source interfaces.Source, entries []entities.Entry, advisory string) interfaces.LoadResult {
	return interfaces.LoadResult{
		Source:   source,
		Entries:  entries,
		Advisory: advisory,
		LoadedAt: l.now(),
	}
}

// commit writes the cache and publishes, unless the load is no longer
// current. Holding mu keeps a newer load from starting in between.
func (l *Loader) commit(ctx context.Context, id uint64, out outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq != id {
		return ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if out.writeCache {
		if err := l.cache.Write(ctx, out.result.Entries); err != nil {
			// Serving fresh data matters more than caching it
			logging.Warn("Failed to write snapshot cache", "error", err)
		}
	}

	l.store.UpdateData(out.result)
	return nil
}
