// Package app wires the catalog pipeline shared by the service and the CLI:
// cache store, sheet parser, snapshot cache, data container and loader.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/giygas/medicines-catalog/cache"
	"github.com/giygas/medicines-catalog/config"
	"github.com/giygas/medicines-catalog/data"
	"github.com/giygas/medicines-catalog/loader"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/sheetparser"
	"github.com/giygas/medicines-catalog/validation"
)

// App holds the wired pipeline
type App struct {
	Config    *config.Config
	Container *data.DataContainer
	Loader    *loader.Loader
	Parser    *sheetparser.SheetParser
	Cache     *cache.SnapshotCache

	closers []io.Closer
}

// New builds the pipeline described by cfg. Shared backends (redis,
// postgres, s3) are checked for reachability before New returns.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, closer, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SpreadsheetID == "" {
		logging.Warn("SPREADSHEET_ID is not set, the fallback dataset will be served")
	}

	parser := sheetparser.NewSheetParser(cfg.SpreadsheetID, cfg.SheetGID, cfg.FetchTimeout)
	snapshots := cache.NewSnapshotCache(store, parser.SourceKey(), cfg.CacheTTL)
	container := data.NewDataContainer()

	a := &App{
		Config:    cfg,
		Container: container,
		Parser:    parser,
		Cache:     snapshots,
		Loader:    loader.New(parser, snapshots, container, loader.WithValidator(validation.NewDataValidator())),
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config) (cache.Store, io.Closer, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis snapshot cache: %w", err)
		}
		logging.Info("Using redis snapshot cache")
		return store, store, nil
	case config.CachePostgres:
		store, err := cache.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres snapshot cache: %w", err)
		}
		logging.Info("Using postgres snapshot cache")
		return store, store, nil
	case config.CacheS3:
		store, err := cache.NewS3Store(ctx, cache.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("s3 snapshot cache: %w", err)
		}
		logging.Info("Using s3 snapshot cache", "bucket", cfg.S3Bucket)
		return store, nil, nil
	case config.CacheMemory, "":
		return cache.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// Close cancels the current load and releases the cache connection
func (a *App) Close() error {
	a.Loader.Cancel()

	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
