package main

import (
	"context"
	"fmt"

	"github.com/giygas/medicines-catalog/app"
	"github.com/giygas/medicines-catalog/config"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/search"
	"github.com/spf13/cobra"
)

// filterFlags are the criteria flags shared by search and watch
type filterFlags struct {
	category     string
	manufacturer string
	price        string
	sort         string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "category id, or \"all\"")
	cmd.Flags().StringVar(&f.manufacturer, "manufacturer", "", "manufacturer, or \"all\"")
	cmd.Flags().StringVar(&f.price, "price", "", "price bracket: under-20, 20-50 or over-50")
	cmd.Flags().StringVar(&f.sort, "sort", search.SortName, "sort key: name, price-low, price-high or availability")
}

func (f *filterFlags) criteria(query string) search.Criteria {
	return search.Criteria{
		Query:        query,
		Category:     f.category,
		Manufacturer: f.manufacturer,
		PriceBracket: f.price,
		Sort:         f.sort,
	}
}

// openPipeline loads the configuration and wires the pipeline. Logs go to
// stderr only so stdout stays parseable.
func openPipeline(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.InitLoggerWithOptions(logging.Options{Level: cfg.LogLevel, Stderr: true})

	return app.New(ctx, cfg)
}

// loadCatalog runs one load and reports where the data came from
func loadCatalog(ctx context.Context, a *app.App, force bool) (interfaces.LoadResult, error) {
	result, err := a.Loader.Load(ctx, interfaces.LoadOptions{Force: force})
	if err != nil {
		return result, fmt.Errorf("failed to load catalog: %w", err)
	}
	return result, nil
}
