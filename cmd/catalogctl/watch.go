package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/search"
	"github.com/giygas/medicines-catalog/validation"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		filters filterFlags
		limit   int
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Read queries from stdin, one per line, and print results once typing pauses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := loadCatalog(cmd.Context(), a, false)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("delay") {
				delay = a.Config.SearchDebounce
			}

			out := cmd.OutOrStdout()
			printSummary(out, result, len(result.Entries))
			return runWatch(cmd.Context(), cmd.InOrStdin(), out, result.Entries, filters, delay, limit)
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print per query, 0 for all")
	cmd.Flags().DurationVar(&delay, "delay", search.DefaultDebounce, "quiet period before a query runs")
	return cmd
}

// runWatch debounces the lines of in and prints the results of the last
// query of each burst. Remaining input is flushed at EOF.
func runWatch(ctx context.Context, in io.Reader, out io.Writer, entries []entities.Entry, filters filterFlags, delay time.Duration, limit int) error {
	validator := validation.NewDataValidator()

	var mu sync.Mutex
	render := func(query string) {
		mu.Lock()
		defer mu.Unlock()

		if strings.TrimSpace(query) != "" {
			if err := validator.ValidateInput(query); err != nil {
				fmt.Fprintf(out, "invalid query %q: %v\n", query, err)
				return
			}
		}
		matches := search.Evaluate(entries, filters.criteria(query))
		fmt.Fprintf(out, "> %q: %d matches\n", query, len(matches))
		if err := printTable(out, matches, limit); err != nil {
			fmt.Fprintf(out, "failed to print results: %v\n", err)
		}
	}

	debouncer := search.NewDebouncer(delay, render)
	defer debouncer.Stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line := <-lines:
			debouncer.Push(line)
		case err := <-scanErr:
			debouncer.Flush()
			return err
		}
	}
}
