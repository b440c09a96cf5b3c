package main

import (
	"strings"

	"github.com/giygas/medicines-catalog/search"
	"github.com/giygas/medicines-catalog/validation"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Print the entries matching a query and filters",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) != "" {
				if err := validation.NewDataValidator().ValidateInput(query); err != nil {
					return err
				}
			}

			a, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := loadCatalog(cmd.Context(), a, false)
			if err != nil {
				return err
			}

			matches := search.Evaluate(result.Entries, filters.criteria(query))
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, matches)
			}
			printSummary(out, result, len(matches))
			return printTable(out, matches, limit)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print matches as JSON")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print, 0 for all")
	return cmd
}
