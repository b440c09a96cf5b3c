package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate the snapshot cache and reload the sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openPipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			start := time.Now()
			result, err := loadCatalog(cmd.Context(), a, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "loaded %d entries from %s in %s\n",
				len(result.Entries), result.Source, time.Since(start).Round(time.Millisecond))
			if result.Advisory != "" {
				fmt.Fprintf(out, "note: %s\n", result.Advisory)
			}
			return nil
		},
	}
}
