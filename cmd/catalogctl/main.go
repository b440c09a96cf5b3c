// Command catalogctl queries the medicines catalog from a terminal. It runs
// the same cache, sheet and fallback pipeline as the service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Search and refresh the medicines catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCmd(), newWatchCmd(), newBrowseCmd(), newRefreshCmd())
	return root
}
