package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
)

// printTable writes entries as aligned columns, at most limit rows when
// limit is positive
func printTable(w io.Writer, entries []entities.Entry, limit int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMANUFACTURER\tPRICE\tAVAILABILITY")

	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for i := range shown {
		e := &shown[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Name, e.Category, e.ManufacturerLabel(),
			strconv.FormatFloat(e.Price, 'f', 2, 64), e.Availability)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(shown) < len(entries) {
		_, err := fmt.Fprintf(w, "... %d more\n", len(entries)-len(shown))
		return err
	}
	return nil
}

// printJSON writes entries as an indented JSON array
func printJSON(w io.Writer, entries []entities.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// printSummary writes the one line header shown above results
func printSummary(w io.Writer, result interfaces.LoadResult, matches int) {
	fmt.Fprintf(w, "%d of %d entries (source: %s)\n", matches, len(result.Entries), result.Source)
	if result.Advisory != "" {
		fmt.Fprintf(w, "note: %s\n", result.Advisory)
	}
}
