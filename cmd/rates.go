package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"propertytax/internal/rates"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

var ratesCmd = &cobra.Command{
	Use:   "rates [NEIGHBORHOOD]",
	Short: "Show neighborhood tax rates",
	Long: `With a neighborhood code, lists every known rate for it and marks the one
estimates use (the most recent year). Without one, prints the current rate for
every neighborhood.`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runRates,
}

func runRates(cmd *cobra.Command, args []string) error {
	_, table, err := loadSources(commandContext(cmd), cfg, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return writeCurrentRates(out, table)
	}
	return writeNeighborhoodRates(out, args[0], table)
}

func writeCurrentRates(w io.Writer, table *rates.Table) error {
	codes := table.Codes()
	if len(codes) == 0 {
		_, err := fmt.Fprintln(w, "No tax rates loaded.")
		return err
	}
	fmt.Fprintf(w, "%-12s | %-4s | %s\n", "Neighborhood", "Year", "Rate")
	for _, code := range codes {
		e, ok := rates.Resolve(code, table)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-12s | %-4d | %s\n", code, e.Year, tax.FormatPercent(types.Some(e.Rate)))
	}
	return nil
}

func writeNeighborhoodRates(w io.Writer, code string, table *rates.Table) error {
	current, ok := rates.Resolve(code, table)
	if !ok {
		_, err := fmt.Fprintf(w, "No tax rate found for neighborhood %s.\n", code)
		return err
	}
	fmt.Fprintf(w, "Neighborhood %s\n", code)
	for _, e := range table.EntriesFor(code) {
		marker := ""
		if e.Year == current.Year {
			marker = "  (current)"
		}
		fmt.Fprintf(w, "  %d  %s%s\n", e.Year, tax.FormatPercent(types.Some(e.Rate)), marker)
	}
	return nil
}
