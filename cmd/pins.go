package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"propertytax/internal/analysis"
	"propertytax/internal/assessment"
	"propertytax/internal/savedpins"
)

var browseSaved bool

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Manage the saved PIN list",
	Long: `The saved PIN list persists across runs (saved_pins in the config, default
data/saved_pins.txt). Use 'propertytax analyze --saved' to re-run it.`,
}

var pinsAddCmd = &cobra.Command{
	Use:   "add PIN...",
	Short: "Save one or more PINs",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE:  runPinsAdd,
}

var pinsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the saved PINs with their addresses",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runPinsList,
}

func init() {
	pinsListCmd.Flags().BoolVarP(&browseSaved, "interactive", "i", false, "Browse the saved PINs with the arrow keys")
	pinsCmd.AddCommand(pinsAddCmd)
	pinsCmd.AddCommand(pinsListCmd)
}

func runPinsAdd(cmd *cobra.Command, args []string) error {
	list := savedpins.New(cfg.SavedPINs)
	for _, p := range args {
		added, err := list.Add(p)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", p)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already saved\n", p)
		}
	}
	return nil
}

// runPinsList loads the saved PINs and presents them alongside the address
// from the current dataset.
func runPinsList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	pins, err := savedpins.New(cfg.SavedPINs).Load()
	if err != nil {
		return fmt.Errorf("failed to load saved PINs: %w", err)
	}
	if len(pins) == 0 {
		fmt.Fprintln(out, "No PINs saved yet. Use 'propertytax pins add' or save one while browsing results.")
		return nil
	}

	override, err := assessment.ParseOverride(cfg.Analysis.Override)
	if err != nil {
		return err
	}
	props, table, err := loadSources(commandContext(cmd), cfg, logger)
	if err != nil {
		return err
	}
	results, err := analysis.NewAnalyzer(props, table,
		analysis.WithWorkers(cfg.Analysis.Workers),
		analysis.WithLogger(logger)).Run(pins, override)
	if err != nil {
		return err
	}

	if browseSaved && stdinIsTerminal() {
		s := analysis.NewSession(time.Now(), analysis.Options{Override: override})
		lines := make([]string, len(results))
		for i, r := range results {
			lines[i] = resultLine(r)
		}
		return interactiveSelect(s, results, lines, false)
	}
	for _, r := range results {
		fmt.Fprintln(out, resultLine(r))
	}
	return nil
}
