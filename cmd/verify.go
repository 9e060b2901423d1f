package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"propertytax/internal/analysis"
	"propertytax/internal/assessment"
	"propertytax/internal/rates"
	"propertytax/internal/store"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

var verifyOut string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the verification pack against the sample dataset",
	Long: `Analyzes every PIN of the built-in sample dataset with the automatic
assessment precedence and reports the chosen assessment, the resolved rate and
the computed tax. A PIN passes when both an assessment and a positive rate are
available. Results are also written as CSV.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyOut, "out", "o", "verification_results.csv", "CSV output path (empty to skip)")
}

var verifyHeader = []string{"PIN", "Chosen Assessment Type", "Assessment Value", "Rate Year", "Rate Value", "Factor", "Computed Tax", "Status"}

type verifyRow struct {
	analysis.Result
	Pass bool
}

func verifyPack() ([]verifyRow, error) {
	props := store.Sample()
	results, err := analysis.AnalyzeBatch(props.PINs(), props, rates.Sample(), assessment.Auto)
	if err != nil {
		return nil, err
	}
	rows := make([]verifyRow, len(results))
	for i, r := range results {
		assessed, hasAssessment := r.Assessment.Value.Get()
		rate, hasRate := r.TaxRateValue.Get()
		rows[i] = verifyRow{Result: r, Pass: hasAssessment && assessed > 0 && hasRate && rate > 0}
	}
	return rows, nil
}

func formatNumber(a types.Amount) string {
	v, ok := a.Get()
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r verifyRow) record() []string {
	status := "FAIL"
	if r.Pass {
		status = "PASS"
	}
	computed := "N/A"
	if v, ok := r.EstimatedTax.Get(); ok {
		computed = strconv.FormatFloat(v, 'f', 2, 64)
	}
	factor := "N/A"
	if r.Property != nil {
		factor = strconv.FormatFloat(r.Property.EqualizationFactor, 'f', -1, 64)
	}
	return []string{
		r.PIN,
		string(r.Assessment.Label),
		formatNumber(r.Assessment.Value),
		r.TaxRateYear.String(),
		formatNumber(r.TaxRateValue),
		factor,
		computed,
		status,
	}
}

func writeVerifyCSV(w io.Writer, rows []verifyRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(verifyHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func runVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Running verification pack...")
	fmt.Fprintln(out)

	rows, err := verifyPack()
	if err != nil {
		return err
	}

	passed := 0
	for _, r := range rows {
		rec := r.record()
		fmt.Fprintf(out, "%s  %-9s %10s  %4s @ %-8s x %-6s = %12s  %s\n",
			r.PIN, rec[1], rec[2], rec[3], tax.FormatPercent(r.TaxRateValue), rec[5], tax.FormatCurrency(r.EstimatedTax), rec[7])
		if r.Pass {
			passed++
		}
	}
	fmt.Fprintf(out, "\nSummary: %d/%d PINs Passed.\n", passed, len(rows))

	if verifyOut == "" {
		return nil
	}
	f, err := os.Create(verifyOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writeVerifyCSV(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", verifyOut, err)
	}
	fmt.Fprintf(out, "Verification results saved to '%s'.\n", verifyOut)
	return nil
}
