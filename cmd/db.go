package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"propertytax/internal/config"
	"propertytax/internal/database"
	"propertytax/internal/pin"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

var importFrom string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Work with the property database",
	Long: `Commands for the database named by source.driver (oracle, postgres or
sqlite) and the database section of the config.`,
}

var dbImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the sample or file dataset into the database",
	Long: `Creates PROPERTY_DATA and TAX_RATES if needed (postgres and sqlite only) and
inserts every property and rate from --from: the built-in sample dataset or the
files named by source.property_file and source.rate_file.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runDBImport,
}

var dbLookupCmd = &cobra.Command{
	Use:   "lookup PIN",
	Short: "Show the stored record for a PIN",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runDBLookup,
}

func init() {
	dbImportCmd.Flags().StringVar(&importFrom, "from", config.SourceSample, "Dataset to import: sample or file")
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbLookupCmd)
}

func requireDatabase() error {
	if !cfg.UsesDatabase() {
		return fmt.Errorf("%w: source.driver must be oracle, postgres or sqlite, got %q", config.ErrInvalidConfig, cfg.Source.Driver)
	}
	return nil
}

func runDBImport(cmd *cobra.Command, args []string) error {
	if err := requireDatabase(); err != nil {
		return err
	}
	if importFrom != config.SourceSample && importFrom != config.SourceFile {
		return usagef("--from must be sample or file, got %q", importFrom)
	}
	ctx := commandContext(cmd)

	src := cfg
	src.Source.Driver = importFrom
	if err := src.Validate(); err != nil {
		return err
	}
	props, table, err := loadSources(ctx, src, logger)
	if err != nil {
		return err
	}

	records := make([]types.PropertyRecord, 0, props.Len())
	for _, p := range props.PINs() {
		rec, _ := props.Lookup(p)
		records = append(records, rec)
	}
	var entries []types.RateEntry
	for _, code := range table.Codes() {
		entries = append(entries, table.EntriesFor(code)...)
	}

	db, err := database.NewDatabase(ctx, cfg.DBConfig(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := db.InsertProperties(ctx, records); err != nil {
		return err
	}
	if err := db.InsertRates(ctx, entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d properties and %d rates into %s\n", len(records), len(entries), cfg.Source.Driver)
	return nil
}

func runDBLookup(cmd *cobra.Command, args []string) error {
	if err := requireDatabase(); err != nil {
		return err
	}
	p, err := pin.Validate(args[0])
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	db, err := database.NewDatabase(ctx, cfg.DBConfig(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.QueryPropertyByPIN(ctx, p)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if rec == nil {
		fmt.Fprintf(out, "No property found for PIN %s\n", p)
		return nil
	}
	fmt.Fprintf(out, "PIN               : %s\n", rec.PIN)
	fmt.Fprintf(out, "Address           : %s\n", rec.Address)
	fmt.Fprintf(out, "Township          : %s\n", rec.Township)
	fmt.Fprintf(out, "Neighborhood      : %s\n", rec.NeighborhoodCode)
	fmt.Fprintf(out, "Board             : %s\n", tax.FormatCurrency(rec.Board))
	fmt.Fprintf(out, "Certified         : %s\n", tax.FormatCurrency(rec.Certified))
	fmt.Fprintf(out, "Mailed            : %s\n", tax.FormatCurrency(rec.Mailed))
	fmt.Fprintf(out, "Equalization      : %.4f\n", rec.EqualizationFactor)
	fmt.Fprintf(out, "Record Tax Rate   : %d @ %s\n", rec.TaxRateYear, tax.FormatPercent(types.Some(rec.TaxRateValue)))
	return nil
}
