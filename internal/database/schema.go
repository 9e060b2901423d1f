package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"propertytax/internal/types"
)

// EnsureSchema creates the PROPERTY_DATA and TAX_RATES tables when they do not
// exist. Oracle schemas are provisioned outside this tool, so it leaves an
// Oracle database untouched and returns nil.
func (d *Database) EnsureSchema(ctx context.Context) error {
	var text, num, year string
	switch d.config.Driver {
	case DriverOracle:
		d.log.Debug("skipping schema creation; oracle schema is managed externally")
		return nil
	case DriverPostgres:
		text, num, year = "TEXT", "DOUBLE PRECISION", "INTEGER"
	case DriverSQLite:
		text, num, year = "TEXT", "REAL", "INTEGER"
	default:
		return fmt.Errorf("%w: schema creation on %s", ErrUnsupportedDriver, d.config.Driver)
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS PROPERTY_DATA (
			PIN %[1]s PRIMARY KEY,
			Address %[1]s,
			Township %[1]s,
			Neighborhood_Code %[1]s NOT NULL,
			Mailed_Tot %[2]s,
			Certified_Tot %[2]s,
			Board_Tot %[2]s,
			Equalization_Factor %[2]s NOT NULL,
			Tax_Rate_Year %[3]s NOT NULL,
			Tax_Rate_Value %[2]s NOT NULL
		)`, text, num, year),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS TAX_RATES (
			Neighborhood_Code %[1]s NOT NULL,
			Tax_Year %[3]s NOT NULL,
			Tax_Rate %[2]s NOT NULL,
			PRIMARY KEY (Neighborhood_Code, Tax_Year)
		)`, text, num, year),
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// InsertProperties writes records in a single transaction.
func (d *Database) InsertProperties(ctx context.Context, records []types.PropertyRecord) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, rebind(d.config.Driver,
		`INSERT INTO PROPERTY_DATA (`+propertyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			r.PIN, r.Address, r.Township, r.NeighborhoodCode,
			nullable(r.Mailed), nullable(r.Certified), nullable(r.Board),
			r.EqualizationFactor, r.TaxRateYear, r.TaxRateValue)
		if err != nil {
			return fmt.Errorf("failed to insert property %s: %w", r.PIN, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit properties: %w", err)
	}
	d.log.Info("imported properties", zap.Int("count", len(records)))
	return nil
}

// InsertRates writes tax rate entries in a single transaction.
func (d *Database) InsertRates(ctx context.Context, entries []types.RateEntry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, rebind(d.config.Driver,
		`INSERT INTO TAX_RATES (Neighborhood_Code, Tax_Year, Tax_Rate) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.NeighborhoodCode, e.Year, e.Rate); err != nil {
			return fmt.Errorf("failed to insert rate %s/%d: %w", e.NeighborhoodCode, e.Year, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tax rates: %w", err)
	}
	d.log.Info("imported tax rates", zap.Int("count", len(entries)))
	return nil
}
