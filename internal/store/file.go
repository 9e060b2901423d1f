package store

import (
	"fmt"
	"sort"
	"sync"

	"propertytax/internal/dataset"
	"propertytax/internal/types"
)

// Dataset column names.
const (
	colPIN          = "PIN"
	colAddress      = "Address"
	colTownship     = "Township"
	colNeighborhood = "Neighborhood_Code"
	colMailed       = "Mailed_Tot"
	colCertified    = "Certified_Tot"
	colBoard        = "Board_Tot"
	colFactor       = "Equalization_Factor"
	colRateYear     = "Tax_Rate_Year"
	colRateValue    = "Tax_Rate_Value"
)

// LoadFile reads a |-delimited property dataset with a header row naming the
// columns PIN, Address, Township, Neighborhood_Code, Mailed_Tot,
// Certified_Tot, Board_Tot, Equalization_Factor, Tax_Rate_Year and
// Tax_Rate_Value. Blank assessment columns are absent values.
func LoadFile(path string) (*MapStore, error) {
	type numbered struct {
		line int
		rec  types.PropertyRecord
	}
	var (
		mu   sync.Mutex
		rows []numbered
	)
	err := dataset.ReadFile(path, func(l dataset.Line) error {
		rec, err := RecordFromRow(l.Record)
		if err != nil {
			return err
		}
		mu.Lock()
		rows = append(rows, numbered{line: l.Number, rec: rec})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].line < rows[j].line })
	records := make([]types.PropertyRecord, len(rows))
	for i, r := range rows {
		records[i] = r.rec
	}
	return NewMapStore(records)
}

// RecordFromRow converts one dataset row into a PropertyRecord.
func RecordFromRow(row dataset.Record) (types.PropertyRecord, error) {
	rec := types.PropertyRecord{
		PIN:              row[colPIN],
		Address:          row[colAddress],
		Township:         row[colTownship],
		NeighborhoodCode: row[colNeighborhood],
	}
	if rec.PIN == "" {
		return rec, fmt.Errorf("missing %s", colPIN)
	}

	var err error
	if rec.Mailed, err = dataset.ParseAmount(row[colMailed]); err != nil {
		return rec, fmt.Errorf("PIN %s %s: %w", rec.PIN, colMailed, err)
	}
	if rec.Certified, err = dataset.ParseAmount(row[colCertified]); err != nil {
		return rec, fmt.Errorf("PIN %s %s: %w", rec.PIN, colCertified, err)
	}
	if rec.Board, err = dataset.ParseAmount(row[colBoard]); err != nil {
		return rec, fmt.Errorf("PIN %s %s: %w", rec.PIN, colBoard, err)
	}
	if rec.EqualizationFactor, err = dataset.ParseFloat(colFactor, row[colFactor]); err != nil {
		return rec, fmt.Errorf("PIN %s: %w", rec.PIN, err)
	}
	if rec.TaxRateYear, err = dataset.ParseInt(colRateYear, row[colRateYear]); err != nil {
		return rec, fmt.Errorf("PIN %s: %w", rec.PIN, err)
	}
	if rec.TaxRateValue, err = dataset.ParseFloat(colRateValue, row[colRateValue]); err != nil {
		return rec, fmt.Errorf("PIN %s: %w", rec.PIN, err)
	}
	return rec, nil
}
