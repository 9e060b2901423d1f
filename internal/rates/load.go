package rates

import (
	"fmt"
	"os"
	"strings"
	"sync"

	shp "github.com/jonas-p/go-shp"
	"gopkg.in/yaml.v3"

	"propertytax/internal/dataset"
	"propertytax/internal/types"
)

// Column and DBF field names used by the published rate datasets.
const (
	colCode = "Neighborhood_Code"
	colYear = "Tax_Year"
	colRate = "Tax_Rate"

	fieldCode = "NBHD_CODE"
	fieldYear = "TAX_YEAR"
	fieldRate = "TAX_RATE"
)

// LoadFile reads a |-delimited rate file with the columns
// Neighborhood_Code|Tax_Year|Tax_Rate.
func LoadFile(path string) (*Table, error) {
	var (
		mu      sync.Mutex
		entries = make(map[int]types.RateEntry)
	)
	err := dataset.ReadFile(path, func(l dataset.Line) error {
		e, err := entryFromRecord(l.Record)
		if err != nil {
			return err
		}
		mu.Lock()
		entries[l.Number] = e
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewTable(inLineOrder(entries))
}

func entryFromRecord(rec dataset.Record) (types.RateEntry, error) {
	code := rec[colCode]
	if code == "" {
		return types.RateEntry{}, fmt.Errorf("missing %s", colCode)
	}
	year, err := dataset.ParseInt(colYear, rec[colYear])
	if err != nil {
		return types.RateEntry{}, err
	}
	rate, err := dataset.ParseFloat(colRate, rec[colRate])
	if err != nil {
		return types.RateEntry{}, err
	}
	return types.RateEntry{NeighborhoodCode: code, Year: year, Rate: rate}, nil
}

// inLineOrder flattens entries collected by concurrent parse workers back into
// file order so duplicate reporting is stable.
func inLineOrder(byLine map[int]types.RateEntry) []types.RateEntry {
	maxLine := 0
	for n := range byLine {
		if n > maxLine {
			maxLine = n
		}
	}
	out := make([]types.RateEntry, 0, len(byLine))
	for n := 0; n <= maxLine; n++ {
		if e, ok := byLine[n]; ok {
			out = append(out, e)
		}
	}
	return out
}

// LoadShapefile reads rates from the attribute table of a tax-code district
// shapefile. Each shape record must carry NBHD_CODE, TAX_YEAR and TAX_RATE
// attributes; the geometry itself is ignored.
func LoadShapefile(path string) (*Table, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	idx := map[string]int{fieldCode: -1, fieldYear: -1, fieldRate: -1}
	for i, f := range r.Fields() {
		name := strings.ToUpper(strings.TrimSpace(f.String()))
		if _, ok := idx[name]; ok {
			idx[name] = i
		}
	}
	for name, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("shapefile %s: missing attribute %s", path, name)
		}
	}

	attr := func(row, field int) string {
		return strings.Trim(r.ReadAttribute(row, field), " \x00")
	}

	var entries []types.RateEntry
	for r.Next() {
		row, _ := r.Shape()
		year, err := dataset.ParseInt(fieldYear, attr(row, idx[fieldYear]))
		if err != nil {
			return nil, fmt.Errorf("shapefile %s record %d: %w", path, row, err)
		}
		rate, err := dataset.ParseFloat(fieldRate, attr(row, idx[fieldRate]))
		if err != nil {
			return nil, fmt.Errorf("shapefile %s record %d: %w", path, row, err)
		}
		entries = append(entries, types.RateEntry{
			NeighborhoodCode: attr(row, idx[fieldCode]),
			Year:             year,
			Rate:             rate,
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("shapefile %s: %w", path, err)
	}
	return NewTable(entries)
}

// Overlay is a set of rates for a single year extracted from a published rate
// summary, keyed by neighborhood code.
type Overlay struct {
	Year  int                `yaml:"year"`
	Rates map[string]float64 `yaml:"rates"`
}

// LoadOverlayFile reads an Overlay from YAML:
//
//	year: 2024
//	rates:
//	  "12345": 7.250
func LoadOverlayFile(path string) (Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, err
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overlay{}, fmt.Errorf("parse overlay %s: %w", path, err)
	}
	if o.Year <= 0 {
		return Overlay{}, fmt.Errorf("overlay %s: year is required", path)
	}
	return o, nil
}
