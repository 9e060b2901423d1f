// Package rates holds the neighborhood tax rate table and resolves the most
// recent rate for a neighborhood code.
package rates

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"propertytax/internal/types"
)

// ErrDuplicateRate is returned when a table would hold two entries for the same
// neighborhood and year.
var ErrDuplicateRate = errors.New("duplicate rate entry")

// Source is anything that can list the rate entries for a neighborhood.
type Source interface {
	EntriesFor(neighborhoodCode string) []types.RateEntry
}

// Table is an immutable rate table keyed by neighborhood code. Entries for a
// code are kept sorted by year ascending.
type Table struct {
	byCode map[string][]types.RateEntry
}

var _ Source = (*Table)(nil)

// NewTable builds a table from entries. Neighborhood codes are trimmed. Two
// entries for the same (code, year) are rejected with ErrDuplicateRate so that
// "most recent" is always unambiguous.
func NewTable(entries []types.RateEntry) (*Table, error) {
	t := &Table{byCode: make(map[string][]types.RateEntry)}
	seen := make(map[string]map[int]bool)
	for _, e := range entries {
		e.NeighborhoodCode = strings.TrimSpace(e.NeighborhoodCode)
		years := seen[e.NeighborhoodCode]
		if years == nil {
			years = make(map[int]bool)
			seen[e.NeighborhoodCode] = years
		}
		if years[e.Year] {
			return nil, fmt.Errorf("%w: neighborhood %s year %d", ErrDuplicateRate, e.NeighborhoodCode, e.Year)
		}
		years[e.Year] = true
		t.byCode[e.NeighborhoodCode] = append(t.byCode[e.NeighborhoodCode], e)
	}
	for _, list := range t.byCode {
		sortByYear(list)
	}
	return t, nil
}

func sortByYear(list []types.RateEntry) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Year < list[j].Year })
}

// EntriesFor returns a copy of the entries for code, oldest first. Unknown
// codes yield an empty slice.
func (t *Table) EntriesFor(code string) []types.RateEntry {
	if t == nil {
		return nil
	}
	list := t.byCode[code]
	out := make([]types.RateEntry, len(list))
	copy(out, list)
	return out
}

// Codes returns the neighborhood codes in the table, sorted.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.byCode))
	for c := range t.byCode {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the total number of entries.
func (t *Table) Len() int {
	n := 0
	for _, list := range t.byCode {
		n += len(list)
	}
	return n
}

// WithOverlay returns a new table with rates for a single year layered on top
// of t, as produced by extracting a published rate summary. An overlay entry
// replaces an existing entry for the same neighborhood and year; t is left
// unchanged.
func (t *Table) WithOverlay(year int, overlay map[string]float64) *Table {
	out := &Table{byCode: make(map[string][]types.RateEntry, len(t.byCode))}
	for code, list := range t.byCode {
		out.byCode[code] = append([]types.RateEntry(nil), list...)
	}
	for code, rate := range overlay {
		code = strings.TrimSpace(code)
		list := out.byCode[code]
		replaced := false
		for i := range list {
			if list[i].Year == year {
				list[i].Rate = rate
				replaced = true
			}
		}
		if !replaced {
			list = append(list, types.RateEntry{NeighborhoodCode: code, Year: year, Rate: rate})
			sortByYear(list)
		}
		out.byCode[code] = list
	}
	return out
}
