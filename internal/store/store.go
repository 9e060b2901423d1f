// Package store provides the read-only PIN → property lookup the analysis runs
// against. Every loader produces an in-memory snapshot so that a batch always
// sees a stable view of the data.
package store

import (
	"errors"
	"fmt"
	"sort"

	"propertytax/internal/types"
)

// ErrDuplicatePIN is returned when a dataset holds two records for one PIN.
var ErrDuplicatePIN = errors.New("duplicate PIN")

// PropertyStore looks up a property record by PIN.
type PropertyStore interface {
	Lookup(pin string) (types.PropertyRecord, bool)
}

// MapStore is an immutable PropertyStore backed by a map.
type MapStore struct {
	byPIN map[string]types.PropertyRecord
}

var _ PropertyStore = (*MapStore)(nil)

// NewMapStore indexes records by PIN. Duplicate PINs are rejected.
func NewMapStore(records []types.PropertyRecord) (*MapStore, error) {
	m := &MapStore{byPIN: make(map[string]types.PropertyRecord, len(records))}
	for _, r := range records {
		if _, dup := m.byPIN[r.PIN]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePIN, r.PIN)
		}
		m.byPIN[r.PIN] = r
	}
	return m, nil
}

// Lookup returns the record for pin.
func (m *MapStore) Lookup(pin string) (types.PropertyRecord, bool) {
	if m == nil {
		return types.PropertyRecord{}, false
	}
	r, ok := m.byPIN[pin]
	return r, ok
}

// Len returns the number of records.
func (m *MapStore) Len() int { return len(m.byPIN) }

// PINs returns every PIN in the store, sorted.
func (m *MapStore) PINs() []string {
	pins := make([]string, 0, len(m.byPIN))
	for p := range m.byPIN {
		pins = append(pins, p)
	}
	sort.Strings(pins)
	return pins
}
