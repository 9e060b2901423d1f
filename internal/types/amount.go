package types

import (
	"encoding/json"
	"strconv"
)

// Amount is a number that may be absent. The zero value is absent, so a missing
// assessment can never be mistaken for an assessment of zero.
type Amount struct {
	value   float64
	present bool
}

// Some returns a present Amount holding v.
func Some(v float64) Amount { return Amount{value: v, present: true} }

// None returns an absent Amount.
func None() Amount { return Amount{} }

// Get returns the value and whether it is present.
func (a Amount) Get() (float64, bool) { return a.value, a.present }

// Present reports whether the amount holds a value.
func (a Amount) Present() bool { return a.present }

// Or returns the value when present, otherwise def.
func (a Amount) Or(def float64) float64 {
	if !a.present {
		return def
	}
	return a.value
}

// Equal reports whether both amounts are absent or both hold the same value.
func (a Amount) Equal(b Amount) bool {
	return a.present == b.present && a.value == b.value
}

// String renders the value, or "N/A" when absent.
func (a Amount) String() string {
	if !a.present {
		return "N/A"
	}
	return strconv.FormatFloat(a.value, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Some(v)
	return nil
}
