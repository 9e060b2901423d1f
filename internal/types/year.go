package types

import (
	"encoding/json"
	"strconv"
)

// Year is a tax year that may be absent.
type Year struct {
	value   int
	present bool
}

// YearOf returns a present Year.
func YearOf(y int) Year { return Year{value: y, present: true} }

// NoYear returns an absent Year.
func NoYear() Year { return Year{} }

func (y Year) Get() (int, bool) { return y.value, y.present }

func (y Year) Present() bool { return y.present }

func (y Year) Equal(o Year) bool { return y == o }

func (y Year) String() string {
	if !y.present {
		return "N/A"
	}
	return strconv.Itoa(y.value)
}

func (y Year) MarshalJSON() ([]byte, error) {
	if !y.present {
		return []byte("null"), nil
	}
	return json.Marshal(y.value)
}

func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = NoYear()
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*y = YearOf(v)
	return nil
}
