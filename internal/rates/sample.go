package rates

import "propertytax/internal/types"

// Sample returns the demonstration rate table that ships with the sample
// property dataset.
func Sample() *Table {
	t, err := NewTable([]types.RateEntry{
		{NeighborhoodCode: "12345", Year: 2022, Rate: 6.95},
		{NeighborhoodCode: "12345", Year: 2023, Rate: 7.10},
		{NeighborhoodCode: "12345", Year: 2024, Rate: 7.25},
		{NeighborhoodCode: "98765", Year: 2023, Rate: 7.95},
		{NeighborhoodCode: "98765", Year: 2024, Rate: 8.10},
		{NeighborhoodCode: "55432", Year: 2024, Rate: 9.50},
		{NeighborhoodCode: "33211", Year: 2022, Rate: 9.80},
		{NeighborhoodCode: "33211", Year: 2023, Rate: 10.25},
		{NeighborhoodCode: "77654", Year: 2024, Rate: 11.75},
		{NeighborhoodCode: "22876", Year: 2024, Rate: 8.75},
	})
	if err != nil {
		panic(err)
	}
	return t
}
