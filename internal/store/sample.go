package store

import "propertytax/internal/types"

// SampleRecords returns the demonstration dataset.
func SampleRecords() []types.PropertyRecord {
	some, none := types.Some, types.None()
	return []types.PropertyRecord{
		{
			PIN: "12345678901234", Address: "123 Main St, Chicago, IL 60614", Township: "Lake View",
			NeighborhoodCode: "12345", Mailed: some(100000), Certified: some(110000), Board: some(120000),
			EqualizationFactor: 3.0, TaxRateYear: 2024, TaxRateValue: 7.25,
		},
		{
			PIN: "98765432109876", Address: "456 Oak Avenue, Evanston, IL 60201", Township: "Evanston",
			NeighborhoodCode: "98765", Mailed: some(250000), Certified: some(260000), Board: none,
			EqualizationFactor: 3.0, TaxRateYear: 2024, TaxRateValue: 8.10,
		},
		{
			PIN: "11223344556677", Address: "789 Elm Boulevard, Skokie, IL 60077", Township: "Niles",
			NeighborhoodCode: "55432", Mailed: some(185000), Certified: none, Board: none,
			EqualizationFactor: 2.9163, TaxRateYear: 2024, TaxRateValue: 9.50,
		},
		{
			PIN: "55667788990011", Address: "321 Maple Court, Oak Park, IL 60301", Township: "Oak Park",
			NeighborhoodCode: "33211", Mailed: some(320000), Certified: some(335000), Board: some(310000),
			EqualizationFactor: 3.0, TaxRateYear: 2023, TaxRateValue: 10.25,
		},
		{
			PIN: "44332211009988", Address: "654 Pine Street, Cicero, IL 60804", Township: "Cicero",
			NeighborhoodCode: "77654", Mailed: some(95000), Certified: some(98000), Board: some(92000),
			EqualizationFactor: 2.9163, TaxRateYear: 2024, TaxRateValue: 11.75,
		},
		{
			PIN: "22334455667788", Address: "987 Willow Way, Berwyn, IL 60402", Township: "Berwyn",
			NeighborhoodCode: "22876", Mailed: none, Certified: none, Board: none,
			EqualizationFactor: 3.0, TaxRateYear: 2024, TaxRateValue: 8.75,
		},
	}
}

// Sample returns the demonstration dataset as a store.
func Sample() *MapStore {
	s, err := NewMapStore(SampleRecords())
	if err != nil {
		panic(err)
	}
	return s
}
