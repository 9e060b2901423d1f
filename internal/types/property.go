package types

// PropertyRecord holds the assessment data for a single PIN as it appears in the
// property dataset. Records are read-only once loaded; the analysis code never
// modifies them.
type PropertyRecord struct {
	PIN              string `json:"pin"`
	Address          string `json:"address"`
	Township         string `json:"township"`
	NeighborhoodCode string `json:"neighborhood_code"`

	// Assessed totals from the three ranked sources. Any of them may be missing.
	Board     Amount `json:"board_tot"`
	Certified Amount `json:"certified_tot"`
	Mailed    Amount `json:"mailed_tot"`

	EqualizationFactor float64 `json:"equalization_factor"`

	// Rate stored with the record when the dataset was built. Used only when the
	// neighborhood has no entry in the rate table.
	TaxRateYear  int     `json:"tax_rate_year"`
	TaxRateValue float64 `json:"tax_rate_value"`
}

// RateEntry is one row of the neighborhood tax rate table. Rate is a percentage
// expressed as a plain number (7.25 means 7.25%).
type RateEntry struct {
	NeighborhoodCode string  `json:"neighborhood_code"`
	Year             int     `json:"year"`
	Rate             float64 `json:"rate"`
}
