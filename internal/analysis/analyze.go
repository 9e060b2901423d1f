// Package analysis turns a PIN into an estimated tax result: it looks the
// property up, picks the assessment, resolves the rate, computes the tax and
// records every data-quality warning along the way.
package analysis

import (
	"fmt"

	"propertytax/internal/assessment"
	"propertytax/internal/rates"
	"propertytax/internal/store"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

// Warning texts, in the order they are emitted.
const (
	WarnNotFound     = "No data found for this PIN in the current dataset."
	WarnNoAssessment = "No assessment value available (board, certified, and mailed assessments all missing)."
	WarnNoBoard      = "Board of Review assessment not available."
	WarnNoCertified  = "Certified assessment not available."
)

// FallbackWarning is emitted when the neighborhood has no rate table entry and
// the record's own rate is used instead.
func FallbackWarning(code string, year int) string {
	return fmt.Sprintf("No tax rate found for neighborhood %s in central lookup. Fell back to the property record rate (%d).", code, year)
}

// Result is the outcome for one requested PIN. It is built once and not
// modified afterwards; Property is nil when the PIN was not found.
type Result struct {
	PIN           string                 `json:"pin"`
	Property      *types.PropertyRecord  `json:"property"`
	Found         bool                   `json:"found"`
	Assessment    types.AssessmentResult `json:"assessment"`
	TaxRateYear   types.Year             `json:"tax_rate_year"`
	TaxRateValue  types.Amount           `json:"tax_rate_value"`
	RateFallback  bool                   `json:"rate_fallback"`
	EstimatedTax  types.Amount           `json:"estimated_tax"`
	Warnings      []string               `json:"warnings"`
	DraftLineItem string                 `json:"draft_line_item"`
}

func notFound(pin string) Result {
	return Result{
		PIN:           pin,
		Assessment:    types.NoAssessment(),
		Warnings:      []string{WarnNotFound},
		DraftLineItem: fmt.Sprintf("PIN(s) %s – Fee $___", pin),
	}
}

// Analyze evaluates a single PIN. A PIN missing from the store is a normal
// result with Found false; the only error is an invalid override.
func Analyze(pin string, s store.PropertyStore, src rates.Source, o assessment.Override) (Result, error) {
	if !o.Valid() {
		return Result{}, fmt.Errorf("%w: assessment override %q", assessment.ErrInvalidArgument, string(o))
	}
	return analyze(pin, s, src, o), nil
}

// analyze assumes o has been validated.
func analyze(pin string, s store.PropertyStore, src rates.Source, o assessment.Override) Result {
	p, ok := s.Lookup(pin)
	if !ok {
		return notFound(pin)
	}

	sel, _ := assessment.Select(p, o)

	warnings := []string{}
	year, rate := p.TaxRateYear, p.TaxRateValue
	entry, resolved := rates.Resolve(p.NeighborhoodCode, src)
	if resolved {
		year, rate = entry.Year, entry.Rate
	} else {
		warnings = append(warnings, FallbackWarning(p.NeighborhoodCode, p.TaxRateYear))
	}

	if !sel.Value.Present() {
		warnings = append(warnings, WarnNoAssessment)
	}
	if !p.Board.Present() {
		warnings = append(warnings, WarnNoBoard)
	}
	// mailed is deliberately not consulted here
	if !p.Board.Present() && !p.Certified.Present() {
		warnings = append(warnings, WarnNoCertified)
	}

	estimate := types.None()
	if v, ok := sel.Value.Get(); ok {
		estimate = types.Some(tax.Compute(rate, p.EqualizationFactor, v))
	}

	return Result{
		PIN:           pin,
		Property:      &p,
		Found:         true,
		Assessment:    sel,
		TaxRateYear:   types.YearOf(year),
		TaxRateValue:  types.Some(rate),
		RateFallback:  !resolved,
		EstimatedTax:  estimate,
		Warnings:      warnings,
		DraftLineItem: fmt.Sprintf("Property Tax Estimate – PIN(s) %s – Fee $___", pin),
	}
}

// AnalyzeBatch evaluates pins in order and returns one result per input,
// duplicates included. The override is checked before any PIN is looked up.
func AnalyzeBatch(pins []string, s store.PropertyStore, src rates.Source, o assessment.Override) ([]Result, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: assessment override %q", assessment.ErrInvalidArgument, string(o))
	}
	results := make([]Result, len(pins))
	for i, pin := range pins {
		results[i] = analyze(pin, s, src, o)
	}
	return results, nil
}
