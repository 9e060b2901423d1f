// Package tax holds the estimated-tax formula and the currency formatting used
// when results are shown to people.
package tax

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"propertytax/internal/types"
)

// Compute returns (ratePercent / 100) * equalizationFactor * assessed at full
// float precision. Callers must not pass an absent assessment.
func Compute(ratePercent, equalizationFactor, assessed float64) float64 {
	return (ratePercent / 100) * equalizationFactor * assessed
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a dollar amount with thousands separators and two
// decimals, or "N/A" when absent.
func FormatCurrency(a types.Amount) string {
	v, ok := a.Get()
	if !ok {
		return "N/A"
	}
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatPercent renders a rate with four decimals, or "N/A" when absent.
func FormatPercent(a types.Amount) string {
	v, ok := a.Get()
	if !ok {
		return "N/A"
	}
	return printer.Sprintf("%.4f%%", v)
}
