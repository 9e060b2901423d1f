// Package report renders analysis results for people: a terminal summary and
// an HTML report suitable for email.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"propertytax/internal/analysis"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

// IncomeApproachNote is shown for found properties when income analysis was
// requested.
const IncomeApproachNote = "Income approach analysis flagged for this property. Full capitalization analysis available in extended report."

// Text writes terminal output. Colors are used only when w is a terminal.
type Text struct {
	w       io.Writer
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warn    lipgloss.Style
	missing lipgloss.Style
}

func NewText(w io.Writer) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A")),
		label:   r.NewStyle().Faint(true),
		value:   r.NewStyle().Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		missing: r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
	}
}

func (t *Text) field(b *strings.Builder, name, v string) {
	style := t.value
	if v == "N/A" {
		style = t.missing
	}
	fmt.Fprintf(b, "  %s %s\n", t.label.Render(fmt.Sprintf("%-22s", name+":")), style.Render(v))
}

// Result renders a single result.
func (t *Text) Result(s analysis.Session, r analysis.Result) string {
	var b strings.Builder
	status := "found"
	if !r.Found {
		status = "not found"
	}
	fmt.Fprintf(&b, "%s (%s)\n", t.heading.Render("PIN "+r.PIN), status)

	if p := r.Property; p != nil {
		t.field(&b, "Address", p.Address)
		t.field(&b, "Township", p.Township)
		t.field(&b, "Neighborhood Code", p.NeighborhoodCode)
		t.field(&b, "Board Assessment", tax.FormatCurrency(p.Board))
		t.field(&b, "Certified Assessment", tax.FormatCurrency(p.Certified))
		t.field(&b, "Mailed Assessment", tax.FormatCurrency(p.Mailed))
		t.field(&b, "Equalization Factor", fmt.Sprintf("%.4f", p.EqualizationFactor))
	}
	selected := tax.FormatCurrency(r.Assessment.Value)
	if r.Assessment.Label != types.LabelNone {
		selected += " (" + string(r.Assessment.Label) + ")"
	}
	t.field(&b, "Selected Assessment", selected)
	t.field(&b, "Tax Rate Year", r.TaxRateYear.String())
	t.field(&b, "Tax Rate", tax.FormatPercent(r.TaxRateValue))
	t.field(&b, "Estimated Taxes", tax.FormatCurrency(r.EstimatedTax))

	if r.Found && s.Options.IncomeApproach {
		fmt.Fprintf(&b, "  %s %s\n", t.label.Render("Income Approach: Noted."), IncomeApproachNote)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  %s\n", t.warn.Render("! "+w))
	}
	fmt.Fprintf(&b, "  %s %s\n", t.label.Render("Draft line item:"), r.DraftLineItem)
	return b.String()
}

// Write renders every result followed by a one-line summary.
func (t *Text) Write(s analysis.Session, results []analysis.Result) error {
	var found int
	for i, r := range results {
		if i > 0 {
			if _, err := io.WriteString(t.w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(t.w, t.Result(s, r)); err != nil {
			return err
		}
		if r.Found {
			found++
		}
	}
	_, err := fmt.Fprintf(t.w, "\n%d of %d PINs found. Request ID: %s\n", found, len(results), s.RequestID)
	return err
}
