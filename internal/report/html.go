package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"propertytax/internal/analysis"
	"propertytax/internal/tax"
	"propertytax/internal/types"
)

// Title is the report heading and email subject prefix.
const Title = "Property Tax Analysis Report"

// Document is a rendered report with a plain text alternative.
type Document struct {
	Subject string
	HTML    string
	Text    string
}

// HTMLRenderer renders the emailable report.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"currency": tax.FormatCurrency,
		"percent":  tax.FormatPercent,
		"factor":   func(f float64) string { return fmt.Sprintf("%.4f", f) },
		"yesno":    yesNo,
		"join":     strings.Join,
	}
	return &HTMLRenderer{tmpl: template.Must(template.New("report").Funcs(funcs).Parse(reportHTMLTemplate))}
}

type section struct {
	analysis.Result
	Narrative string
}

type reportData struct {
	Title     string
	Session   analysis.Session
	Generated string
	Found     []section
	All       []analysis.Result
}

// Render builds the report for a session. Only found properties get a
// narrative section; the summary table lists every PIN.
func (h *HTMLRenderer) Render(s analysis.Session, results []analysis.Result) (*Document, error) {
	data := reportData{
		Title:     Title,
		Session:   s,
		Generated: s.CreatedAt.Format("Jan 2, 2006 3:04 PM MST"),
		All:       results,
	}
	for _, r := range results {
		if r.Found && r.Property != nil {
			data.Found = append(data.Found, section{Result: r, Narrative: Narrative(s, r)})
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}
	return &Document{
		Subject: fmt.Sprintf("%s - %d PIN(s) - %s", Title, len(results), s.RequestID),
		HTML:    buf.String(),
		Text:    PlainText(s, results),
	}, nil
}

// Narrative is the summary paragraph for a found result.
func Narrative(s analysis.Session, r analysis.Result) string {
	p := r.Property
	if p == nil {
		return ""
	}
	text := fmt.Sprintf(
		"The property located at %s (PINs: %s) is located in %s township and is currently assessed at %s, which equates to estimated taxes of %s.",
		p.Address, r.PIN, p.Township, tax.FormatCurrency(r.Assessment.Value), tax.FormatCurrency(r.EstimatedTax))
	if s.Options.IncomeApproach {
		text += " An income approach analysis has been flagged for this property."
	}
	return text
}

// PlainText is the email text alternative.
func PlainText(s analysis.Session, results []analysis.Result) string {
	var sb strings.Builder
	sb.WriteString(Title + "\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Request ID: %s\n", s.RequestID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.CreatedAt.Format("Jan 2, 2006 3:04 PM MST")))

	for _, r := range results {
		sb.WriteString(fmt.Sprintf("PIN %s\n", r.PIN))
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		if r.Found {
			sb.WriteString(Narrative(s, r) + "\n")
		}
		label := string(r.Assessment.Label)
		if r.Assessment.Label == types.LabelNone {
			label = "N/A"
		}
		sb.WriteString(fmt.Sprintf("Selected assessment: %s (%s)\n", tax.FormatCurrency(r.Assessment.Value), label))
		sb.WriteString(fmt.Sprintf("Tax rate: %s (%s)\n", tax.FormatPercent(r.TaxRateValue), r.TaxRateYear))
		sb.WriteString(fmt.Sprintf("Estimated taxes: %s\n", tax.FormatCurrency(r.EstimatedTax)))
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("• %s\n", w))
		}
		sb.WriteString(r.DraftLineItem + "\n\n")
	}

	sb.WriteString(fmt.Sprintf("Analyze Current Taxes: %s | Income Approach: %s\n",
		yesNo(s.Options.AnalyzeCurrentTaxes), yesNo(s.Options.IncomeApproach)))
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
