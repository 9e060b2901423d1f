package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertytax/internal/analysis"
	"propertytax/internal/assessment"
	"propertytax/internal/rates"
	"propertytax/internal/store"
)

func fixture(t *testing.T, opts analysis.Options) (analysis.Session, []analysis.Result) {
	t.Helper()
	s := analysis.Session{
		RequestID: "REQ-42",
		CreatedAt: time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC),
		Options:   opts,
	}
	res, err := analysis.AnalyzeBatch(
		[]string{"12345678901234", "00000000000000", "22334455667788"},
		store.Sample(), rates.Sample(), assessment.Auto)
	require.NoError(t, err)
	return s, res
}

func TestTextReport(t *testing.T) {
	s, res := fixture(t, analysis.Options{IncomeApproach: true})
	var buf bytes.Buffer
	require.NoError(t, NewText(&buf).Write(s, res))
	out := buf.String()

	assert.Contains(t, out, "PIN 12345678901234 (found)")
	assert.Contains(t, out, "$26,100.00")
	assert.Contains(t, out, "$120,000.00 (Board)")
	assert.Contains(t, out, "7.2500%")
	assert.Contains(t, out, "PIN 00000000000000 (not found)")
	assert.Contains(t, out, "! "+analysis.WarnNotFound)
	assert.Contains(t, out, "PIN(s) 00000000000000 – Fee $___")
	assert.Contains(t, out, "2 of 3 PINs found. Request ID: REQ-42")
	assert.Equal(t, 2, strings.Count(out, IncomeApproachNote))
}

func TestTextReportMarksMissingValues(t *testing.T) {
	s, res := fixture(t, analysis.Options{})
	out := NewText(&bytes.Buffer{}).Result(s, res[2])

	assert.Contains(t, out, "Estimated Taxes:")
	assert.NotContains(t, out, "$0.00")
	assert.GreaterOrEqual(t, strings.Count(out, "N/A"), 4)
	assert.NotContains(t, out, IncomeApproachNote)
}

func TestHTMLReport(t *testing.T) {
	s, res := fixture(t, analysis.Options{IncomeApproach: true, AnalyzeCurrentTaxes: true})
	doc, err := NewHTMLRenderer().Render(s, res)
	require.NoError(t, err)

	assert.Equal(t, "Property Tax Analysis Report - 3 PIN(s) - REQ-42", doc.Subject)
	assert.Contains(t, doc.HTML, "<h2>123 Main St, Chicago, IL 60614</h2>")
	assert.Contains(t, doc.HTML, "Lake View township")
	assert.Contains(t, doc.HTML, "An income approach analysis has been flagged for this property.")
	assert.Contains(t, doc.HTML, "Analyze Current Taxes: Yes")
	// the missing PIN only shows in the summary table
	assert.Equal(t, 1, strings.Count(doc.HTML, "<code>00000000000000</code>"))
	assert.Equal(t, 2, strings.Count(doc.HTML, "<code>12345678901234</code>"))
	assert.Contains(t, doc.HTML, `class="missing"`)

	assert.Contains(t, doc.Text, "Request ID: REQ-42")
	assert.Contains(t, doc.Text, "Selected assessment: N/A (N/A)")
	assert.Contains(t, doc.Text, "• "+analysis.WarnNoBoard)
}

func TestHTMLEscapesData(t *testing.T) {
	s, res := fixture(t, analysis.Options{})
	p := *res[0].Property
	p.Address = `<script>alert("x")</script>`
	res[0].Property = &p

	doc, err := NewHTMLRenderer().Render(s, res[:1])
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "<script>")
	assert.Contains(t, doc.HTML, "&lt;script&gt;")
}

func TestNarrative(t *testing.T) {
	s, res := fixture(t, analysis.Options{})
	assert.Equal(t,
		"The property located at 123 Main St, Chicago, IL 60614 (PINs: 12345678901234) is located in Lake View township and is currently assessed at $120,000.00, which equates to estimated taxes of $26,100.00.",
		Narrative(s, res[0]))
	assert.Empty(t, Narrative(s, res[1]))
}
