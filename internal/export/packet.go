// Package export writes analysis results as a job packet (CSV or JSON) and
// delivers it to a local directory or an S3 bucket.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"propertytax/internal/analysis"
	"propertytax/internal/types"
)

// Version is written into every JSON packet.
const Version = "1.0"

const notAvailable = "N/A"

// Format is a packet encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

func (f Format) contentType() string {
	if f == JSON {
		return "application/json"
	}
	return "text/csv"
}

// Value is a numeric cell that is either a number or N/A.
type Value struct {
	text string
}

func num(a types.Amount) Value {
	v, ok := a.Get()
	if !ok {
		return Value{notAvailable}
	}
	return Value{strconv.FormatFloat(v, 'f', -1, 64)}
}

func year(y types.Year) Value {
	v, ok := y.Get()
	if !ok {
		return Value{notAvailable}
	}
	return Value{strconv.Itoa(v)}
}

func (v Value) String() string {
	if v.text == "" {
		return notAvailable
	}
	return v.text
}

// MarshalJSON writes the number bare and N/A as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.String() == notAvailable {
		return json.Marshal(notAvailable)
	}
	return []byte(v.text), nil
}

// Row is one result flattened for export.
type Row struct {
	RequestID           string `json:"request_id"`
	CreatedAt           string `json:"created_at"`
	PIN                 string `json:"pin"`
	AnalyzeCurrentTaxes bool   `json:"analyze_current_taxes"`
	IncomeApproach      bool   `json:"income_approach"`
	Override            string `json:"assessment_source_override"`
	Address             string `json:"address"`
	Township            string `json:"township"`
	NeighborhoodCode    string `json:"neighborhood_code"`
	AssessmentSelected  Value  `json:"assessment_selected"`
	AssessmentType      string `json:"assessment_type_selected"`
	Board               Value  `json:"board_tot"`
	Certified           Value  `json:"certified_tot"`
	Mailed              Value  `json:"mailed_tot"`
	TaxRateYear         Value  `json:"tax_rate_year"`
	TaxRateValue        Value  `json:"tax_rate_value"`
	EqualizationFactor  Value  `json:"equalization_factor"`
	EstimatedTaxes      Value  `json:"estimated_taxes"`
	Warnings            string `json:"warnings"`
	DraftLineItem       string `json:"draft_invoice_line_item"`
	DataFound           bool   `json:"data_found"`
}

// Columns is the CSV header, in Row field order.
var Columns = []string{
	"request_id", "created_at", "pin", "analyze_current_taxes", "income_approach",
	"assessment_source_override", "address", "township", "neighborhood_code",
	"assessment_selected", "assessment_type_selected", "board_tot", "certified_tot",
	"mailed_tot", "tax_rate_year", "tax_rate_value", "equalization_factor",
	"estimated_taxes", "warnings", "draft_invoice_line_item", "data_found",
}

func (r Row) record() []string {
	return []string{
		r.RequestID, r.CreatedAt, r.PIN,
		strconv.FormatBool(r.AnalyzeCurrentTaxes), strconv.FormatBool(r.IncomeApproach),
		r.Override, r.Address, r.Township, r.NeighborhoodCode,
		r.AssessmentSelected.String(), r.AssessmentType,
		r.Board.String(), r.Certified.String(), r.Mailed.String(),
		r.TaxRateYear.String(), r.TaxRateValue.String(), r.EqualizationFactor.String(),
		r.EstimatedTaxes.String(), r.Warnings, r.DraftLineItem,
		strconv.FormatBool(r.DataFound),
	}
}

// timestamp renders t the way the packet has always carried it:
// UTC, millisecond precision.
const timestamp = "2006-01-02T15:04:05.000Z"

// BuildRows flattens results. The rate columns hold the rate the estimate was
// computed with, which is the record's own rate only after a fallback.
func BuildRows(s analysis.Session, results []analysis.Result) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		row := Row{
			RequestID:           s.RequestID,
			CreatedAt:           s.CreatedAt.UTC().Format(timestamp),
			PIN:                 r.PIN,
			AnalyzeCurrentTaxes: s.Options.AnalyzeCurrentTaxes,
			IncomeApproach:      s.Options.IncomeApproach,
			Override:            string(s.Options.Override),
			Address:             notAvailable,
			Township:            notAvailable,
			NeighborhoodCode:    notAvailable,
			AssessmentSelected:  num(r.Assessment.Value),
			AssessmentType:      string(r.Assessment.Label),
			Board:               Value{notAvailable},
			Certified:           Value{notAvailable},
			Mailed:              Value{notAvailable},
			TaxRateYear:         year(r.TaxRateYear),
			TaxRateValue:        num(r.TaxRateValue),
			EqualizationFactor:  Value{notAvailable},
			EstimatedTaxes:      num(r.EstimatedTax),
			Warnings:            strings.Join(r.Warnings, "; "),
			DraftLineItem:       r.DraftLineItem,
			DataFound:           r.Found,
		}
		if p := r.Property; p != nil {
			row.Address = p.Address
			row.Township = p.Township
			row.NeighborhoodCode = p.NeighborhoodCode
			row.Board = num(p.Board)
			row.Certified = num(p.Certified)
			row.Mailed = num(p.Mailed)
			row.EqualizationFactor = num(types.Some(p.EqualizationFactor))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes a header line followed by one line per row. Every data
// field is quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	var b strings.Builder
	b.WriteString(strings.Join(Columns, ","))
	for _, r := range rows {
		b.WriteByte('\n')
		for i, f := range r.record() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// document is the JSON packet layout.
type document struct {
	RequestID           string `json:"request_id"`
	CreatedAt           string `json:"created_at"`
	ExportVersion       string `json:"export_version"`
	AnalyzeCurrentTaxes bool   `json:"analyze_current_taxes"`
	IncomeApproach      bool   `json:"income_approach"`
	Override            string `json:"assessment_source_override"`
	Results             []Row  `json:"results"`
}

// WriteJSON writes the session header and rows as an indented JSON document.
func WriteJSON(w io.Writer, s analysis.Session, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{
		RequestID:           s.RequestID,
		CreatedAt:           s.CreatedAt.UTC().Format(timestamp),
		ExportVersion:       Version,
		AnalyzeCurrentTaxes: s.Options.AnalyzeCurrentTaxes,
		IncomeApproach:      s.Options.IncomeApproach,
		Override:            string(s.Options.Override),
		Results:             rows,
	})
}

// Packet is an encoded export ready for delivery.
type Packet struct {
	Name        string
	ContentType string
	Data        []byte
}

// Filename is job_packet_<unix millis>.<format>, stamped with the session
// creation time.
func Filename(s analysis.Session, f Format) string {
	return fmt.Sprintf("job_packet_%d.%s", s.CreatedAt.UnixMilli(), f)
}

// Build encodes results in format f.
func Build(s analysis.Session, results []analysis.Result, f Format) (Packet, error) {
	rows := BuildRows(s, results)
	var buf bytes.Buffer
	var err error
	switch f {
	case CSV:
		err = WriteCSV(&buf, rows)
	case JSON:
		err = WriteJSON(&buf, s, rows)
	default:
		err = fmt.Errorf("unknown export format %q", string(f))
	}
	if err != nil {
		return Packet{}, err
	}
	return Packet{Name: Filename(s, f), ContentType: f.contentType(), Data: buf.Bytes()}, nil
}
