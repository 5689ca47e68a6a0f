package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/technoapex/timesheet-pro/internal"
	"github.com/technoapex/timesheet-pro/internal/timesheet"
)

const (
	pageLeftMargin  = 12.0
	pageTopMargin   = 12.0
	pageRightMargin = 12.0

	colDayWidth   = 28.0
	colDateWidth  = 28.0
	colHoursWidth = 20.0
	colDescWidth  = 110.0

	rowHeight = 7.0

	// Descriptions longer than this are cut to maxDescriptionLen-3 runes
	// plus an ellipsis marker.
	maxDescriptionLen = 60

	// The weekly summary divides by a fixed 7 regardless of how many days
	// actually carry entries. Kept as-is from the original report.
	averageDivisor = 7.0
)

// Config carries the static identity rendered into every document.
type Config struct {
	CompanyName string
	FilePrefix  string
}

// Renderer produces an A4 PDF for a timesheet record. Output is
// deterministic for a given record and clock; the generation timestamp in
// the footer is the only time-dependent element.
type Renderer struct {
	cfg Config

	// Now is the clock used for the footer timestamp and document
	// metadata. Overridable in tests.
	Now func() time.Time
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		cfg: cfg,
		Now: time.Now,
	}
}

// Filename returns the attachment name for a record, e.g. Claris-TS-010625.pdf.
func (r *Renderer) Filename(t *timesheet.Timesheet) string {
	return fmt.Sprintf("%s-%s.pdf", r.cfg.FilePrefix, t.WeekStart.Format("010206"))
}

// Render serializes the record into PDF bytes. Entries with unparseable
// dates are rendered with an N/A day label rather than failing the whole
// document.
func (r *Renderer) Render(t *timesheet.Timesheet) ([]byte, error) {
	generated := r.Now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generated)
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageRightMargin)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6,
			fmt.Sprintf("Generated %s", generated.Format("2006-01-02 15:04")),
			"", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	r.writeHeader(pdf, t)
	r.writeTable(pdf, t)
	r.writeSummary(pdf, t)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, internal.NewRenderError("failed to serialize timesheet document", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeHeader(pdf *gofpdf.Fpdf, t *timesheet.Timesheet) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(120, 9, r.cfg.CompanyName, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, "Timesheet", "", 1, "R", false, 0, "")
	pdf.Ln(2)

	meta := [][2]string{
		{"Customer", t.Client},
		{"Manager", t.Manager},
	}
	if t.OwnerEmail != "" {
		meta = append(meta, [2]string{"Consultant", t.OwnerEmail})
	}
	meta = append(meta,
		[2]string{"Week", fmt.Sprintf("%s to %s",
			t.WeekStart.Format(time.DateOnly), t.WeekEnd.Format(time.DateOnly))},
		[2]string{"Total Hours", fmt.Sprintf("%.2f", t.TotalHours)},
	)

	for _, kv := range meta {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(28, 6, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *Renderer) writeTable(pdf *gofpdf.Fpdf, t *timesheet.Timesheet) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colDayWidth, rowHeight, "Day", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colDateWidth, rowHeight, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colHoursWidth, rowHeight, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colDescWidth, rowHeight, "Description", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, e := range t.Entries {
		day, date := dayAndDate(e.Date)
		pdf.CellFormat(colDayWidth, rowHeight, day, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colDateWidth, rowHeight, date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colHoursWidth, rowHeight, formatHours(e.Hours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colDescWidth, rowHeight, truncateDescription(e.Description), "1", 1, "L", false, 0, "")
	}

	// Total precision differs from the header on purpose: the original
	// report printed one decimal here and two above.
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colDayWidth+colDateWidth, rowHeight, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colHoursWidth, rowHeight, fmt.Sprintf("%.1f", t.TotalHours), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colDescWidth, rowHeight, "", "1", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *Renderer) writeSummary(pdf *gofpdf.Fpdf, t *timesheet.Timesheet) {
	worked := 0
	for _, e := range t.Entries {
		if e.Hours > 0 {
			worked++
		}
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Days worked: %d", worked), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total hours: %.2f", t.TotalHours), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Average hours/day: %.2f", t.TotalHours/averageDivisor), "", 1, "L", false, 0, "")
}

// dayAndDate derives the weekday label and display date for an entry.
// Unparseable dates degrade to an N/A label with the raw value shown.
func dayAndDate(value string) (day string, date string) {
	d, err := timesheet.ParseEntryDate(value)
	if err != nil {
		if value == "" {
			value = "N/A"
		}
		return "N/A", value
	}
	return d.Weekday().String(), d.Format(time.DateOnly)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionLen {
		return s
	}
	return string(runes[:maxDescriptionLen-3]) + "..."
}
