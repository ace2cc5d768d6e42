package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// FileNameLayout stamps export file names
const FileNameLayout = "02-01-2006_15-04"

// FileName returns the download name for an export made at now
func FileName(now time.Time, ext string) string {
	return "leads_" + now.Format(FileNameLayout) + "." + ext
}

// WriteCSV writes the header row followed by one row per lead
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// PDF layout, in millimetres on A4 portrait
const (
	pdfMargin     = 14.0
	pdfPageWidth  = 210.0
	pdfRowHeight  = 6.0
	pdfTableStart = 40.0
)

// header fill is the brand navy
var pdfHeaderFill = [3]int{2, 39, 54}

// WritePDF renders the "Leads Report" document
func WritePDF(w io.Writer, t *Table, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Leads Report", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetMargins(pdfMargin, pdfTableStart, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	colWidth := (pdfPageWidth - 2*pdfMargin) / float64(len(t.Headers))
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(pdfHeaderFill[0], pdfHeaderFill[1], pdfHeaderFill[2])
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Headers {
			pdf.CellFormat(colWidth, pdfRowHeight+1, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 20)
	pdf.Text(pdfMargin, 15, "Leads Report")
	pdf.SetFontSize(10)
	pdf.Text(pdfMargin, 25, "Generated at: "+generatedAt.Format(TimestampLayout))
	pdf.Text(pdfMargin, 30, "Total leads: "+strconv.Itoa(len(t.Rows)))

	pdf.SetXY(pdfMargin, pdfTableStart)
	drawHeader()
	// repeat the table header on every following page
	pdf.SetHeaderFunc(drawHeader)

	for _, row := range t.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, pdfRowHeight, fit(pdf, tr(cell), colWidth-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// fit truncates s with an ellipsis so it renders within width
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s + "..."
}
