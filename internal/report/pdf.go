package report

import (
	"io"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/go-pdf/fpdf"
)

// Column widths in millimetres; A4 portrait leaves 190mm between margins
const (
	pdfNameWidth  = 70.0
	pdfTrendWidth = 20.0
	pdfRowHeight  = 7.0
)

// PDFRenderer writes A4 PDF documents with the core Helvetica font
type PDFRenderer struct {
	theme domain.ReportTheme
}

// Format returns "pdf"
func (r *PDFRenderer) Format() string { return FormatPDF }

// ContentType returns the PDF media type
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// RenderBudget writes a monthly or yearly budget report
func (r *PDFRenderer) RenderBudget(w io.Writer, report *domain.BudgetReport) error {
	return r.render(w, budgetDocument(report))
}

// RenderComparison writes a month-to-month comparison report
func (r *PDFRenderer) RenderComparison(w io.Writer, report *domain.ComparisonReport) error {
	return r.render(w, comparisonDocument(report))
}

func (r *PDFRenderer) render(w io.Writer, doc document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	valueCols := len(doc.Columns) - 2
	valueWidth := (usable - pdfNameWidth - pdfTrendWidth) / float64(valueCols)

	header := r.theme.HeaderColor
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(header.R, header.G, header.B)
	pdf.CellFormat(usable, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(usable, 8, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(header.R, header.G, header.B)
	pdf.SetTextColor(255, 255, 255)
	for i, name := range doc.Columns {
		width, align := valueWidth, "R"
		switch i {
		case 0:
			width, align = pdfNameWidth, "L"
		case len(doc.Columns) - 1:
			width, align = pdfTrendWidth, "C"
		}
		pdf.CellFormat(width, pdfRowHeight, tr(name), "", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)

	writeRow := func(rw row, fill bool) {
		pdf.CellFormat(pdfNameWidth, pdfRowHeight, tr(rw.Label), "", 0, "L", fill, 0, "")
		for _, v := range rw.Values {
			pdf.CellFormat(valueWidth, pdfRowHeight, formatAmount(v), "", 0, "R", fill, 0, "")
		}
		trend := ""
		if rw.Trend != nil {
			// Helvetica has no arrow glyphs
			trend = string(*rw.Trend)
		}
		pdf.CellFormat(pdfTrendWidth, pdfRowHeight, trend, "", 1, "C", fill, 0, "")
	}

	section, stripe := r.theme.SectionColor, r.theme.RowColor
	for _, s := range doc.Sections {
		size := 11.0
		if s.Major {
			size = 12
		}
		pdf.SetFont("Helvetica", "B", size)
		pdf.SetFillColor(section.R, section.G, section.B)
		pdf.CellFormat(usable, pdfRowHeight+1, tr(s.Heading), "", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetFillColor(stripe.R, stripe.G, stripe.B)
		for i, rw := range s.Rows {
			writeRow(rw, i%2 == 1)
		}
	}

	if len(doc.Totals) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 10)
		for _, rw := range doc.Totals {
			writeRow(rw, false)
		}
	}

	return pdf.Output(w)
}
