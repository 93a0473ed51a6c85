package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Report"

// XLSXRenderer writes Excel workbooks with one "Report" sheet
type XLSXRenderer struct {
	theme domain.ReportTheme
}

// Format returns "xlsx"
func (r *XLSXRenderer) Format() string { return FormatXLSX }

// ContentType returns the OOXML spreadsheet media type
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// RenderBudget writes a monthly or yearly budget report
func (r *XLSXRenderer) RenderBudget(w io.Writer, report *domain.BudgetReport) error {
	return r.render(w, budgetDocument(report))
}

// RenderComparison writes a month-to-month comparison report
func (r *XLSXRenderer) RenderComparison(w io.Writer, report *domain.ComparisonReport) error {
	return r.render(w, comparisonDocument(report))
}

type xlsxStyles struct {
	title, header, section, amount, stripe, total int
}

func (r *XLSXRenderer) styles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	hex := func(c domain.RGB) string { return strings.TrimPrefix(c.Hex(), "#") }

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: hex(r.theme.HeaderColor)},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(r.theme.HeaderColor)}},
	}); err != nil {
		return s, err
	}
	if s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(r.theme.SectionColor)}},
	}); err != nil {
		return s, err
	}
	if s.amount, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return s, err
	}
	if s.stripe, err = f.NewStyle(&excelize.Style{
		NumFmt: 4,
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex(r.theme.RowColor)}},
	}); err != nil {
		return s, err
	}
	s.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})
	return s, err
}

func (r *XLSXRenderer) render(w io.Writer, doc document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}
	styles, err := r.styles(f)
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(doc.Columns))
	if err != nil {
		return err
	}

	line := 1
	set := func(col int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, line)
		if err != nil {
			return err
		}
		return f.SetCellValue(xlsxSheet, cell, value)
	}
	styleLine := func(style int) error {
		return f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", line), fmt.Sprintf("%s%d", lastCol, line), style)
	}
	writeRow := func(rw row, style int) error {
		if err := set(1, rw.Label); err != nil {
			return err
		}
		for i, v := range rw.Values {
			if err := set(i+2, v.InexactFloat64()); err != nil {
				return err
			}
		}
		if rw.Trend != nil {
			if err := set(len(rw.Values)+2, rw.Trend.Symbol()); err != nil {
				return err
			}
		}
		return styleLine(style)
	}

	if err := set(1, doc.Title); err != nil {
		return err
	}
	if err := f.MergeCell(xlsxSheet, "A1", fmt.Sprintf("%s1", lastCol)); err != nil {
		return err
	}
	if err := styleLine(styles.title); err != nil {
		return err
	}
	line++
	if err := set(1, doc.Subtitle); err != nil {
		return err
	}
	line += 2

	for i, name := range doc.Columns {
		if err := set(i+1, name); err != nil {
			return err
		}
	}
	if err := styleLine(styles.header); err != nil {
		return err
	}
	line++

	for _, s := range doc.Sections {
		if err := set(1, s.Heading); err != nil {
			return err
		}
		if err := styleLine(styles.section); err != nil {
			return err
		}
		line++
		for i, rw := range s.Rows {
			style := styles.amount
			if i%2 == 1 {
				style = styles.stripe
			}
			if err := writeRow(rw, style); err != nil {
				return err
			}
			line++
		}
	}

	if len(doc.Totals) > 0 {
		line++
		for _, rw := range doc.Totals {
			if err := writeRow(rw, styles.total); err != nil {
				return err
			}
			line++
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 30); err != nil {
		return err
	}
	if len(doc.Columns) > 1 {
		if err := f.SetColWidth(xlsxSheet, "B", lastCol, 16); err != nil {
			return err
		}
	}

	return f.Write(w)
}
