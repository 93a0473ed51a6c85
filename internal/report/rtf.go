package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
)

// Column widths, in characters, of the monospaced report lines
const (
	rtfNameWidth  = 28
	rtfValueWidth = 16
)

// RTFRenderer writes Rich Text documents readable by TextEdit and Word
type RTFRenderer struct {
	theme domain.ReportTheme
}

// Format returns "rtf"
func (r *RTFRenderer) Format() string { return FormatRTF }

// ContentType returns the RTF media type
func (r *RTFRenderer) ContentType() string { return "application/rtf" }

// RenderBudget writes a monthly or yearly budget report
func (r *RTFRenderer) RenderBudget(w io.Writer, report *domain.BudgetReport) error {
	return r.render(w, budgetDocument(report))
}

// RenderComparison writes a month-to-month comparison report
func (r *RTFRenderer) RenderComparison(w io.Writer, report *domain.ComparisonReport) error {
	return r.render(w, comparisonDocument(report))
}

func (r *RTFRenderer) render(w io.Writer, doc document) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("{\\rtf1\\ansi\\ansicpg1252\\deff0\n")
	bw.WriteString("{\\fonttbl{\\f0\\fswiss Helvetica;}{\\f1\\fmodern Courier New;}}\n")
	fmt.Fprintf(bw, "{\\colortbl;%s%s%s}\n", rtfColor(r.theme.HeaderColor), rtfColor(r.theme.SectionColor), rtfColor(r.theme.RowColor))

	fmt.Fprintf(bw, "\\pard\\qc\\f0\\fs36\\b\\cf1 %s\\cf0\\b0\\par\n", rtfEscape(doc.Title))
	fmt.Fprintf(bw, "\\pard\\qc\\fs28 %s\\par\\par\n", rtfEscape(doc.Subtitle))
	fmt.Fprintf(bw, "\\pard\\ql\\f1\\fs24\\b %s\\b0\\par\n", rtfEscape(rtfLine(doc.Columns)))

	for _, s := range doc.Sections {
		size := 28
		if s.Major {
			size = 32
		}
		fmt.Fprintf(bw, "\\pard\\f0\\fs%d\\b\\cf1\\highlight2 %s\\highlight0\\cf0\\b0\\par\n", size, rtfEscape(s.Heading))
		for i, rw := range s.Rows {
			highlight := 0
			if i%2 == 1 {
				highlight = 3
			}
			fmt.Fprintf(bw, "\\pard\\f1\\fs24\\highlight%d %s\\highlight0\\par\n", highlight, rtfEscape(rtfLine(rowCells(rw))))
		}
	}

	if len(doc.Totals) > 0 {
		bw.WriteString("\\pard\\par\n")
		for _, rw := range doc.Totals {
			fmt.Fprintf(bw, "\\pard\\f1\\fs24\\b %s\\b0\\par\n", rtfEscape(rtfLine(rowCells(rw))))
		}
	}

	bw.WriteString("}\n")
	return bw.Flush()
}

func rowCells(rw row) []string {
	cells := make([]string, 0, len(rw.Values)+2)
	cells = append(cells, rw.Label)
	for _, v := range rw.Values {
		cells = append(cells, formatAmount(v))
	}
	if rw.Trend != nil {
		cells = append(cells, rw.Trend.Symbol())
	}
	return cells
}

// rtfLine pads cells into fixed-width columns; the last cell is written as is
func rtfLine(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		switch {
		case i == len(cells)-1:
			b.WriteString(cell)
		case i == 0:
			b.WriteString(pad(cell, rtfNameWidth))
		default:
			b.WriteString(pad(cell, rtfValueWidth))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// pad truncates or right-pads s to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		runes := []rune(s)
		return string(runes[:width-1]) + " "
	}
	return s + strings.Repeat(" ", width-n)
}

func rtfColor(c domain.RGB) string {
	return fmt.Sprintf("\\red%d\\green%d\\blue%d;", c.R, c.G, c.B)
}

// rtfEscape escapes control characters and encodes non-ASCII as \uN
func rtfEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString("\\line ")
		case r < 0x80:
			b.WriteRune(r)
		case r <= 0xFFFF:
			fmt.Fprintf(&b, "\\u%d?", int16(uint16(r)))
		default:
			// Outside the BMP: write as a UTF-16 surrogate pair
			r -= 0x10000
			fmt.Fprintf(&b, "\\u%d?\\u%d?", int16(uint16(0xD800+(r>>10))), int16(uint16(0xDC00+(r&0x3FF))))
		}
	}
	return b.String()
}
