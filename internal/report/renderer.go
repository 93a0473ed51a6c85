// Package report renders budget and comparison reports as downloadable documents.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported formats
const (
	FormatRTF  = "rtf"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Renderer writes a report document in one format
type Renderer interface {
	Format() string
	ContentType() string
	RenderBudget(w io.Writer, report *domain.BudgetReport) error
	RenderComparison(w io.Writer, report *domain.ComparisonReport) error
}

// Formats lists the document formats Lookup accepts
func Formats() []string {
	return []string{FormatRTF, FormatXLSX, FormatPDF}
}

// Lookup returns the renderer for format, styled with theme
func Lookup(format string, theme domain.ReportTheme) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatRTF:
		return &RTFRenderer{theme: theme}, nil
	case FormatXLSX:
		return &XLSXRenderer{theme: theme}, nil
	case FormatPDF:
		return &PDFRenderer{theme: theme}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// BudgetFilename names a budget report download, e.g. 03-2025-report.pdf or 2025-family-budget-report.xlsx
func BudgetFilename(report *domain.BudgetReport, format string) string {
	if report.Kind == domain.ReportKindYearly {
		return fmt.Sprintf("%04d-%s-budget-report.%s", report.Year, report.Type, format)
	}
	return fmt.Sprintf("%02d-%04d-report.%s", report.Month, report.Year, format)
}

// ComparisonFilename names a comparison download after its current month, e.g. 03-2025-comparison.rtf
func ComparisonFilename(report *domain.ComparisonReport, format string) string {
	return fmt.Sprintf("%02d-%04d-comparison.%s", report.Current.Month, report.Current.Year, format)
}

var titleCaser = cases.Title(language.English)

// document is the format-neutral layout shared by all renderers
type document struct {
	Title    string
	Subtitle string
	Columns  []string
	Sections []section
	Totals   []row
}

type section struct {
	Heading string
	Major   bool
	Rows    []row
}

type row struct {
	Label  string
	Values []decimal.Decimal
	Trend  *domain.Trend
}

func budgetDocument(r *domain.BudgetReport) document {
	doc := document{
		Title:   fmt.Sprintf("Budget Report for %s", titleCaser.String(r.Type.String())),
		Columns: []string{"Name", "Budgeted", "Actual", "Difference", "Trend"},
	}
	if r.Kind == domain.ReportKindYearly {
		doc.Subtitle = fmt.Sprintf("Year %04d", r.Year)
	} else {
		doc.Subtitle = fmt.Sprintf("%s %04d", domain.Period{Year: r.Year, Month: r.Month}.MonthName(), r.Year)
	}

	budgetRow := func(item domain.LineItem) row {
		trend := item.VarianceTrend()
		return row{
			Label:  item.Name,
			Values: []decimal.Decimal{item.BudgetedAmount, item.ActualAmount, item.ActualAmount.Sub(item.BudgetedAmount)},
			Trend:  &trend,
		}
	}

	if len(r.Groups.Income) > 0 {
		income := section{Heading: domain.IncomeCategoryName, Major: true}
		for _, item := range r.Groups.Income {
			income.Rows = append(income.Rows, budgetRow(item))
		}
		doc.Sections = append(doc.Sections, income)
	}
	doc.Sections = append(doc.Sections, section{Heading: "Expenses", Major: true})
	for _, group := range r.Groups.ExpenseGroups {
		s := section{Heading: group.Category}
		for _, item := range group.Items {
			s.Rows = append(s.Rows, budgetRow(item))
		}
		doc.Sections = append(doc.Sections, s)
	}

	t := r.Totals
	doc.Totals = []row{
		{Label: "Total Income", Values: []decimal.Decimal{t.IncomeBudgeted, t.IncomeActual, t.IncomeActual.Sub(t.IncomeBudgeted)}},
		{Label: "Total Expenses", Values: []decimal.Decimal{t.ExpenseBudgeted, t.ExpenseActual, t.ExpenseActual.Sub(t.ExpenseBudgeted)}},
		{Label: "Net", Values: []decimal.Decimal{t.NetBudgeted(), t.NetActual(), t.NetActual().Sub(t.NetBudgeted())}},
	}
	return doc
}

func comparisonDocument(r *domain.ComparisonReport) document {
	doc := document{
		Title:    fmt.Sprintf("%s Monthly Comparison Report", titleCaser.String(r.Type.String())),
		Subtitle: fmt.Sprintf("Month: %02d    Year: %04d", r.Current.Month, r.Current.Year),
		Columns: []string{
			"Name",
			periodLabel(r.Previous),
			periodLabel(r.Current),
			"Trend",
		},
	}

	comparisonRow := func(c domain.ComparisonRow) row {
		trend := c.Trend
		return row{
			Label:  c.Name,
			Values: []decimal.Decimal{c.PreviousActual, c.CurrentActual},
			Trend:  &trend,
		}
	}

	if len(r.Groups.Income) > 0 {
		income := section{Heading: domain.IncomeCategoryName, Major: true}
		for _, c := range r.Groups.Income {
			income.Rows = append(income.Rows, comparisonRow(c))
		}
		doc.Sections = append(doc.Sections, income)
	}
	doc.Sections = append(doc.Sections, section{Heading: "Expenses", Major: true})
	for _, group := range r.Groups.ExpenseGroups {
		s := section{Heading: group.Category}
		for _, c := range group.Items {
			s.Rows = append(s.Rows, comparisonRow(c))
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func periodLabel(p domain.Period) string {
	return fmt.Sprintf("%s %04d", p.MonthName(), p.Year)
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
