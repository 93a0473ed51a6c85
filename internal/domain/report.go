package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryGroup is one category and its items, in display order
type CategoryGroup[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// Grouped is the display-ready split of a collection into Income and ordered expense groups.
// Unlisted holds groups whose category is not in the canonical order; they are kept here
// so callers can see what the ordered view left out.
type Grouped[T any] struct {
	Income        []T                `json:"income"`
	ExpenseGroups []CategoryGroup[T] `json:"expenseGroups"`
	Unlisted      []CategoryGroup[T] `json:"unlisted,omitempty"`
}

// Aggregation is the grouped view of line items
type Aggregation = Grouped[LineItem]

// ComparisonGroups is the grouped view of comparison rows
type ComparisonGroups = Grouped[ComparisonRow]

// Totals sums the visible parts of an aggregation
type Totals struct {
	IncomeBudgeted  decimal.Decimal `json:"incomeBudgeted"`
	IncomeActual    decimal.Decimal `json:"incomeActual"`
	ExpenseBudgeted decimal.Decimal `json:"expenseBudgeted"`
	ExpenseActual   decimal.Decimal `json:"expenseActual"`
}

// NetBudgeted is budgeted income minus budgeted expenses
func (t Totals) NetBudgeted() decimal.Decimal {
	return t.IncomeBudgeted.Sub(t.ExpenseBudgeted)
}

// NetActual is actual income minus actual expenses
func (t Totals) NetActual() decimal.Decimal {
	return t.IncomeActual.Sub(t.ExpenseActual)
}

// VarianceTrend classifies actual against budgeted. For expenses the direction is inverted,
// so spending over budget reads as down.
func (li LineItem) VarianceTrend() Trend {
	trend := ClassifyTrend(li.BudgetedAmount, li.ActualAmount)
	if li.IsIncome() {
		return trend
	}
	return trend.Invert()
}

// ReportKind distinguishes monthly and yearly budget reports
type ReportKind string

const (
	ReportKindMonthly ReportKind = "monthly"
	ReportKindYearly  ReportKind = "yearly"
)

// BudgetReport is the input of budget-vs-actual renderers
type BudgetReport struct {
	Kind   ReportKind  `json:"kind"`
	Type   BudgetType  `json:"type"`
	Year   int         `json:"year"`
	Month  int         `json:"month,omitempty"`
	Groups Aggregation `json:"groups"`
	Totals Totals      `json:"totals"`
}

// ComparisonReport is the input of month-to-month comparison renderers
type ComparisonReport struct {
	Type     BudgetType       `json:"type"`
	Previous Period           `json:"previous"`
	Current  Period           `json:"current"`
	Rows     []ComparisonRow  `json:"rows"`
	Groups   ComparisonGroups `json:"groups"`
}

// RGB is a parsed report color
type RGB struct {
	R, G, B int
}

// ParseHexColor parses #RRGGBB
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: color %q", ErrInvalidInput, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q", ErrInvalidInput, s)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Hex formats as #RRGGBB
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ReportTheme carries the colors a renderer may use. It is passed explicitly to renderers;
// nothing else reads it.
type ReportTheme struct {
	HeaderColor  RGB
	SectionColor RGB
	RowColor     RGB
}

// DefaultReportTheme mirrors the desktop app's defaults (system blue header, pale sections)
func DefaultReportTheme() ReportTheme {
	return ReportTheme{
		HeaderColor:  RGB{R: 0x00, G: 0x7A, B: 0xFF},
		SectionColor: RGB{R: 0xE6, G: 0xF2, B: 0xFF},
		RowColor:     RGB{R: 0xF2, G: 0xF2, B: 0xF2},
	}
}
