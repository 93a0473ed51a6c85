package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeCategoryName is the distinguished category that is never subject to the expense order.
const IncomeCategoryName = "Income"

// UnknownLabel fills a name or category that neither side of a comparison can supply
const UnknownLabel = "Unknown"

// canonicalCategoryOrder is the fixed display order of expense categories
var canonicalCategoryOrder = [...]string{
	"Housing",
	"Transportation",
	"Insurance",
	"Food",
	"Children",
	"Legal",
	"Savings/Investments",
	"Loans",
	"Entertainment",
	"Taxes",
	"Personal Care",
	"Pets",
	"Gifts and Donations",
}

// CanonicalCategoryOrder returns a copy of the expense category order.
func CanonicalCategoryOrder() []string {
	out := make([]string, len(canonicalCategoryOrder))
	copy(out, canonicalCategoryOrder[:])
	return out
}

// IsCanonicalExpenseCategory reports whether name (case-sensitive) is in the expense order
func IsCanonicalExpenseCategory(name string) bool {
	for _, c := range canonicalCategoryOrder {
		if c == name {
			return true
		}
	}
	return false
}

// IsIncomeCategory compares against "Income" case-insensitively. Surrounding whitespace is not
// ignored, so " Income" is an ordinary (unlisted) category.
func IsIncomeCategory(name string) bool {
	return strings.EqualFold(name, IncomeCategoryName)
}

// LineItem is one budgeted/actual entry in the flat representation of a snapshot
type LineItem struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	CategoryName   string          `json:"categoryName"`
	BudgetedAmount decimal.Decimal `json:"budgetedAmount"`
	ActualAmount   decimal.Decimal `json:"actualAmount"`
}

// IsIncome reports whether the item belongs to the Income category
func (li LineItem) IsIncome() bool {
	return IsIncomeCategory(li.CategoryName)
}
