package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetItem is a planned amount inside a budget category template
type BudgetItem struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetCategory is the setup-time template persisted per year and budget type
type BudgetCategory struct {
	ID    uuid.UUID    `json:"id"`
	Name  string       `json:"name"`
	Items []BudgetItem `json:"items"`
}

// IsIncome reports whether the category is the Income category
func (c BudgetCategory) IsIncome() bool {
	return IsIncomeCategory(c.Name)
}

// FindItem returns the index of the item with id, or -1
func (c BudgetCategory) FindItem(id uuid.UUID) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// BudgetSource tells whether a template came from storage or the bundled defaults
type BudgetSource string

const (
	BudgetSourceSaved    BudgetSource = "saved"
	BudgetSourceDefaults BudgetSource = "defaults"
)

// Budget is a loaded template together with where it came from
type Budget struct {
	Type       BudgetType       `json:"type"`
	Year       int              `json:"year"`
	Source     BudgetSource     `json:"source"`
	Categories []BudgetCategory `json:"categories"`
}

// BudgetRepository persists budget templates
type BudgetRepository interface {
	// LoadBudget returns found=false when nothing has been saved for the year
	LoadBudget(ctx context.Context, budgetType BudgetType, year int) (categories []BudgetCategory, found bool, err error)
	SaveBudget(ctx context.Context, budgetType BudgetType, year int, categories []BudgetCategory) error
	LoadDefaults(budgetType BudgetType) ([]BudgetCategory, error)
}
