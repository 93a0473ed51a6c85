package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyActualItem is one item of the nested snapshot shape
type MonthlyActualItem struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
}

// MonthlyActualEntry groups the items of one category in the nested snapshot shape
type MonthlyActualEntry struct {
	ID           uuid.UUID           `json:"id"`
	CategoryName string              `json:"categoryName"`
	Items        []MonthlyActualItem `json:"items"`
}

// SnapshotShape selects the on-disk representation of a monthly snapshot
type SnapshotShape string

const (
	SnapshotShapeFlat   SnapshotShape = "flat"
	SnapshotShapeNested SnapshotShape = "nested"
)

// IsValid reports whether s is a known shape
func (s SnapshotShape) IsValid() bool {
	return s == SnapshotShapeFlat || s == SnapshotShapeNested
}

// ActualsRepository loads and stores monthly snapshots
type ActualsRepository interface {
	// LoadActuals returns an empty slice and found=false when no snapshot exists for the period.
	// A saved empty month is found with no entries.
	LoadActuals(ctx context.Context, budgetType BudgetType, period Period) (entries []MonthlyActualEntry, found bool, err error)
	SaveActuals(ctx context.Context, budgetType BudgetType, period Period, items []LineItem, shape SnapshotShape) error
}

// FlattenEntries converts the nested shape into line items, preserving order
func FlattenEntries(entries []MonthlyActualEntry) []LineItem {
	var items []LineItem
	for _, entry := range entries {
		for _, item := range entry.Items {
			items = append(items, LineItem{
				ID:             item.ID,
				Name:           item.Name,
				CategoryName:   entry.CategoryName,
				BudgetedAmount: item.Budgeted,
				ActualAmount:   item.Actual,
			})
		}
	}
	return items
}

// categoryNamespace derives stable entry ids for regrouped flat snapshots
var categoryNamespace = uuid.MustParse("5b0f3c2e-8d4a-4f6e-9a51-1c7d2e3f4a5b")

// CategoryEntryID returns the deterministic entry id used when a category has no stored id
func CategoryEntryID(categoryName string) uuid.UUID {
	return uuid.NewSHA1(categoryNamespace, []byte(categoryName))
}

// GroupLineItems regroups line items by exact category name into the nested shape.
// Categories appear in order of first appearance; items keep their relative order.
func GroupLineItems(items []LineItem) []MonthlyActualEntry {
	index := make(map[string]int)
	var entries []MonthlyActualEntry
	for _, item := range items {
		i, ok := index[item.CategoryName]
		if !ok {
			i = len(entries)
			index[item.CategoryName] = i
			entries = append(entries, MonthlyActualEntry{
				ID:           CategoryEntryID(item.CategoryName),
				CategoryName: item.CategoryName,
			})
		}
		entries[i].Items = append(entries[i].Items, MonthlyActualItem{
			ID:       item.ID,
			Name:     item.Name,
			Budgeted: item.BudgetedAmount,
			Actual:   item.ActualAmount,
		})
	}
	return entries
}
