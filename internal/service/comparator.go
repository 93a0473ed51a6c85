package service

import (
	"sort"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compare merges two snapshots by item id into one row per id, sorted by name.
//
// Name and category come from the current side when it has the id. Budgeted comes from the
// previous side when it has the id. Sides without the id contribute zero actuals.
// Duplicate ids within one side resolve to the last occurrence.
func Compare(previous, current []domain.LineItem) []domain.ComparisonRow {
	prevByID, prevOrder := indexLineItems(previous)
	currByID, currOrder := indexLineItems(current)

	ids := make([]uuid.UUID, 0, len(prevOrder)+len(currOrder))
	union := make(map[uuid.UUID]bool, len(prevOrder)+len(currOrder))
	for _, id := range append(prevOrder, currOrder...) {
		if !union[id] {
			union[id] = true
			ids = append(ids, id)
		}
	}

	rows := make([]domain.ComparisonRow, 0, len(ids))
	for _, id := range ids {
		prev, inPrev := prevByID[id]
		curr, inCurr := currByID[id]

		row := domain.ComparisonRow{
			ID:             id,
			Name:           domain.UnknownLabel,
			Category:       domain.UnknownLabel,
			Budgeted:       decimal.Zero,
			PreviousActual: decimal.Zero,
			CurrentActual:  decimal.Zero,
		}

		switch {
		case inCurr:
			row.Name = curr.Name
			row.Category = comparisonCategory(curr)
		case inPrev:
			row.Name = prev.Name
			row.Category = comparisonCategory(prev)
		}

		if inPrev {
			row.Budgeted = prev.BudgetedAmount
			row.PreviousActual = prev.ActualAmount
		} else if inCurr {
			row.Budgeted = curr.BudgetedAmount
		}
		if inCurr {
			row.CurrentActual = curr.ActualAmount
		}

		row.Trend = domain.ClassifyTrend(row.PreviousActual, row.CurrentActual)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})

	return rows
}

// GroupComparison groups rows into Income and the canonical expense order for renderers
func GroupComparison(rows []domain.ComparisonRow) domain.ComparisonGroups {
	return GroupOrdered(rows, func(r domain.ComparisonRow) string { return r.Category },
		domain.CanonicalCategoryOrder(), DropUnlisted)
}

// indexLineItems maps items by id (last write wins) and records first-seen id order
func indexLineItems(items []domain.LineItem) (map[uuid.UUID]domain.LineItem, []uuid.UUID) {
	byID := make(map[uuid.UUID]domain.LineItem, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := byID[item.ID]; !ok {
			order = append(order, item.ID)
		}
		byID[item.ID] = item
	}
	return byID, order
}

func comparisonCategory(item domain.LineItem) string {
	if item.IsIncome() {
		return domain.IncomeCategoryName
	}
	if item.CategoryName == "" {
		return domain.UnknownLabel
	}
	return item.CategoryName
}
