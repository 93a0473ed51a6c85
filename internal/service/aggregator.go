package service

import (
	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UnlistedPolicy decides what happens to expense categories missing from the display order
type UnlistedPolicy int

const (
	// DropUnlisted leaves unlisted categories out of ExpenseGroups. They are still reported
	// in Grouped.Unlisted.
	DropUnlisted UnlistedPolicy = iota
	// AppendUnlisted places unlisted categories after the ordered ones, in first-seen order
	AppendUnlisted
)

func (p UnlistedPolicy) String() string {
	if p == AppendUnlisted {
		return "append"
	}
	return "drop"
}

// Aggregator splits line items into Income and ordered expense groups
type Aggregator struct {
	Order    []string
	Unlisted UnlistedPolicy
}

// NewAggregator creates an Aggregator using the canonical category order and DropUnlisted
func NewAggregator() *Aggregator {
	return &Aggregator{
		Order:    domain.CanonicalCategoryOrder(),
		Unlisted: DropUnlisted,
	}
}

// Aggregate groups items for display
func (a *Aggregator) Aggregate(items []domain.LineItem) domain.Aggregation {
	return GroupOrdered(items, func(li domain.LineItem) string { return li.CategoryName }, a.Order, a.Unlisted)
}

// Aggregate runs the default Aggregator
func Aggregate(items []domain.LineItem) domain.Aggregation {
	return NewAggregator().Aggregate(items)
}

// GroupOrdered partitions items into the Income bucket and per-category groups emitted in the
// given order. Grouping is by exact category key and stable within each group.
func GroupOrdered[T any](items []T, category func(T) string, order []string, policy UnlistedPolicy) domain.Grouped[T] {
	result := domain.Grouped[T]{
		Income:        []T{},
		ExpenseGroups: []domain.CategoryGroup[T]{},
	}

	groups := make(map[string][]T)
	var seen []string
	for _, item := range items {
		name := category(item)
		if domain.IsIncomeCategory(name) {
			result.Income = append(result.Income, item)
			continue
		}
		if _, ok := groups[name]; !ok {
			seen = append(seen, name)
		}
		groups[name] = append(groups[name], item)
	}

	listed := make(map[string]bool, len(order))
	for _, name := range order {
		if listed[name] {
			continue
		}
		listed[name] = true
		if members, ok := groups[name]; ok {
			result.ExpenseGroups = append(result.ExpenseGroups, domain.CategoryGroup[T]{Category: name, Items: members})
		}
	}

	for _, name := range seen {
		if listed[name] {
			continue
		}
		group := domain.CategoryGroup[T]{Category: name, Items: groups[name]}
		if policy == AppendUnlisted {
			result.ExpenseGroups = append(result.ExpenseGroups, group)
		} else {
			result.Unlisted = append(result.Unlisted, group)
		}
	}

	return result
}

// FlattenAggregation lists the visible items: income first, then each expense group in order
func FlattenAggregation(a domain.Aggregation) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(a.Income))
	items = append(items, a.Income...)
	for _, group := range a.ExpenseGroups {
		items = append(items, group.Items...)
	}
	return items
}

// SplitColumns assigns even positions to the left column and odd positions to the right
func SplitColumns[T any](items []T) (left, right []T) {
	for i, item := range items {
		if i%2 == 0 {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	return left, right
}

// ComputeTotals sums income and the visible expense groups. Unlisted groups are not counted.
func ComputeTotals(a domain.Aggregation) domain.Totals {
	totals := domain.Totals{
		IncomeBudgeted:  decimal.Zero,
		IncomeActual:    decimal.Zero,
		ExpenseBudgeted: decimal.Zero,
		ExpenseActual:   decimal.Zero,
	}
	for _, item := range a.Income {
		totals.IncomeBudgeted = totals.IncomeBudgeted.Add(item.BudgetedAmount)
		totals.IncomeActual = totals.IncomeActual.Add(item.ActualAmount)
	}
	for _, group := range a.ExpenseGroups {
		for _, item := range group.Items {
			totals.ExpenseBudgeted = totals.ExpenseBudgeted.Add(item.BudgetedAmount)
			totals.ExpenseActual = totals.ExpenseActual.Add(item.ActualAmount)
		}
	}
	return totals
}
