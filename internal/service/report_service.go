package service

import (
	"context"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReportService builds budget and comparison reports from stored snapshots
type ReportService struct {
	actualsRepo domain.ActualsRepository
	aggregator  *Aggregator
}

// NewReportService creates a new ReportService
func NewReportService(actualsRepo domain.ActualsRepository) *ReportService {
	return &ReportService{
		actualsRepo: actualsRepo,
		aggregator:  NewAggregator(),
	}
}

// MonthlyReport aggregates one month's recorded snapshot
func (s *ReportService) MonthlyReport(ctx context.Context, budgetType domain.BudgetType, period domain.Period) (*domain.BudgetReport, error) {
	items, err := s.loadItems(ctx, budgetType, period)
	if err != nil {
		return nil, err
	}

	aggregation := s.aggregator.Aggregate(items)
	return &domain.BudgetReport{
		Kind:   domain.ReportKindMonthly,
		Type:   budgetType,
		Year:   period.Year,
		Month:  period.Month,
		Groups: aggregation,
		Totals: ComputeTotals(aggregation),
	}, nil
}

// YearlyReport sums each item's budgeted and actual amounts over the twelve months.
// Name and category come from the latest month that contains the item.
func (s *ReportService) YearlyReport(ctx context.Context, budgetType domain.BudgetType, year int) (*domain.BudgetReport, error) {
	if err := validateScope(budgetType, year); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.LineItem)
	var order []uuid.UUID
	months := 0

	for month := 1; month <= 12; month++ {
		items, err := s.loadItems(ctx, budgetType, domain.Period{Year: year, Month: month})
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			months++
		}
		for _, item := range items {
			total, ok := byID[item.ID]
			if !ok {
				total = &domain.LineItem{ID: item.ID, BudgetedAmount: decimal.Zero, ActualAmount: decimal.Zero}
				byID[item.ID] = total
				order = append(order, item.ID)
			}
			total.Name = item.Name
			total.CategoryName = item.CategoryName
			total.BudgetedAmount = total.BudgetedAmount.Add(item.BudgetedAmount)
			total.ActualAmount = total.ActualAmount.Add(item.ActualAmount)
		}
	}

	summed := make([]domain.LineItem, 0, len(order))
	for _, id := range order {
		summed = append(summed, *byID[id])
	}

	log.Debug().
		Str("budget_type", budgetType.String()).
		Int("year", year).
		Int("months_with_data", months).
		Int("items", len(summed)).
		Msg("Yearly report built")

	aggregation := s.aggregator.Aggregate(summed)
	return &domain.BudgetReport{
		Kind:   domain.ReportKindYearly,
		Type:   budgetType,
		Year:   year,
		Groups: aggregation,
		Totals: ComputeTotals(aggregation),
	}, nil
}

// ComparisonReport merges two months of the same budget type
func (s *ReportService) ComparisonReport(ctx context.Context, budgetType domain.BudgetType, previous, current domain.Period) (*domain.ComparisonReport, error) {
	previousItems, err := s.loadItems(ctx, budgetType, previous)
	if err != nil {
		return nil, err
	}
	currentItems, err := s.loadItems(ctx, budgetType, current)
	if err != nil {
		return nil, err
	}

	rows := Compare(previousItems, currentItems)
	return &domain.ComparisonReport{
		Type:     budgetType,
		Previous: previous,
		Current:  current,
		Rows:     rows,
		Groups:   GroupComparison(rows),
	}, nil
}

func (s *ReportService) loadItems(ctx context.Context, budgetType domain.BudgetType, period domain.Period) ([]domain.LineItem, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	entries, _, err := s.actualsRepo.LoadActuals(ctx, budgetType, period)
	if err != nil {
		return nil, err
	}
	return domain.FlattenEntries(entries), nil
}
