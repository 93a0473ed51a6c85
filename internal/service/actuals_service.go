package service

import (
	"context"
	"strings"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MonthlySnapshot is a loaded month of actuals with its display grouping
type MonthlySnapshot struct {
	Type        domain.BudgetType           `json:"type"`
	Period      domain.Period               `json:"period"`
	Fresh       bool                        `json:"fresh"`
	Entries     []domain.MonthlyActualEntry `json:"entries"`
	Aggregation domain.Aggregation          `json:"aggregation"`
	Totals      domain.Totals               `json:"totals"`
}

// ActualsService manages monthly actual snapshots
type ActualsService struct {
	actualsRepo    domain.ActualsRepository
	budgetRepo     domain.BudgetRepository
	aggregator     *Aggregator
	shape          domain.SnapshotShape
	eventPublisher websocket.EventPublisher
}

// NewActualsService creates a new ActualsService writing snapshots in the given shape
func NewActualsService(actualsRepo domain.ActualsRepository, budgetRepo domain.BudgetRepository, shape domain.SnapshotShape) *ActualsService {
	if !shape.IsValid() {
		shape = domain.SnapshotShapeFlat
	}
	return &ActualsService{
		actualsRepo: actualsRepo,
		budgetRepo:  budgetRepo,
		aggregator:  NewAggregator(),
		shape:       shape,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ActualsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ActualsService) publishEvent(budgetType domain.BudgetType, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(budgetType, event)
	}
}

// GetActuals loads the month's snapshot. When no document exists yet, a fresh snapshot is
// built from the year's template with zero actuals; it is not saved until SaveActuals.
// A month saved with no items stays empty.
func (s *ActualsService) GetActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period) (*MonthlySnapshot, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	entries, found, err := s.actualsRepo.LoadActuals(ctx, budgetType, period)
	if err != nil {
		return nil, err
	}

	fresh := false
	if !found {
		template, _, err := loadTemplate(ctx, s.budgetRepo, budgetType, period.Year)
		if err != nil {
			return nil, err
		}
		entries = BuildFreshEntries(template)
		fresh = true
	}

	snapshot := s.snapshot(budgetType, period, entries)
	snapshot.Fresh = fresh
	return snapshot, nil
}

// SaveActuals validates and overwrites the month's snapshot
func (s *ActualsService) SaveActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period, items []domain.LineItem) (*MonthlySnapshot, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	// Duplicate ids are stored as given; readers resolve them last-one-wins
	normalized := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		name, err := validateName(item.Name, domain.MaxBudgetItemNameLength)
		if err != nil {
			return nil, err
		}
		category, err := validateName(item.CategoryName, domain.MaxBudgetCategoryNameLength)
		if err != nil {
			return nil, err
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}

		item.Name = name
		item.CategoryName = category
		if domain.IsIncomeCategory(category) {
			item.CategoryName = domain.IncomeCategoryName
		}
		normalized = append(normalized, item)
	}

	if err := s.actualsRepo.SaveActuals(ctx, budgetType, period, normalized, s.shape); err != nil {
		return nil, err
	}

	s.publishEvent(budgetType, websocket.ActualsSaved(DocumentRef{BudgetType: budgetType, Year: period.Year, Month: period.Month}))

	return s.snapshot(budgetType, period, domain.GroupLineItems(normalized)), nil
}

// UpdateActual records the actual amount of one item and saves the snapshot
func (s *ActualsService) UpdateActual(ctx context.Context, budgetType domain.BudgetType, period domain.Period, itemID uuid.UUID, actual decimal.Decimal) (*domain.LineItem, error) {
	current, err := s.GetActuals(ctx, budgetType, period)
	if err != nil {
		return nil, err
	}

	items := domain.FlattenEntries(current.Entries)
	index := -1
	for i := range items {
		if items[i].ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, domain.ErrBudgetItemNotFound
	}
	items[index].ActualAmount = actual

	if err := s.actualsRepo.SaveActuals(ctx, budgetType, period, items, s.shape); err != nil {
		return nil, err
	}

	log.Info().
		Str("budget_type", budgetType.String()).
		Str("period", period.String()).
		Str("item_id", itemID.String()).
		Msg("Actual amount updated")

	s.publishEvent(budgetType, websocket.ActualsUpdated(DocumentRef{BudgetType: budgetType, Year: period.Year, Month: period.Month, ItemID: &itemID}))

	updated := items[index]
	return &updated, nil
}

// EnsureMonth saves the fresh snapshot for a month that has none yet. It reports whether a
// snapshot was created; an existing month is left untouched.
func (s *ActualsService) EnsureMonth(ctx context.Context, budgetType domain.BudgetType, period domain.Period) (bool, error) {
	current, err := s.GetActuals(ctx, budgetType, period)
	if err != nil {
		return false, err
	}
	if !current.Fresh {
		return false, nil
	}

	if err := s.actualsRepo.SaveActuals(ctx, budgetType, period, domain.FlattenEntries(current.Entries), s.shape); err != nil {
		return false, err
	}

	log.Info().
		Str("budget_type", budgetType.String()).
		Str("period", period.String()).
		Int("categories", len(current.Entries)).
		Msg("Month created from budget template")

	s.publishEvent(budgetType, websocket.ActualsSaved(DocumentRef{BudgetType: budgetType, Year: period.Year, Month: period.Month}))
	return true, nil
}

func (s *ActualsService) snapshot(budgetType domain.BudgetType, period domain.Period, entries []domain.MonthlyActualEntry) *MonthlySnapshot {
	if entries == nil {
		entries = []domain.MonthlyActualEntry{}
	}
	aggregation := s.aggregator.Aggregate(domain.FlattenEntries(entries))
	return &MonthlySnapshot{
		Type:        budgetType,
		Period:      period,
		Entries:     entries,
		Aggregation: aggregation,
		Totals:      ComputeTotals(aggregation),
	}
}

// BuildFreshEntries turns a template into a month with every actual at zero.
// Entry and item ids are carried over from the template.
func BuildFreshEntries(categories []domain.BudgetCategory) []domain.MonthlyActualEntry {
	entries := make([]domain.MonthlyActualEntry, 0, len(categories))
	for _, c := range categories {
		categoryName := c.Name
		if domain.IsIncomeCategory(strings.TrimSpace(categoryName)) {
			categoryName = domain.IncomeCategoryName
		}
		entry := domain.MonthlyActualEntry{
			ID:           c.ID,
			CategoryName: categoryName,
			Items:        make([]domain.MonthlyActualItem, 0, len(c.Items)),
		}
		for _, item := range c.Items {
			entry.Items = append(entry.Items, domain.MonthlyActualItem{
				ID:       item.ID,
				Name:     item.Name,
				Budgeted: item.Amount,
				Actual:   decimal.Zero,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}
