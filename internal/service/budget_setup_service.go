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

// DocumentRef identifies a saved document in event payloads
type DocumentRef struct {
	BudgetType domain.BudgetType `json:"budgetType"`
	Year       int               `json:"year"`
	Month      int               `json:"month,omitempty"`
	ItemID     *uuid.UUID        `json:"itemId,omitempty"`
}

// BudgetSetupService manages the yearly budget templates
type BudgetSetupService struct {
	budgetRepo     domain.BudgetRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetSetupService creates a new BudgetSetupService
func NewBudgetSetupService(budgetRepo domain.BudgetRepository) *BudgetSetupService {
	return &BudgetSetupService{budgetRepo: budgetRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetSetupService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BudgetSetupService) publishEvent(budgetType domain.BudgetType, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(budgetType, event)
	}
}

// GetBudget returns the saved template for the year, or the defaults when nothing is saved
func (s *BudgetSetupService) GetBudget(ctx context.Context, budgetType domain.BudgetType, year int) (*domain.Budget, error) {
	if err := validateScope(budgetType, year); err != nil {
		return nil, err
	}

	categories, source, err := loadTemplate(ctx, s.budgetRepo, budgetType, year)
	if err != nil {
		return nil, err
	}

	return &domain.Budget{
		Type:       budgetType,
		Year:       year,
		Source:     source,
		Categories: categories,
	}, nil
}

// LoadDefaults returns the bundled starter template
func (s *BudgetSetupService) LoadDefaults(budgetType domain.BudgetType) ([]domain.BudgetCategory, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	return s.budgetRepo.LoadDefaults(budgetType)
}

// SaveBudget validates and persists a full template, assigning ids where missing
func (s *BudgetSetupService) SaveBudget(ctx context.Context, budgetType domain.BudgetType, year int, categories []domain.BudgetCategory) (*domain.Budget, error) {
	if err := validateScope(budgetType, year); err != nil {
		return nil, err
	}

	normalized := make([]domain.BudgetCategory, 0, len(categories))
	for _, c := range categories {
		name, err := validateName(c.Name, domain.MaxBudgetCategoryNameLength)
		if err != nil {
			return nil, err
		}
		category := domain.BudgetCategory{ID: c.ID, Name: name, Items: make([]domain.BudgetItem, 0, len(c.Items))}
		if category.ID == uuid.Nil {
			category.ID = uuid.New()
		}
		for _, item := range c.Items {
			itemName, err := validateName(item.Name, domain.MaxBudgetItemNameLength)
			if err != nil {
				return nil, err
			}
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			category.Items = append(category.Items, domain.BudgetItem{ID: item.ID, Name: itemName, Amount: item.Amount})
		}
		normalized = append(normalized, category)
	}

	if err := s.budgetRepo.SaveBudget(ctx, budgetType, year, normalized); err != nil {
		return nil, err
	}

	s.publishEvent(budgetType, websocket.BudgetSaved(DocumentRef{BudgetType: budgetType, Year: year}))

	return &domain.Budget{
		Type:       budgetType,
		Year:       year,
		Source:     domain.BudgetSourceSaved,
		Categories: normalized,
	}, nil
}

// AddCategory appends a new empty category
func (s *BudgetSetupService) AddCategory(ctx context.Context, budgetType domain.BudgetType, year int, name string) (*domain.BudgetCategory, error) {
	name, err := validateName(name, domain.MaxBudgetCategoryNameLength)
	if err != nil {
		return nil, err
	}

	category := domain.BudgetCategory{ID: uuid.New(), Name: name, Items: []domain.BudgetItem{}}
	err = s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		return append(categories, category), nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// RenameCategory changes a category's name
func (s *BudgetSetupService) RenameCategory(ctx context.Context, budgetType domain.BudgetType, year int, categoryID uuid.UUID, name string) (*domain.BudgetCategory, error) {
	name, err := validateName(name, domain.MaxBudgetCategoryNameLength)
	if err != nil {
		return nil, err
	}

	var renamed domain.BudgetCategory
	err = s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		i := findCategory(categories, categoryID)
		if i < 0 {
			return nil, domain.ErrBudgetCategoryNotFound
		}
		categories[i].Name = name
		renamed = categories[i]
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return &renamed, nil
}

// RemoveCategory deletes a category and its items
func (s *BudgetSetupService) RemoveCategory(ctx context.Context, budgetType domain.BudgetType, year int, categoryID uuid.UUID) error {
	return s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		i := findCategory(categories, categoryID)
		if i < 0 {
			return nil, domain.ErrBudgetCategoryNotFound
		}
		return append(categories[:i], categories[i+1:]...), nil
	})
}

// AddItem appends an item to a category
func (s *BudgetSetupService) AddItem(ctx context.Context, budgetType domain.BudgetType, year int, categoryID uuid.UUID, name string, amount decimal.Decimal) (*domain.BudgetItem, error) {
	name, err := validateName(name, domain.MaxBudgetItemNameLength)
	if err != nil {
		return nil, err
	}

	item := domain.BudgetItem{ID: uuid.New(), Name: name, Amount: amount}
	err = s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		i := findCategory(categories, categoryID)
		if i < 0 {
			return nil, domain.ErrBudgetCategoryNotFound
		}
		categories[i].Items = append(categories[i].Items, item)
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem changes an item's name and amount
func (s *BudgetSetupService) UpdateItem(ctx context.Context, budgetType domain.BudgetType, year int, categoryID, itemID uuid.UUID, name string, amount decimal.Decimal) (*domain.BudgetItem, error) {
	name, err := validateName(name, domain.MaxBudgetItemNameLength)
	if err != nil {
		return nil, err
	}

	var updated domain.BudgetItem
	err = s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		i := findCategory(categories, categoryID)
		if i < 0 {
			return nil, domain.ErrBudgetCategoryNotFound
		}
		j := categories[i].FindItem(itemID)
		if j < 0 {
			return nil, domain.ErrBudgetItemNotFound
		}
		categories[i].Items[j].Name = name
		categories[i].Items[j].Amount = amount
		updated = categories[i].Items[j]
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveItem deletes an item from a category
func (s *BudgetSetupService) RemoveItem(ctx context.Context, budgetType domain.BudgetType, year int, categoryID, itemID uuid.UUID) error {
	return s.edit(ctx, budgetType, year, func(categories []domain.BudgetCategory) ([]domain.BudgetCategory, error) {
		i := findCategory(categories, categoryID)
		if i < 0 {
			return nil, domain.ErrBudgetCategoryNotFound
		}
		j := categories[i].FindItem(itemID)
		if j < 0 {
			return nil, domain.ErrBudgetItemNotFound
		}
		categories[i].Items = append(categories[i].Items[:j], categories[i].Items[j+1:]...)
		return categories, nil
	})
}

// edit loads the current template (saved or defaults), applies fn and saves the result
func (s *BudgetSetupService) edit(ctx context.Context, budgetType domain.BudgetType, year int, fn func([]domain.BudgetCategory) ([]domain.BudgetCategory, error)) error {
	budget, err := s.GetBudget(ctx, budgetType, year)
	if err != nil {
		return err
	}
	categories, err := fn(budget.Categories)
	if err != nil {
		return err
	}
	_, err = s.SaveBudget(ctx, budgetType, year, categories)
	return err
}

// loadTemplate returns the saved template or, when none was ever saved, the bundled defaults.
// A template saved with no categories is returned as is.
func loadTemplate(ctx context.Context, repo domain.BudgetRepository, budgetType domain.BudgetType, year int) ([]domain.BudgetCategory, domain.BudgetSource, error) {
	categories, found, err := repo.LoadBudget(ctx, budgetType, year)
	if err != nil {
		return nil, "", err
	}
	if found {
		return categories, domain.BudgetSourceSaved, nil
	}

	log.Debug().Str("budget_type", budgetType.String()).Int("year", year).Msg("No saved budget, using defaults")
	defaults, err := repo.LoadDefaults(budgetType)
	if err != nil {
		return nil, "", err
	}
	return defaults, domain.BudgetSourceDefaults, nil
}

func findCategory(categories []domain.BudgetCategory, id uuid.UUID) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func validateName(name string, maxLength int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > maxLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func validateScope(budgetType domain.BudgetType, year int) error {
	if !budgetType.IsValid() {
		return domain.ErrInvalidBudgetType
	}
	_, err := domain.NewPeriod(year, 1)
	return err
}
