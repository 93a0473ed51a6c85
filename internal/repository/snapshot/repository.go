package snapshot

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// Repository implements domain.ActualsRepository and domain.BudgetRepository on a DocumentStore
type Repository struct {
	store domain.DocumentStore
}

// NewRepository creates a new Repository
func NewRepository(store domain.DocumentStore) *Repository {
	return &Repository{store: store}
}

// LoadActuals loads the monthly snapshot, accepting either wire shape
func (r *Repository) LoadActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period) ([]domain.MonthlyActualEntry, bool, error) {
	key := ActualsKey(budgetType, period)

	data, found, err := r.load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return []domain.MonthlyActualEntry{}, found, nil
	}

	entries, shape, err := DecodeActuals(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Malformed actuals snapshot")
		return nil, true, err
	}
	if shape != domain.SnapshotShapeNested {
		log.Debug().Str("key", key).Str("shape", string(shape)).Msg("Nested decode failed, using fallback decoder")
	}
	return entries, true, nil
}

// SaveActuals overwrites the monthly snapshot in the given shape
func (r *Repository) SaveActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period, items []domain.LineItem, shape domain.SnapshotShape) error {
	data, err := EncodeActuals(items, shape)
	if err != nil {
		return err
	}
	key := ActualsKey(budgetType, period)
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save actuals: %w", err)
	}
	log.Info().Str("key", key).Int("items", len(items)).Str("shape", string(shape)).Msg("Actuals saved")
	return nil
}

// LoadBudget loads the saved template for a year; found is false when none was saved
func (r *Repository) LoadBudget(ctx context.Context, budgetType domain.BudgetType, year int) ([]domain.BudgetCategory, bool, error) {
	key := BudgetKey(budgetType, year)

	data, found, err := r.load(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return []domain.BudgetCategory{}, found, nil
	}

	categories, err := DecodeBudget(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Malformed budget template")
		return nil, true, err
	}
	return categories, true, nil
}

// SaveBudget overwrites the template for a year
func (r *Repository) SaveBudget(ctx context.Context, budgetType domain.BudgetType, year int, categories []domain.BudgetCategory) error {
	data, err := EncodeBudget(categories)
	if err != nil {
		return err
	}
	key := BudgetKey(budgetType, year)
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	log.Info().Str("key", key).Int("categories", len(categories)).Msg("Budget saved")
	return nil
}

// LoadDefaults returns the bundled starter template for a budget type
func (r *Repository) LoadDefaults(budgetType domain.BudgetType) ([]domain.BudgetCategory, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	data, err := defaultsFS.ReadFile(defaultsFile(budgetType))
	if err != nil {
		return nil, fmt.Errorf("%w: defaults for %s: %w", domain.ErrInternalError, budgetType, err)
	}
	return DecodeBudget(data)
}

// load reports found=false without error when the document is missing. A blank document is
// found with no data.
func (r *Repository) load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, domain.ErrBlobNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return bytes.TrimSpace(data), true, nil
}
