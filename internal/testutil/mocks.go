package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/websocket"
)

// MockDocumentStore is an in-memory implementation of domain.DocumentStore
type MockDocumentStore struct {
	Docs   map[string][]byte
	GetErr error
	PutErr error
	mu     sync.Mutex
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{Docs: make(map[string][]byte)}
}

// Get returns a copy of the stored document
func (m *MockDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	data, ok := m.Docs[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data
func (m *MockDocumentStore) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Docs[key] = append([]byte(nil), data...)
	return nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets  map[string][]domain.BudgetCategory
	Defaults map[domain.BudgetType][]domain.BudgetCategory
	LoadErr  error
	SaveErr  error
	Saves    int
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets:  make(map[string][]domain.BudgetCategory),
		Defaults: make(map[domain.BudgetType][]domain.BudgetCategory),
	}
}

func budgetKey(budgetType domain.BudgetType, year int) string {
	return fmt.Sprintf("%s/%d", budgetType, year)
}

// SetBudget seeds a saved template
func (m *MockBudgetRepository) SetBudget(budgetType domain.BudgetType, year int, categories []domain.BudgetCategory) {
	m.Budgets[budgetKey(budgetType, year)] = CloneCategories(categories)
}

// LoadBudget returns the saved template; found reports whether one was saved
func (m *MockBudgetRepository) LoadBudget(ctx context.Context, budgetType domain.BudgetType, year int) ([]domain.BudgetCategory, bool, error) {
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	categories, found := m.Budgets[budgetKey(budgetType, year)]
	return CloneCategories(categories), found, nil
}

// SaveBudget stores the template
func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budgetType domain.BudgetType, year int, categories []domain.BudgetCategory) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Budgets[budgetKey(budgetType, year)] = CloneCategories(categories)
	return nil
}

// LoadDefaults returns the seeded defaults for a budget type
func (m *MockBudgetRepository) LoadDefaults(budgetType domain.BudgetType) ([]domain.BudgetCategory, error) {
	if !budgetType.IsValid() {
		return nil, domain.ErrInvalidBudgetType
	}
	return CloneCategories(m.Defaults[budgetType]), nil
}

// MockActualsRepository is a mock implementation of domain.ActualsRepository
type MockActualsRepository struct {
	Snapshots map[string][]domain.LineItem
	Shapes    map[string]domain.SnapshotShape
	LoadErrs  map[string]error
	SaveErr   error
}

// NewMockActualsRepository creates a new MockActualsRepository
func NewMockActualsRepository() *MockActualsRepository {
	return &MockActualsRepository{
		Snapshots: make(map[string][]domain.LineItem),
		Shapes:    make(map[string]domain.SnapshotShape),
		LoadErrs:  make(map[string]error),
	}
}

// ActualsKey is the map key used for a snapshot
func ActualsKey(budgetType domain.BudgetType, period domain.Period) string {
	return fmt.Sprintf("%s/%s", budgetType, period)
}

// SetActuals seeds a snapshot
func (m *MockActualsRepository) SetActuals(budgetType domain.BudgetType, period domain.Period, items []domain.LineItem) {
	m.Snapshots[ActualsKey(budgetType, period)] = append([]domain.LineItem(nil), items...)
}

// LoadActuals returns the snapshot regrouped by category
func (m *MockActualsRepository) LoadActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period) ([]domain.MonthlyActualEntry, bool, error) {
	key := ActualsKey(budgetType, period)
	if err, ok := m.LoadErrs[key]; ok {
		return nil, true, err
	}
	items, found := m.Snapshots[key]
	entries := domain.GroupLineItems(items)
	if entries == nil {
		entries = []domain.MonthlyActualEntry{}
	}
	return entries, found, nil
}

// SaveActuals stores the snapshot and the shape it was saved in
func (m *MockActualsRepository) SaveActuals(ctx context.Context, budgetType domain.BudgetType, period domain.Period, items []domain.LineItem, shape domain.SnapshotShape) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	key := ActualsKey(budgetType, period)
	m.Snapshots[key] = append([]domain.LineItem(nil), items...)
	m.Shapes[key] = shape
	return nil
}

// PublishedEvent is one event captured by RecordingPublisher
type PublishedEvent struct {
	BudgetType domain.BudgetType
	Event      websocket.Event
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// Publish records the event
func (p *RecordingPublisher) Publish(budgetType domain.BudgetType, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{BudgetType: budgetType, Event: event})
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// CloneCategories deep-copies a template so callers cannot alias stored state
func CloneCategories(categories []domain.BudgetCategory) []domain.BudgetCategory {
	if categories == nil {
		return []domain.BudgetCategory{}
	}
	out := make([]domain.BudgetCategory, len(categories))
	for i, c := range categories {
		out[i] = c
		out[i].Items = append([]domain.BudgetItem(nil), c.Items...)
	}
	return out
}
