package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wire types. Amounts are JSON numbers. Unknown keys are ignored; the shapes are told apart by
// their required fields (items for nested, name and budgetedAmount for flat).

type wireFlatItem struct {
	ID             *uuid.UUID `json:"id"`
	Name           *string    `json:"name"`
	CategoryName   *string    `json:"categoryName"`
	BudgetedAmount *float64   `json:"budgetedAmount"`
	ActualAmount   *float64   `json:"actualAmount"`
}

type wireNestedItem struct {
	ID       *uuid.UUID `json:"id"`
	Name     *string    `json:"name"`
	Budgeted *float64   `json:"budgeted"`
	Actual   *float64   `json:"actual"`
}

type wireEntry struct {
	ID           *uuid.UUID        `json:"id,omitempty"`
	CategoryName *string           `json:"categoryName"`
	Items        *[]wireNestedItem `json:"items"`
}

type wireBudgetItem struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount float64   `json:"amount"`
}

type wireBudgetCategory struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Items []wireBudgetItem `json:"items"`
}

// ActualsDecoder is one candidate decoding of a monthly snapshot document
type ActualsDecoder struct {
	Shape  domain.SnapshotShape
	Decode func(data []byte) ([]domain.MonthlyActualEntry, error)
}

// ActualsDecoders are tried in order; the first that succeeds wins
var ActualsDecoders = []ActualsDecoder{
	{Shape: domain.SnapshotShapeNested, Decode: DecodeNested},
	{Shape: domain.SnapshotShapeFlat, Decode: DecodeFlat},
}

// DecodeActuals runs the candidate decoders in order and reports which shape matched
func DecodeActuals(data []byte) ([]domain.MonthlyActualEntry, domain.SnapshotShape, error) {
	var errs []error
	for _, d := range ActualsDecoders {
		entries, err := d.Decode(data)
		if err == nil {
			return entries, d.Shape, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Shape, err))
	}
	return nil, "", fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, errors.Join(errs...))
}

// DecodeNested decodes the category-grouped shape
func DecodeNested(data []byte) ([]domain.MonthlyActualEntry, error) {
	var wire []wireEntry
	if err := unmarshalDocument(data, &wire); err != nil {
		return nil, err
	}

	entries := make([]domain.MonthlyActualEntry, 0, len(wire))
	for i, w := range wire {
		if w.CategoryName == nil || w.Items == nil {
			return nil, fmt.Errorf("entry %d: missing categoryName or items", i)
		}
		// Entries written by the comparison view carry no id of their own
		id := domain.CategoryEntryID(*w.CategoryName)
		if w.ID != nil {
			id = *w.ID
		}
		entry := domain.MonthlyActualEntry{
			ID:           id,
			CategoryName: *w.CategoryName,
			Items:        make([]domain.MonthlyActualItem, 0, len(*w.Items)),
		}
		for j, item := range *w.Items {
			if item.ID == nil || item.Name == nil || item.Budgeted == nil || item.Actual == nil {
				return nil, fmt.Errorf("entry %d item %d: missing field", i, j)
			}
			entry.Items = append(entry.Items, domain.MonthlyActualItem{
				ID:       *item.ID,
				Name:     *item.Name,
				Budgeted: decimal.NewFromFloat(*item.Budgeted),
				Actual:   decimal.NewFromFloat(*item.Actual),
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DecodeFlat decodes the flat shape and regroups it by category
func DecodeFlat(data []byte) ([]domain.MonthlyActualEntry, error) {
	var wire []wireFlatItem
	if err := unmarshalDocument(data, &wire); err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(wire))
	for i, w := range wire {
		if w.ID == nil || w.Name == nil || w.CategoryName == nil || w.BudgetedAmount == nil || w.ActualAmount == nil {
			return nil, fmt.Errorf("item %d: missing field", i)
		}
		items = append(items, domain.LineItem{
			ID:             *w.ID,
			Name:           *w.Name,
			CategoryName:   *w.CategoryName,
			BudgetedAmount: decimal.NewFromFloat(*w.BudgetedAmount),
			ActualAmount:   decimal.NewFromFloat(*w.ActualAmount),
		})
	}
	return domain.GroupLineItems(items), nil
}

// EncodeActuals serializes items in the requested shape
func EncodeActuals(items []domain.LineItem, shape domain.SnapshotShape) ([]byte, error) {
	switch shape {
	case domain.SnapshotShapeFlat:
		wire := make([]wireFlatItem, 0, len(items))
		for _, item := range items {
			wire = append(wire, wireFlatItem{
				ID:             ptr(item.ID),
				Name:           ptr(item.Name),
				CategoryName:   ptr(item.CategoryName),
				BudgetedAmount: ptr(item.BudgetedAmount.InexactFloat64()),
				ActualAmount:   ptr(item.ActualAmount.InexactFloat64()),
			})
		}
		return json.MarshalIndent(wire, "", "  ")
	case domain.SnapshotShapeNested:
		entries := domain.GroupLineItems(items)
		wire := make([]wireEntry, 0, len(entries))
		for _, entry := range entries {
			nested := make([]wireNestedItem, 0, len(entry.Items))
			for _, item := range entry.Items {
				nested = append(nested, wireNestedItem{
					ID:       ptr(item.ID),
					Name:     ptr(item.Name),
					Budgeted: ptr(item.Budgeted.InexactFloat64()),
					Actual:   ptr(item.Actual.InexactFloat64()),
				})
			}
			wire = append(wire, wireEntry{
				ID:           ptr(entry.ID),
				CategoryName: ptr(entry.CategoryName),
				Items:        &nested,
			})
		}
		return json.MarshalIndent(wire, "", "  ")
	default:
		return nil, fmt.Errorf("%w: snapshot shape %q", domain.ErrInvalidInput, shape)
	}
}

// DecodeBudget decodes a saved or bundled budget template
func DecodeBudget(data []byte) ([]domain.BudgetCategory, error) {
	var wire []wireBudgetCategory
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	categories := make([]domain.BudgetCategory, 0, len(wire))
	for _, w := range wire {
		category := domain.BudgetCategory{
			ID:    w.ID,
			Name:  w.Name,
			Items: make([]domain.BudgetItem, 0, len(w.Items)),
		}
		for _, item := range w.Items {
			category.Items = append(category.Items, domain.BudgetItem{
				ID:     item.ID,
				Name:   item.Name,
				Amount: decimal.NewFromFloat(item.Amount),
			})
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// EncodeBudget serializes a budget template
func EncodeBudget(categories []domain.BudgetCategory) ([]byte, error) {
	wire := make([]wireBudgetCategory, 0, len(categories))
	for _, c := range categories {
		items := make([]wireBudgetItem, 0, len(c.Items))
		for _, item := range c.Items {
			items = append(items, wireBudgetItem{ID: item.ID, Name: item.Name, Amount: item.Amount.InexactFloat64()})
		}
		wire = append(wire, wireBudgetCategory{ID: c.ID, Name: c.Name, Items: items})
	}
	return json.MarshalIndent(wire, "", "  ")
}

// unmarshalDocument decodes exactly one JSON value
func unmarshalDocument(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after document")
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
