package service

import (
	"testing"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemWithID(id uuid.UUID, name, category string, budgeted, actual string) domain.LineItem {
	return domain.LineItem{
		ID:             id,
		Name:           name,
		CategoryName:   category,
		BudgetedAmount: decimal.RequireFromString(budgeted),
		ActualAmount:   decimal.RequireFromString(actual),
	}
}

func TestCompare_Empty(t *testing.T) {
	assert.Empty(t, Compare(nil, nil))
}

func TestCompare_EndToEndSalaryBonus(t *testing.T) {
	salary := uuid.New()
	bonus := uuid.New()

	previous := []domain.LineItem{itemWithID(salary, "Salary", "Income", "0", "3000")}
	current := []domain.LineItem{
		itemWithID(salary, "Salary", "Income", "0", "3200"),
		itemWithID(bonus, "Bonus", "Income", "0", "500"),
	}

	rows := Compare(previous, current)

	require.Len(t, rows, 2)

	assert.Equal(t, bonus, rows[0].ID)
	assert.Equal(t, "Bonus", rows[0].Name)
	assert.Equal(t, "Income", rows[0].Category)
	assert.True(t, rows[0].Budgeted.IsZero())
	assert.True(t, rows[0].PreviousActual.IsZero())
	assert.True(t, rows[0].CurrentActual.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, domain.TrendUp, rows[0].Trend)

	assert.Equal(t, salary, rows[1].ID)
	assert.Equal(t, "Salary", rows[1].Name)
	assert.True(t, rows[1].PreviousActual.Equal(decimal.NewFromInt(3000)))
	assert.True(t, rows[1].CurrentActual.Equal(decimal.NewFromInt(3200)))
	assert.Equal(t, domain.TrendUp, rows[1].Trend)
}

func TestCompare_UnionProperty(t *testing.T) {
	shared := uuid.New()
	previous := []domain.LineItem{
		itemWithID(shared, "Rent", "Housing", "1200", "1200"),
		itemWithID(uuid.New(), "Gym", "Fitness", "30", "30"),
	}
	current := []domain.LineItem{
		itemWithID(shared, "Rent", "Housing", "1200", "1250"),
		itemWithID(uuid.New(), "Fuel", "Transportation", "80", "90"),
		itemWithID(uuid.New(), "Vet", "Pets", "0", "120"),
	}

	rows := Compare(previous, current)

	require.Len(t, rows, 4)
	ids := make(map[uuid.UUID]bool)
	for _, row := range rows {
		assert.False(t, ids[row.ID], "duplicate id %s", row.ID)
		ids[row.ID] = true
	}
	for _, item := range append(previous, current...) {
		assert.True(t, ids[item.ID], "missing id for %s", item.Name)
	}
}

func TestCompare_PreviousOnlyDefaults(t *testing.T) {
	id := uuid.New()
	rows := Compare([]domain.LineItem{itemWithID(id, "Parking", "Transportation", "15", "12.5")}, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, "Parking", rows[0].Name)
	assert.Equal(t, "Transportation", rows[0].Category)
	assert.True(t, rows[0].Budgeted.Equal(decimal.NewFromInt(15)))
	assert.True(t, rows[0].PreviousActual.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, rows[0].CurrentActual.IsZero())
	assert.Equal(t, domain.TrendDown, rows[0].Trend)
}

func TestCompare_CurrentOnlyUsesCurrentBudgeted(t *testing.T) {
	rows := Compare(nil, []domain.LineItem{itemWithID(uuid.New(), "Daycare", "Children", "600", "600")})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Budgeted.Equal(decimal.NewFromInt(600)))
	assert.True(t, rows[0].PreviousActual.IsZero())
	assert.Equal(t, domain.TrendUp, rows[0].Trend)
}

func TestCompare_NameAndCategoryPreferCurrent(t *testing.T) {
	id := uuid.New()
	previous := []domain.LineItem{itemWithID(id, "Car loan", "Loans", "250", "250")}
	current := []domain.LineItem{itemWithID(id, "Auto loan", "Transportation", "275", "250")}

	rows := Compare(previous, current)

	require.Len(t, rows, 1)
	assert.Equal(t, "Auto loan", rows[0].Name)
	assert.Equal(t, "Transportation", rows[0].Category)
	// budgeted is sourced from the previous period
	assert.True(t, rows[0].Budgeted.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, domain.TrendEqual, rows[0].Trend)
}

func TestCompare_Trend(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		expected domain.Trend
	}{
		{"equal", "100", "100", domain.TrendEqual},
		{"up", "100", "150", domain.TrendUp},
		{"down", "150", "100", domain.TrendDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.New()
			rows := Compare(
				[]domain.LineItem{itemWithID(id, "Food", "Food", "0", tt.previous)},
				[]domain.LineItem{itemWithID(id, "Food", "Food", "0", tt.current)},
			)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.expected, rows[0].Trend)
		})
	}
}

func TestCompare_SortedByName(t *testing.T) {
	current := []domain.LineItem{
		itemWithID(uuid.New(), "Rent", "Housing", "0", "0"),
		itemWithID(uuid.New(), "Car", "Transportation", "0", "0"),
		itemWithID(uuid.New(), "Bonus", "Income", "0", "0"),
	}

	rows := Compare(nil, current)

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"Bonus", "Car", "Rent"}, names)
}

func TestCompare_SortIsPlainLexicographic(t *testing.T) {
	rows := Compare(nil, []domain.LineItem{
		itemWithID(uuid.New(), "apples", "Food", "0", "0"),
		itemWithID(uuid.New(), "Zoo", "Entertainment", "0", "0"),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Zoo", rows[0].Name)
	assert.Equal(t, "apples", rows[1].Name)
}

func TestCompare_DuplicateIDsLastWins(t *testing.T) {
	id := uuid.New()
	current := []domain.LineItem{
		itemWithID(id, "Groceries", "Food", "400", "100"),
		itemWithID(id, "Groceries", "Food", "400", "380"),
	}

	rows := Compare(nil, current)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].CurrentActual.Equal(decimal.NewFromInt(380)))
}

func TestCompare_IncomeCategoryNormalized(t *testing.T) {
	rows := Compare(nil, []domain.LineItem{itemWithID(uuid.New(), "Salary", "INCOME", "0", "10")})

	require.Len(t, rows, 1)
	assert.Equal(t, "Income", rows[0].Category)
}

func TestCompare_NegativeAmountsPassThrough(t *testing.T) {
	id := uuid.New()
	rows := Compare(
		[]domain.LineItem{itemWithID(id, "Refund", "Food", "-5", "-5")},
		[]domain.LineItem{itemWithID(id, "Refund", "Food", "-5", "-20")},
	)

	require.Len(t, rows, 1)
	assert.True(t, rows[0].CurrentActual.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, domain.TrendDown, rows[0].Trend)
}

func TestGroupComparison(t *testing.T) {
	rows := Compare(nil, []domain.LineItem{
		itemWithID(uuid.New(), "Vet", "Pets", "0", "1"),
		itemWithID(uuid.New(), "Salary", "Income", "0", "1"),
		itemWithID(uuid.New(), "Rent", "Housing", "0", "1"),
		itemWithID(uuid.New(), "Gym", "Fitness", "0", "1"),
	})

	groups := GroupComparison(rows)

	require.Len(t, groups.Income, 1)
	assert.Equal(t, "Salary", groups.Income[0].Name)
	assert.Equal(t, []string{"Housing", "Pets"}, groupNames(groups.ExpenseGroups))
	assert.Equal(t, []string{"Fitness"}, groupNames(groups.Unlisted))
}
