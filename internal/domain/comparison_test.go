package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		expected Trend
	}{
		{"equal", "100", "100", TrendEqual},
		{"up", "100", "150", TrendUp},
		{"down", "150", "100", TrendDown},
		{"equal ignores trailing zeros", "100.00", "100", TrendEqual},
		{"tiny difference is not equal", "100", "100.0001", TrendUp},
		{"negative values", "-5", "-10", TrendDown},
		{"zero to positive", "0", "12.5", TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(decimal.RequireFromString(tt.previous), decimal.RequireFromString(tt.current))
			if got != tt.expected {
				t.Errorf("ClassifyTrend(%s, %s) = %s, want %s", tt.previous, tt.current, got, tt.expected)
			}
		})
	}
}

func TestTrendSymbolAndInvert(t *testing.T) {
	tests := []struct {
		trend    Trend
		symbol   string
		inverted Trend
	}{
		{TrendUp, "↑", TrendDown},
		{TrendDown, "↓", TrendUp},
		{TrendEqual, "=", TrendEqual},
	}

	for _, tt := range tests {
		t.Run(string(tt.trend), func(t *testing.T) {
			if tt.trend.Symbol() != tt.symbol {
				t.Errorf("Symbol() = %s, want %s", tt.trend.Symbol(), tt.symbol)
			}
			if tt.trend.Invert() != tt.inverted {
				t.Errorf("Invert() = %s, want %s", tt.trend.Invert(), tt.inverted)
			}
		})
	}
}

func TestVarianceTrend(t *testing.T) {
	income := LineItem{CategoryName: "income", BudgetedAmount: decimal.NewFromInt(3000), ActualAmount: decimal.NewFromInt(3200)}
	if got := income.VarianceTrend(); got != TrendUp {
		t.Errorf("income over budget = %s, want up", got)
	}

	rent := LineItem{CategoryName: "Housing", BudgetedAmount: decimal.NewFromInt(1200), ActualAmount: decimal.NewFromInt(1300)}
	if got := rent.VarianceTrend(); got != TrendDown {
		t.Errorf("expense over budget = %s, want down", got)
	}

	food := LineItem{CategoryName: "Food", BudgetedAmount: decimal.NewFromInt(400), ActualAmount: decimal.NewFromInt(400)}
	if got := food.VarianceTrend(); got != TrendEqual {
		t.Errorf("expense on budget = %s, want equal", got)
	}
}
