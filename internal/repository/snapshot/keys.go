package snapshot

import (
	"fmt"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
)

// ActualsKey names the monthly snapshot document, e.g. personal/03-2025-actuals.json
func ActualsKey(budgetType domain.BudgetType, period domain.Period) string {
	return fmt.Sprintf("%s/%02d-%04d-actuals.json", budgetType, period.Month, period.Year)
}

// BudgetKey names the yearly template document, e.g. family/2025-family-budget.json
func BudgetKey(budgetType domain.BudgetType, year int) string {
	return fmt.Sprintf("%s/%04d-%s-budget.json", budgetType, year, budgetType)
}

func defaultsFile(budgetType domain.BudgetType) string {
	return fmt.Sprintf("defaults/default_%s_categories.json", budgetType)
}
