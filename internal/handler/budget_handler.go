package handler

import (
	"net/http"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles yearly budget template HTTP requests
type BudgetHandler struct {
	setupService *service.BudgetSetupService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(setupService *service.BudgetSetupService) *BudgetHandler {
	return &BudgetHandler{setupService: setupService}
}

// BudgetItemInput represents an item in save requests
type BudgetItemInput struct {
	ID     *uuid.UUID `json:"id,omitempty"`
	Name   string     `json:"name"`
	Amount string     `json:"amount"`
}

// BudgetCategoryInput represents a category in save requests
type BudgetCategoryInput struct {
	ID    *uuid.UUID        `json:"id,omitempty"`
	Name  string            `json:"name"`
	Items []BudgetItemInput `json:"items"`
}

// SaveBudgetRequest represents the PUT body for a whole template
type SaveBudgetRequest struct {
	Categories []BudgetCategoryInput `json:"categories"`
}

// CategoryNameRequest represents the body of category create and rename requests
type CategoryNameRequest struct {
	Name string `json:"name"`
}

// BudgetItemRequest represents the body of item create and update requests
type BudgetItemRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// BudgetItemResponse represents a budget item in API responses
type BudgetItemResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Amount string    `json:"amount"`
}

// BudgetCategoryResponse represents a budget category in API responses
type BudgetCategoryResponse struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	IsIncome bool                 `json:"isIncome"`
	Items    []BudgetItemResponse `json:"items"`
}

// BudgetResponse represents a yearly template in API responses
type BudgetResponse struct {
	Type         domain.BudgetType        `json:"type"`
	Year         int                      `json:"year"`
	Source       domain.BudgetSource      `json:"source"`
	ExpenseTotal string                   `json:"expenseTotal"`
	Categories   []BudgetCategoryResponse `json:"categories"`
}

// GetDefaults handles GET /api/v1/budgets/:type/defaults
func (h *BudgetHandler) GetDefaults(c echo.Context) error {
	budgetType, err := parseBudgetType(c)
	if err != nil {
		return respondError(c, err, "load default categories")
	}

	categories, err := h.setupService.LoadDefaults(budgetType)
	if err != nil {
		return respondError(c, err, "load default categories")
	}

	response := make([]BudgetCategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toBudgetCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget handles GET /api/v1/budgets/:type/:year
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "get budget")
	}

	budget, err := h.setupService.GetBudget(c.Request().Context(), budgetType, year)
	if err != nil {
		return respondError(c, err, "get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// SaveBudget handles PUT /api/v1/budgets/:type/:year
func (h *BudgetHandler) SaveBudget(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "save budget")
	}

	var req SaveBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categories := make([]domain.BudgetCategory, len(req.Categories))
	for i, in := range req.Categories {
		category := domain.BudgetCategory{Name: in.Name, Items: make([]domain.BudgetItem, len(in.Items))}
		if in.ID != nil {
			category.ID = *in.ID
		}
		for j, item := range in.Items {
			amount, err := parseAmount(item.Amount)
			if err != nil {
				return invalidAmount(c)
			}
			category.Items[j] = domain.BudgetItem{Name: item.Name, Amount: amount}
			if item.ID != nil {
				category.Items[j].ID = *item.ID
			}
		}
		categories[i] = category
	}

	budget, err := h.setupService.SaveBudget(c.Request().Context(), budgetType, year, categories)
	if err != nil {
		return respondError(c, err, "save budget")
	}

	log.Info().Str("budget_type", budgetType.String()).Int("year", year).Int("categories", len(categories)).Msg("Budget saved")

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// AddCategory handles POST /api/v1/budgets/:type/:year/categories
func (h *BudgetHandler) AddCategory(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "add category")
	}

	var req CategoryNameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.setupService.AddCategory(c.Request().Context(), budgetType, year, req.Name)
	if err != nil {
		return respondError(c, err, "add category")
	}

	return c.JSON(http.StatusCreated, toBudgetCategoryResponse(*category))
}

// RenameCategory handles PUT /api/v1/budgets/:type/:year/categories/:categoryId
func (h *BudgetHandler) RenameCategory(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "rename category")
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req CategoryNameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.setupService.RenameCategory(c.Request().Context(), budgetType, year, categoryID, req.Name)
	if err != nil {
		return respondError(c, err, "rename category")
	}

	return c.JSON(http.StatusOK, toBudgetCategoryResponse(*category))
}

// RemoveCategory handles DELETE /api/v1/budgets/:type/:year/categories/:categoryId
func (h *BudgetHandler) RemoveCategory(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "remove category")
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.setupService.RemoveCategory(c.Request().Context(), budgetType, year, categoryID); err != nil {
		return respondError(c, err, "remove category")
	}

	return c.NoContent(http.StatusNoContent)
}

// AddItem handles POST /api/v1/budgets/:type/:year/categories/:categoryId/items
func (h *BudgetHandler) AddItem(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "add item")
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req BudgetItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return invalidAmount(c)
	}

	item, err := h.setupService.AddItem(c.Request().Context(), budgetType, year, categoryID, req.Name, amount)
	if err != nil {
		return respondError(c, err, "add item")
	}

	return c.JSON(http.StatusCreated, toBudgetItemResponse(*item))
}

// UpdateItem handles PUT /api/v1/budgets/:type/:year/categories/:categoryId/items/:itemId
func (h *BudgetHandler) UpdateItem(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "update item")
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	var req BudgetItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return invalidAmount(c)
	}

	item, err := h.setupService.UpdateItem(c.Request().Context(), budgetType, year, categoryID, itemID, req.Name, amount)
	if err != nil {
		return respondError(c, err, "update item")
	}

	return c.JSON(http.StatusOK, toBudgetItemResponse(*item))
}

// RemoveItem handles DELETE /api/v1/budgets/:type/:year/categories/:categoryId/items/:itemId
func (h *BudgetHandler) RemoveItem(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "remove item")
	}
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	if err := h.setupService.RemoveItem(c.Request().Context(), budgetType, year, categoryID, itemID); err != nil {
		return respondError(c, err, "remove item")
	}

	return c.NoContent(http.StatusNoContent)
}

func budgetScope(c echo.Context) (domain.BudgetType, int, error) {
	budgetType, err := parseBudgetType(c)
	if err != nil {
		return "", 0, err
	}
	year, err := parseYear(c)
	if err != nil {
		return "", 0, err
	}
	return budgetType, year, nil
}

// parseAmount accepts a decimal string; empty means zero
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func invalidAmount(c echo.Context) error {
	return NewValidationError(c, "Invalid amount format", []ValidationError{
		{Field: "amount", Message: "Must be a valid decimal number"},
	})
}

func toBudgetItemResponse(item domain.BudgetItem) BudgetItemResponse {
	return BudgetItemResponse{
		ID:     item.ID,
		Name:   item.Name,
		Amount: item.Amount.StringFixed(2),
	}
}

func toBudgetCategoryResponse(category domain.BudgetCategory) BudgetCategoryResponse {
	items := make([]BudgetItemResponse, len(category.Items))
	for i, item := range category.Items {
		items[i] = toBudgetItemResponse(item)
	}
	return BudgetCategoryResponse{
		ID:       category.ID,
		Name:     category.Name,
		IsIncome: category.IsIncome(),
		Items:    items,
	}
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	total := decimal.Zero
	categories := make([]BudgetCategoryResponse, len(budget.Categories))
	for i, category := range budget.Categories {
		categories[i] = toBudgetCategoryResponse(category)
		if category.IsIncome() {
			continue
		}
		for _, item := range category.Items {
			total = total.Add(item.Amount)
		}
	}
	return BudgetResponse{
		Type:         budget.Type,
		Year:         budget.Year,
		Source:       budget.Source,
		ExpenseTotal: total.StringFixed(2),
		Categories:   categories,
	}
}
