package handler

import (
	"net/http"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ActualsHandler handles monthly actuals HTTP requests
type ActualsHandler struct {
	actualsService *service.ActualsService
}

// NewActualsHandler creates a new ActualsHandler
func NewActualsHandler(actualsService *service.ActualsService) *ActualsHandler {
	return &ActualsHandler{actualsService: actualsService}
}

// LineItemInput represents one line item in save requests
type LineItemInput struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Name         string     `json:"name"`
	CategoryName string     `json:"categoryName"`
	Budgeted     string     `json:"budgeted"`
	Actual       string     `json:"actual"`
}

// SaveActualsRequest represents the PUT body for a month
type SaveActualsRequest struct {
	Items []LineItemInput `json:"items"`
}

// UpdateActualRequest represents the PATCH body for one item
type UpdateActualRequest struct {
	Actual string `json:"actual"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	CategoryName string       `json:"categoryName"`
	Budgeted     string       `json:"budgeted"`
	Actual       string       `json:"actual"`
	Trend        domain.Trend `json:"trend"`
}

// CategoryGroupResponse represents one expense category and its rows
type CategoryGroupResponse[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// AggregationResponse represents Income followed by expense groups in canonical order
type AggregationResponse struct {
	Income        []LineItemResponse                        `json:"income"`
	ExpenseGroups []CategoryGroupResponse[LineItemResponse] `json:"expenseGroups"`
	Unlisted      []CategoryGroupResponse[LineItemResponse] `json:"unlisted,omitempty"`
}

// TotalsResponse represents the income and expense sums
type TotalsResponse struct {
	IncomeBudgeted  string `json:"incomeBudgeted"`
	IncomeActual    string `json:"incomeActual"`
	ExpenseBudgeted string `json:"expenseBudgeted"`
	ExpenseActual   string `json:"expenseActual"`
	NetBudgeted     string `json:"netBudgeted"`
	NetActual       string `json:"netActual"`
}

// MonthlyActualsResponse represents a month's snapshot in API responses
type MonthlyActualsResponse struct {
	Type    domain.BudgetType   `json:"type"`
	Year    int                 `json:"year"`
	Month   int                 `json:"month"`
	Fresh   bool                `json:"fresh"`
	Groups  AggregationResponse `json:"groups"`
	Totals  TotalsResponse      `json:"totals"`
	Columns [2][]string         `json:"columns"`
}

// GetActuals handles GET /api/v1/actuals/:type/:year/:month
func (h *ActualsHandler) GetActuals(c echo.Context) error {
	budgetType, period, err := actualsScope(c)
	if err != nil {
		return respondError(c, err, "get actuals")
	}

	snapshot, err := h.actualsService.GetActuals(c.Request().Context(), budgetType, period)
	if err != nil {
		return respondError(c, err, "get actuals")
	}

	return c.JSON(http.StatusOK, toMonthlyActualsResponse(snapshot))
}

// SaveActuals handles PUT /api/v1/actuals/:type/:year/:month
func (h *ActualsHandler) SaveActuals(c echo.Context) error {
	budgetType, period, err := actualsScope(c)
	if err != nil {
		return respondError(c, err, "save actuals")
	}

	var req SaveActualsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	items := make([]domain.LineItem, len(req.Items))
	for i, in := range req.Items {
		budgeted, err := parseAmount(in.Budgeted)
		if err != nil {
			return invalidAmount(c)
		}
		actual, err := parseAmount(in.Actual)
		if err != nil {
			return invalidAmount(c)
		}
		items[i] = domain.LineItem{
			Name:           in.Name,
			CategoryName:   in.CategoryName,
			BudgetedAmount: budgeted,
			ActualAmount:   actual,
		}
		if in.ID != nil {
			items[i].ID = *in.ID
		}
	}

	snapshot, err := h.actualsService.SaveActuals(c.Request().Context(), budgetType, period, items)
	if err != nil {
		return respondError(c, err, "save actuals")
	}

	log.Info().Str("budget_type", budgetType.String()).Str("period", period.String()).Int("items", len(items)).Msg("Actuals saved")

	return c.JSON(http.StatusOK, toMonthlyActualsResponse(snapshot))
}

// UpdateActual handles PATCH /api/v1/actuals/:type/:year/:month/items/:itemId
func (h *ActualsHandler) UpdateActual(c echo.Context) error {
	budgetType, period, err := actualsScope(c)
	if err != nil {
		return respondError(c, err, "update actual")
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	var req UpdateActualRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	actual, err := parseAmount(req.Actual)
	if err != nil {
		return invalidAmount(c)
	}

	item, err := h.actualsService.UpdateActual(c.Request().Context(), budgetType, period, itemID, actual)
	if err != nil {
		return respondError(c, err, "update actual")
	}

	return c.JSON(http.StatusOK, toLineItemResponse(*item))
}

func actualsScope(c echo.Context) (domain.BudgetType, domain.Period, error) {
	budgetType, err := parseBudgetType(c)
	if err != nil {
		return "", domain.Period{}, err
	}
	period, err := parsePeriod(c)
	if err != nil {
		return "", domain.Period{}, err
	}
	return budgetType, period, nil
}

func toLineItemResponse(item domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		CategoryName: item.CategoryName,
		Budgeted:     item.BudgetedAmount.StringFixed(2),
		Actual:       item.ActualAmount.StringFixed(2),
		Trend:        item.VarianceTrend(),
	}
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	response := make([]LineItemResponse, len(items))
	for i, item := range items {
		response[i] = toLineItemResponse(item)
	}
	return response
}

func toGroupResponses(groups []domain.CategoryGroup[domain.LineItem]) []CategoryGroupResponse[LineItemResponse] {
	response := make([]CategoryGroupResponse[LineItemResponse], len(groups))
	for i, group := range groups {
		response[i] = CategoryGroupResponse[LineItemResponse]{
			Category: group.Category,
			Items:    toLineItemResponses(group.Items),
		}
	}
	return response
}

func toAggregationResponse(a domain.Aggregation) AggregationResponse {
	response := AggregationResponse{
		Income:        toLineItemResponses(a.Income),
		ExpenseGroups: toGroupResponses(a.ExpenseGroups),
	}
	if len(a.Unlisted) > 0 {
		response.Unlisted = toGroupResponses(a.Unlisted)
	}
	return response
}

func toTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		IncomeBudgeted:  t.IncomeBudgeted.StringFixed(2),
		IncomeActual:    t.IncomeActual.StringFixed(2),
		ExpenseBudgeted: t.ExpenseBudgeted.StringFixed(2),
		ExpenseActual:   t.ExpenseActual.StringFixed(2),
		NetBudgeted:     t.NetBudgeted().StringFixed(2),
		NetActual:       t.NetActual().StringFixed(2),
	}
}

func toMonthlyActualsResponse(s *service.MonthlySnapshot) MonthlyActualsResponse {
	left, right := service.SplitColumns(s.Aggregation.ExpenseGroups)
	return MonthlyActualsResponse{
		Type:    s.Type,
		Year:    s.Period.Year,
		Month:   s.Period.Month,
		Fresh:   s.Fresh,
		Groups:  toAggregationResponse(s.Aggregation),
		Totals:  toTotalsResponse(s.Totals),
		Columns: [2][]string{groupCategories(left), groupCategories(right)},
	}
}

func groupCategories[T any](groups []domain.CategoryGroup[T]) []string {
	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.Category
	}
	return names
}
