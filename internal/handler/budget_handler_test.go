package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/dafibh/budgetking/budgetking-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(e *echo.Echo, method, target, body string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func newBudgetHandler() (*BudgetHandler, *testutil.MockBudgetRepository) {
	repo := testutil.NewMockBudgetRepository()
	repo.Defaults[domain.BudgetTypePersonal] = []domain.BudgetCategory{
		{ID: uuid.New(), Name: "Income", Items: []domain.BudgetItem{{ID: uuid.New(), Name: "Salary", Amount: decimal.Zero}}},
		{ID: uuid.New(), Name: "Housing", Items: []domain.BudgetItem{{ID: uuid.New(), Name: "Rent", Amount: decimal.NewFromInt(1200)}}},
	}
	svc := service.NewBudgetSetupService(repo)
	svc.SetEventPublisher(&testutil.RecordingPublisher{})
	return NewBudgetHandler(svc), repo
}

func TestGetBudget_Defaults(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/budgets/personal/2025", "", map[string]string{"type": "personal", "year": "2025"})
	require.NoError(t, h.GetBudget(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response BudgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, domain.BudgetSourceDefaults, response.Source)
	assert.Equal(t, "1200.00", response.ExpenseTotal)
	require.Len(t, response.Categories, 2)
	assert.True(t, response.Categories[0].IsIncome)
	assert.Equal(t, "1200.00", response.Categories[1].Items[0].Amount)
}

func TestGetBudget_InvalidType(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/budgets/business/2025", "", map[string]string{"type": "business", "year": "2025"})
	require.NoError(t, h.GetBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "type", decodeProblem(t, rec).Errors[0].Field)
}

func TestGetBudget_InvalidYear(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/budgets/personal/abc", "", map[string]string{"type": "personal", "year": "abc"})
	require.NoError(t, h.GetBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDefaults(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/budgets/personal/defaults", "", map[string]string{"type": "personal"})
	require.NoError(t, h.GetDefaults(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response []BudgetCategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response, 2)
}

func TestSaveBudget(t *testing.T) {
	e := echo.New()
	h, repo := newBudgetHandler()

	body := `{"categories":[{"name":"Food","items":[{"name":"Groceries","amount":"412.30"}]}]}`
	c, rec := newContext(e, http.MethodPut, "/api/v1/budgets/personal/2025", body, map[string]string{"type": "personal", "year": "2025"})
	require.NoError(t, h.SaveBudget(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response BudgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, domain.BudgetSourceSaved, response.Source)
	assert.Equal(t, "412.30", response.ExpenseTotal)
	assert.NotEqual(t, uuid.Nil, response.Categories[0].ID)
	assert.Equal(t, 1, repo.Saves)
}

func TestSaveBudget_InvalidAmount(t *testing.T) {
	e := echo.New()
	h, repo := newBudgetHandler()

	body := `{"categories":[{"name":"Food","items":[{"name":"Groceries","amount":"lots"}]}]}`
	c, rec := newContext(e, http.MethodPut, "/api/v1/budgets/personal/2025", body, map[string]string{"type": "personal", "year": "2025"})
	require.NoError(t, h.SaveBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount", decodeProblem(t, rec).Errors[0].Field)
	assert.Zero(t, repo.Saves)
}

func TestSaveBudget_EmptyName(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodPut, "/api/v1/budgets/personal/2025", `{"categories":[{"name":"  "}]}`, map[string]string{"type": "personal", "year": "2025"})
	require.NoError(t, h.SaveBudget(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decodeProblem(t, rec).Errors[0].Field)
}

func TestCategoryAndItemRoutes(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()
	scope := map[string]string{"type": "personal", "year": "2025"}

	c, rec := newContext(e, http.MethodPost, "/api/v1/budgets/personal/2025/categories", `{"name":"Pets"}`, scope)
	require.NoError(t, h.AddCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var category BudgetCategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	assert.Equal(t, "Pets", category.Name)

	withCategory := map[string]string{"type": "personal", "year": "2025", "categoryId": category.ID.String()}
	c, rec = newContext(e, http.MethodPost, "/items", `{"name":"Vet","amount":"80"}`, withCategory)
	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var item BudgetItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "80.00", item.Amount)

	withItem := map[string]string{"type": "personal", "year": "2025", "categoryId": category.ID.String(), "itemId": item.ID.String()}
	c, rec = newContext(e, http.MethodPut, "/items/x", `{"name":"Vet visits","amount":"95.5"}`, withItem)
	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Vet visits", item.Name)
	assert.Equal(t, "95.50", item.Amount)

	c, rec = newContext(e, http.MethodDelete, "/items/x", "", withItem)
	require.NoError(t, h.RemoveItem(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(e, http.MethodPut, "/categories/x", `{"name":"Animals"}`, withCategory)
	require.NoError(t, h.RenameCategory(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(e, http.MethodDelete, "/categories/x", "", withCategory)
	require.NoError(t, h.RemoveCategory(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = newContext(e, http.MethodDelete, "/categories/x", "", withCategory)
	require.NoError(t, h.RemoveCategory(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameCategory_InvalidID(t *testing.T) {
	e := echo.New()
	h, _ := newBudgetHandler()

	c, rec := newContext(e, http.MethodPut, "/categories/x", `{"name":"x"}`, map[string]string{"type": "personal", "year": "2025", "categoryId": "not-a-uuid"})
	require.NoError(t, h.RenameCategory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
