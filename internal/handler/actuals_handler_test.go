package handler

import (
	"encoding/json"
	"net/http"
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

var april = map[string]string{"type": "personal", "year": "2025", "month": "4"}

func newActualsHandler() (*ActualsHandler, *testutil.MockActualsRepository, *testutil.RecordingPublisher) {
	actualsRepo := testutil.NewMockActualsRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	budgetRepo.Defaults[domain.BudgetTypePersonal] = []domain.BudgetCategory{
		{ID: uuid.New(), Name: "Income", Items: []domain.BudgetItem{{ID: uuid.New(), Name: "Salary", Amount: decimal.NewFromInt(3000)}}},
		{ID: uuid.New(), Name: "Housing", Items: []domain.BudgetItem{{ID: uuid.New(), Name: "Rent", Amount: decimal.NewFromInt(1200)}}},
	}
	publisher := &testutil.RecordingPublisher{}
	svc := service.NewActualsService(actualsRepo, budgetRepo, domain.SnapshotShapeFlat)
	svc.SetEventPublisher(publisher)
	return NewActualsHandler(svc), actualsRepo, publisher
}

func TestGetActuals_Fresh(t *testing.T) {
	e := echo.New()
	h, _, _ := newActualsHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/actuals/personal/2025/4", "", april)
	require.NoError(t, h.GetActuals(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var response MonthlyActualsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Fresh)
	require.Len(t, response.Groups.Income, 1)
	assert.Equal(t, "3000.00", response.Groups.Income[0].Budgeted)
	assert.Equal(t, "0.00", response.Groups.Income[0].Actual)
	assert.Equal(t, "1200.00", response.Totals.ExpenseBudgeted)
	assert.Equal(t, "1800.00", response.Totals.NetBudgeted)
	assert.Equal(t, []string{"Housing"}, response.Columns[0])
	assert.Empty(t, response.Columns[1])
}

func TestGetActuals_InvalidMonth(t *testing.T) {
	e := echo.New()
	h, _, _ := newActualsHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/actuals/personal/2025/13", "", map[string]string{"type": "personal", "year": "2025", "month": "13"})
	require.NoError(t, h.GetActuals(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "period", decodeProblem(t, rec).Errors[0].Field)
}

func TestGetActuals_MalformedSnapshot(t *testing.T) {
	e := echo.New()
	h, actualsRepo, _ := newActualsHandler()
	actualsRepo.LoadErrs[testutil.ActualsKey(domain.BudgetTypePersonal, domain.Period{Year: 2025, Month: 4})] = domain.ErrMalformedSnapshot

	c, rec := newContext(e, http.MethodGet, "/api/v1/actuals/personal/2025/4", "", april)
	require.NoError(t, h.GetActuals(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrorTypeUnprocessable, decodeProblem(t, rec).Type)
}

func TestSaveActuals(t *testing.T) {
	e := echo.New()
	h, actualsRepo, publisher := newActualsHandler()

	body := `{"items":[
		{"name":"Salary","categoryName":"income","budgeted":"3000","actual":"3100"},
		{"name":"Vet","categoryName":"Pets","budgeted":"50","actual":"80"},
		{"name":"Rent","categoryName":"Housing","budgeted":"1200","actual":"1200"}
	]}`
	c, rec := newContext(e, http.MethodPut, "/api/v1/actuals/personal/2025/4", body, april)
	require.NoError(t, h.SaveActuals(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response MonthlyActualsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Fresh)
	require.Len(t, response.Groups.ExpenseGroups, 2)
	assert.Equal(t, "Housing", response.Groups.ExpenseGroups[0].Category)
	assert.Equal(t, "Pets", response.Groups.ExpenseGroups[1].Category)
	assert.Equal(t, domain.TrendDown, response.Groups.ExpenseGroups[1].Items[0].Trend)
	assert.Equal(t, "1820.00", response.Totals.NetActual)

	assert.Len(t, actualsRepo.Snapshots, 1)
	assert.Equal(t, []string{"actuals.saved"}, publisher.Types())
}

func TestSaveActuals_MissingCategory(t *testing.T) {
	e := echo.New()
	h, actualsRepo, _ := newActualsHandler()

	c, rec := newContext(e, http.MethodPut, "/api/v1/actuals/personal/2025/4", `{"items":[{"name":"Vet","budgeted":"1","actual":"1"}]}`, april)
	require.NoError(t, h.SaveActuals(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, actualsRepo.Snapshots)
}

func TestUpdateActual(t *testing.T) {
	e := echo.New()
	h, actualsRepo, _ := newActualsHandler()
	rent := domain.LineItem{ID: uuid.New(), Name: "Rent", CategoryName: "Housing", BudgetedAmount: decimal.NewFromInt(1200)}
	actualsRepo.SetActuals(domain.BudgetTypePersonal, domain.Period{Year: 2025, Month: 4}, []domain.LineItem{rent})

	params := map[string]string{"type": "personal", "year": "2025", "month": "4", "itemId": rent.ID.String()}
	c, rec := newContext(e, http.MethodPatch, "/items/x", `{"actual":"1187.4"}`, params)
	require.NoError(t, h.UpdateActual(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response LineItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "1187.40", response.Actual)
	assert.Equal(t, domain.TrendUp, response.Trend)
}

func TestUpdateActual_UnknownItem(t *testing.T) {
	e := echo.New()
	h, _, _ := newActualsHandler()

	params := map[string]string{"type": "personal", "year": "2025", "month": "4", "itemId": uuid.New().String()}
	c, rec := newContext(e, http.MethodPatch, "/items/x", `{"actual":"1"}`, params)
	require.NoError(t, h.UpdateActual(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
