package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/dafibh/budgetking/budgetking-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportHandler() (*ReportHandler, *testutil.MockActualsRepository) {
	repo := testutil.NewMockActualsRepository()
	h := NewReportHandler(service.NewReportService(repo), domain.DefaultReportTheme())
	h.now = func() time.Time { return time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC) }
	return h, repo
}

func seedComparison(repo *testutil.MockActualsRepository) {
	salary := uuid.New()
	car := uuid.New()
	repo.SetActuals(domain.BudgetTypePersonal, domain.Period{Year: 2024, Month: 12}, []domain.LineItem{
		{ID: salary, Name: "Salary", CategoryName: "Income", ActualAmount: decimal.NewFromInt(3000)},
		{ID: car, Name: "Car", CategoryName: "Transportation", ActualAmount: decimal.NewFromInt(300)},
	})
	repo.SetActuals(domain.BudgetTypePersonal, domain.Period{Year: 2025, Month: 1}, []domain.LineItem{
		{ID: salary, Name: "Salary", CategoryName: "Income", ActualAmount: decimal.NewFromInt(3200)},
		{ID: uuid.New(), Name: "Bonus", CategoryName: "Income", ActualAmount: decimal.NewFromInt(500)},
	})
}

func TestMonthly_JSON(t *testing.T) {
	e := echo.New()
	h, repo := newReportHandler()
	repo.SetActuals(domain.BudgetTypePersonal, domain.Period{Year: 2025, Month: 3}, []domain.LineItem{
		{ID: uuid.New(), Name: "Rent", CategoryName: "Housing", BudgetedAmount: decimal.NewFromInt(1200), ActualAmount: decimal.NewFromInt(1200)},
	})

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/monthly/2025/3", "", map[string]string{"type": "personal", "year": "2025", "month": "3"})
	require.NoError(t, h.Monthly(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response BudgetReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, domain.ReportKindMonthly, response.Kind)
	assert.Equal(t, 3, response.Month)
	assert.Equal(t, "1200.00", response.Totals.ExpenseActual)
	assert.Equal(t, domain.TrendEqual, response.Groups.ExpenseGroups[0].Items[0].Trend)
}

func TestMonthly_PDF(t *testing.T) {
	e := echo.New()
	h, _ := newReportHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/monthly/2025/3?format=pdf", "", map[string]string{"type": "personal", "year": "2025", "month": "3"})
	require.NoError(t, h.Monthly(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="03-2025-report.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestYearly_XLSX(t *testing.T) {
	e := echo.New()
	h, _ := newReportHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/family/yearly/2025?format=xlsx", "", map[string]string{"type": "family", "year": "2025"})
	require.NoError(t, h.Yearly(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, `attachment; filename="2025-family-budget-report.xlsx"`, rec.Header().Get(echo.HeaderContentDisposition))
	// XLSX is a zip container
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestMonthly_UnsupportedFormat(t *testing.T) {
	e := echo.New()
	h, _ := newReportHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/monthly/2025/3?format=docx", "", map[string]string{"type": "personal", "year": "2025", "month": "3"})
	require.NoError(t, h.Monthly(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "format", decodeProblem(t, rec).Errors[0].Field)
}

func TestComparison_DefaultsToCurrentAndPreviousMonth(t *testing.T) {
	e := echo.New()
	h, repo := newReportHandler()
	seedComparison(repo)

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/comparison", "", map[string]string{"type": "personal"})
	require.NoError(t, h.Comparison(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var response ComparisonReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, domain.Period{Year: 2024, Month: 12}, response.Previous)
	assert.Equal(t, domain.Period{Year: 2025, Month: 1}, response.Current)

	require.Len(t, response.Rows, 3)
	names := []string{response.Rows[0].Name, response.Rows[1].Name, response.Rows[2].Name}
	assert.Equal(t, []string{"Bonus", "Car", "Salary"}, names)

	assert.Equal(t, domain.TrendDown, response.Rows[1].Trend)
	assert.Equal(t, "↓", response.Rows[1].Symbol)
	assert.Equal(t, "0.00", response.Rows[1].CurrentActual)

	assert.Len(t, response.Income, 2)
	require.Len(t, response.ExpenseGroups, 1)
	assert.Equal(t, "Transportation", response.ExpenseGroups[0].Category)
}

func TestComparison_RTFDownload(t *testing.T) {
	e := echo.New()
	h, repo := newReportHandler()
	seedComparison(repo)

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/comparison?current=2025-01&previous=2024-12&format=rtf", "", map[string]string{"type": "personal"})
	require.NoError(t, h.Comparison(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, `attachment; filename="01-2025-comparison.rtf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Contains(t, rec.Body.String(), "Personal Monthly Comparison Report")
}

func TestComparison_InvalidPeriod(t *testing.T) {
	e := echo.New()
	h, _ := newReportHandler()

	c, rec := newContext(e, http.MethodGet, "/api/v1/reports/personal/comparison?current=January", "", map[string]string{"type": "personal"})
	require.NoError(t, h.Comparison(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "current", decodeProblem(t, rec).Errors[0].Field)
}
