package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/dafibh/budgetking/budgetking-backend/internal/report"
	"github.com/dafibh/budgetking/budgetking-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const formatJSON = "json"

// ReportHandler serves budget and comparison reports as JSON or as documents
type ReportHandler struct {
	reportService *service.ReportService
	theme         domain.ReportTheme
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, theme domain.ReportTheme) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		theme:         theme,
		now:           time.Now,
	}
}

// BudgetReportResponse represents a monthly or yearly report in API responses
type BudgetReportResponse struct {
	Kind   domain.ReportKind   `json:"kind"`
	Type   domain.BudgetType   `json:"type"`
	Year   int                 `json:"year"`
	Month  int                 `json:"month,omitempty"`
	Groups AggregationResponse `json:"groups"`
	Totals TotalsResponse      `json:"totals"`
}

// ComparisonRowResponse represents one merged comparison row
type ComparisonRowResponse struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	Budgeted       string       `json:"budgeted"`
	PreviousActual string       `json:"previousActual"`
	CurrentActual  string       `json:"currentActual"`
	Trend          domain.Trend `json:"trend"`
	Symbol         string       `json:"symbol"`
}

// ComparisonReportResponse represents a month-to-month comparison in API responses
type ComparisonReportResponse struct {
	Type          domain.BudgetType                              `json:"type"`
	Previous      domain.Period                                  `json:"previous"`
	Current       domain.Period                                  `json:"current"`
	Rows          []ComparisonRowResponse                        `json:"rows"`
	Income        []ComparisonRowResponse                        `json:"income"`
	ExpenseGroups []CategoryGroupResponse[ComparisonRowResponse] `json:"expenseGroups"`
}

// Monthly handles GET /api/v1/reports/:type/monthly/:year/:month
func (h *ReportHandler) Monthly(c echo.Context) error {
	budgetType, period, err := actualsScope(c)
	if err != nil {
		return respondError(c, err, "build monthly report")
	}

	r, err := h.reportService.MonthlyReport(c.Request().Context(), budgetType, period)
	if err != nil {
		return respondError(c, err, "build monthly report")
	}
	return h.writeBudget(c, r)
}

// Yearly handles GET /api/v1/reports/:type/yearly/:year
func (h *ReportHandler) Yearly(c echo.Context) error {
	budgetType, year, err := budgetScope(c)
	if err != nil {
		return respondError(c, err, "build yearly report")
	}

	r, err := h.reportService.YearlyReport(c.Request().Context(), budgetType, year)
	if err != nil {
		return respondError(c, err, "build yearly report")
	}
	return h.writeBudget(c, r)
}

// Comparison handles GET /api/v1/reports/:type/comparison?current=YYYY-MM&previous=YYYY-MM
func (h *ReportHandler) Comparison(c echo.Context) error {
	budgetType, err := parseBudgetType(c)
	if err != nil {
		return respondError(c, err, "build comparison report")
	}

	current := domain.CurrentPeriod(h.now())
	if raw := c.QueryParam("current"); raw != "" {
		if current, err = domain.ParsePeriod(raw); err != nil {
			return NewValidationError(c, "Invalid current period", []ValidationError{
				{Field: "current", Message: "Must be formatted YYYY-MM"},
			})
		}
	}
	previous := current.Previous()
	if raw := c.QueryParam("previous"); raw != "" {
		if previous, err = domain.ParsePeriod(raw); err != nil {
			return NewValidationError(c, "Invalid previous period", []ValidationError{
				{Field: "previous", Message: "Must be formatted YYYY-MM"},
			})
		}
	}

	r, err := h.reportService.ComparisonReport(c.Request().Context(), budgetType, previous, current)
	if err != nil {
		return respondError(c, err, "build comparison report")
	}

	format := requestedFormat(c)
	if format == formatJSON {
		return c.JSON(http.StatusOK, toComparisonReportResponse(r))
	}

	renderer, err := report.Lookup(format, h.theme)
	if err != nil {
		return respondError(c, err, "build comparison report")
	}
	var buf bytes.Buffer
	if err := renderer.RenderComparison(&buf, r); err != nil {
		return respondError(c, err, "render comparison report")
	}
	return sendDocument(c, renderer, report.ComparisonFilename(r, renderer.Format()), buf.Bytes())
}

func (h *ReportHandler) writeBudget(c echo.Context, r *domain.BudgetReport) error {
	format := requestedFormat(c)
	if format == formatJSON {
		return c.JSON(http.StatusOK, BudgetReportResponse{
			Kind:   r.Kind,
			Type:   r.Type,
			Year:   r.Year,
			Month:  r.Month,
			Groups: toAggregationResponse(r.Groups),
			Totals: toTotalsResponse(r.Totals),
		})
	}

	renderer, err := report.Lookup(format, h.theme)
	if err != nil {
		return respondError(c, err, "build report")
	}
	var buf bytes.Buffer
	if err := renderer.RenderBudget(&buf, r); err != nil {
		return respondError(c, err, "render report")
	}
	return sendDocument(c, renderer, report.BudgetFilename(r, renderer.Format()), buf.Bytes())
}

func requestedFormat(c echo.Context) string {
	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format == "" {
		return formatJSON
	}
	return format
}

func sendDocument(c echo.Context, renderer report.Renderer, filename string, body []byte) error {
	log.Info().Str("format", renderer.Format()).Str("filename", filename).Int("bytes", len(body)).Msg("Report rendered")

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, renderer.ContentType(), body)
}

func toComparisonRowResponses(rows []domain.ComparisonRow) []ComparisonRowResponse {
	response := make([]ComparisonRowResponse, len(rows))
	for i, row := range rows {
		response[i] = ComparisonRowResponse{
			ID:             row.ID,
			Name:           row.Name,
			Category:       row.Category,
			Budgeted:       row.Budgeted.StringFixed(2),
			PreviousActual: row.PreviousActual.StringFixed(2),
			CurrentActual:  row.CurrentActual.StringFixed(2),
			Trend:          row.Trend,
			Symbol:         row.Trend.Symbol(),
		}
	}
	return response
}

func toComparisonReportResponse(r *domain.ComparisonReport) ComparisonReportResponse {
	groups := make([]CategoryGroupResponse[ComparisonRowResponse], len(r.Groups.ExpenseGroups))
	for i, group := range r.Groups.ExpenseGroups {
		groups[i] = CategoryGroupResponse[ComparisonRowResponse]{
			Category: group.Category,
			Items:    toComparisonRowResponses(group.Items),
		}
	}
	return ComparisonReportResponse{
		Type:          r.Type,
		Previous:      r.Previous,
		Current:       r.Current,
		Rows:          toComparisonRowResponses(r.Rows),
		Income:        toComparisonRowResponses(r.Groups.Income),
		ExpenseGroups: groups,
	}
}
