package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dafibh/budgetking/budgetking-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation    = "https://budgetking.app/errors/validation"
	ErrorTypeNotFound      = "https://budgetking.app/errors/not-found"
	ErrorTypeUnprocessable = "https://budgetking.app/errors/malformed-document"
	ErrorTypeInternal      = "https://budgetking.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnprocessableError creates a response for stored documents that cannot be decoded
func NewUnprocessableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnprocessableEntity, ProblemDetails{
		Type:     ErrorTypeUnprocessable,
		Title:    "Unprocessable Document",
		Status:   http.StatusUnprocessableEntity,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// respondError maps a service error onto a problem response; action names the failed operation
func respondError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBudgetType):
		return NewValidationError(c, "Invalid budget type", []ValidationError{
			{Field: "type", Message: "Type must be 'personal' or 'family'"},
		})
	case errors.Is(err, domain.ErrInvalidPeriod):
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "period", Message: "Month must be between 1 and 12 and year between 1900 and 9999"},
		})
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", []ValidationError{
			{Field: "name", Message: "Name cannot be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is too long"},
		})
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return NewValidationError(c, "Unsupported report format", []ValidationError{
			{Field: "format", Message: "Format must be one of json, rtf, xlsx, pdf"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrBudgetCategoryNotFound):
		return NewNotFoundError(c, "Budget category not found")
	case errors.Is(err, domain.ErrBudgetItemNotFound):
		return NewNotFoundError(c, "Budget item not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrMalformedSnapshot):
		log.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("Stored document could not be decoded")
		return NewUnprocessableError(c, "The stored document could not be decoded")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// parseBudgetType reads the :type path parameter
func parseBudgetType(c echo.Context) (domain.BudgetType, error) {
	return domain.ParseBudgetType(c.Param("type"))
}

// parseYear reads the :year path parameter
func parseYear(c echo.Context) (int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, domain.ErrInvalidPeriod
	}
	return year, nil
}

// parsePeriod reads the :year and :month path parameters
func parsePeriod(c echo.Context) (domain.Period, error) {
	year, err := parseYear(c)
	if err != nil {
		return domain.Period{}, err
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return domain.Period{}, domain.ErrInvalidPeriod
	}
	return domain.NewPeriod(year, month)
}
