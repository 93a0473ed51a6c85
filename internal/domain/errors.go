package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternalError          = errors.New("internal error")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidBudgetType      = errors.New("budget type must be 'personal' or 'family'")
	ErrInvalidPeriod          = errors.New("invalid period")
	ErrBudgetCategoryNotFound = errors.New("budget category not found")
	ErrBudgetItemNotFound     = errors.New("budget item not found")
	ErrMalformedSnapshot      = errors.New("snapshot could not be decoded")
	ErrBlobNotFound           = errors.New("document not found")
	ErrUnsupportedFormat      = errors.New("unsupported report format")
)

// Validation constants
const (
	MaxBudgetCategoryNameLength = 100
	MaxBudgetItemNameLength     = 200
)
