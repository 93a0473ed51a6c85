package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trend is the three-valued comparison between two amounts
type Trend string

const (
	TrendUp    Trend = "up"
	TrendDown  Trend = "down"
	TrendEqual Trend = "equal"
)

// ClassifyTrend compares current against previous. Equal only on exact equality.
func ClassifyTrend(previous, current decimal.Decimal) Trend {
	switch current.Cmp(previous) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendEqual
	}
}

// Symbol returns the arrow used by report renderers
func (t Trend) Symbol() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "="
	}
}

// Invert swaps up and down; equal is unchanged
func (t Trend) Invert() Trend {
	switch t {
	case TrendUp:
		return TrendDown
	case TrendDown:
		return TrendUp
	default:
		return t
	}
}

// ComparisonRow is one merged row of a month-to-month comparison
type ComparisonRow struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Budgeted       decimal.Decimal `json:"budgeted"`
	PreviousActual decimal.Decimal `json:"previousActual"`
	CurrentActual  decimal.Decimal `json:"currentActual"`
	Trend          Trend           `json:"trend"`
}
