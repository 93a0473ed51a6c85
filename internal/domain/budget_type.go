package domain

import "strings"

// BudgetType partitions all data into independent universes
type BudgetType string

const (
	BudgetTypePersonal BudgetType = "personal"
	BudgetTypeFamily   BudgetType = "family"
)

// BudgetTypes lists every budget type in display order
func BudgetTypes() []BudgetType {
	return []BudgetType{BudgetTypePersonal, BudgetTypeFamily}
}

// ParseBudgetType accepts the lower-case wire value, ignoring case and surrounding space
func ParseBudgetType(s string) (BudgetType, error) {
	bt := BudgetType(strings.ToLower(strings.TrimSpace(s)))
	if !bt.IsValid() {
		return "", ErrInvalidBudgetType
	}
	return bt, nil
}

// IsValid reports whether bt is a known budget type
func (bt BudgetType) IsValid() bool {
	return bt == BudgetTypePersonal || bt == BudgetTypeFamily
}

func (bt BudgetType) String() string {
	return string(bt)
}
