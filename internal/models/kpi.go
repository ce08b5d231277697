package models

import "github.com/shopspring/decimal"

// ChangeType tells whether a KPI went up or down against the previous period
type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
)

// KPI is one headline figure on the analytics screen
type KPI struct {
	Key        string           `json:"key"`
	Label      string           `json:"label"`
	Value      int64            `json:"value"`
	Change     *decimal.Decimal `json:"change,omitempty"` // percent vs previous period
	ChangeType ChangeType       `json:"changeType,omitempty"`
	Icon       string           `json:"icon"`
}
