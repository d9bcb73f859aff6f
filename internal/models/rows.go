package models

import (
	"github.com/shopspring/decimal"
)

// DemandRow is one event-level record handed in by the ingestion layer.
// Value arrives already coerced to a number; Date arrives as a string and is
// parsed (and possibly dropped) by the series preparer.
type DemandRow struct {
	Date   string            `json:"date"`
	Value  float64           `json:"value"`
	Groups map[string]string `json:"groups,omitempty"`
}

// DealRow is one sales-pipeline record. Amounts are money, so they stay
// decimal until the adapter aggregates them into a series.
type DealRow struct {
	Amount        decimal.Decimal `json:"amount"`
	ExpectedClose string          `json:"expected_close"`
	Status        string          `json:"status"`
}
