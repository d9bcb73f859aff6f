package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is one planned order in a PO schedule.
type PurchaseOrder struct {
	OrderDate      time.Time       `json:"order_date"`
	DeliveryPeriod time.Time       `json:"delivery_period"`
	Quantity       float64         `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	CoversDemand   float64         `json:"covers_demand"`
}

// POSchedule is the purchase plan derived from an approved scenario
// (or the naive fallback forecast when none is approved).
type POSchedule struct {
	ScenarioName string          `json:"scenario_name,omitempty"`
	ModelName    string          `json:"model_name"`
	Orders       []PurchaseOrder `json:"orders"`
	TotalUnits   float64         `json:"total_units"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GeneratedAt  time.Time       `json:"generated_at"`
	UsedFallback bool            `json:"used_fallback"`
}
