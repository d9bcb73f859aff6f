package planning

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/forecast"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/scenario"
)

// Rules are the procurement knobs applied when converting monthly demand
// into purchase orders.
type Rules struct {
	LeadTimeMonths int
	SafetyStockPct float64
	MinOrderQty    float64
	UnitCost       decimal.Decimal
}

// Planner turns the approved scenario's forecast into a purchase-order
// schedule. When no scenario is approved it falls back to a trailing-average
// forecast of the historical series and flags the schedule accordingly.
type Planner struct {
	store  *scenario.Store
	logger *logrus.Logger
}

// NewPlanner creates a planner backed by the given scenario store.
func NewPlanner(store *scenario.Store, logger *logrus.Logger) *Planner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Planner{store: store, logger: logger}
}

// Schedule builds a PO schedule for the next horizon months. The demand
// source is the approved scenario's forecast; historical is only consulted
// for the fallback when nothing is approved.
func (p *Planner) Schedule(historical models.TimeSeries, horizon int, rules Rules) (*models.POSchedule, error) {
	demand, scenarioName, modelName, usedFallback, err := p.demandSource(historical, horizon)
	if err != nil {
		return nil, err
	}

	sched := &models.POSchedule{
		ScenarioName: scenarioName,
		ModelName:    modelName,
		Orders:       buildOrders(demand, rules),
		GeneratedAt:  time.Now().UTC(),
		UsedFallback: usedFallback,
	}
	sched.TotalCost = decimal.Zero
	for _, po := range sched.Orders {
		sched.TotalUnits += po.Quantity
		sched.TotalCost = sched.TotalCost.Add(po.TotalCost)
	}

	p.logger.WithFields(logrus.Fields{
		"scenario":      scenarioName,
		"model":         modelName,
		"orders":        len(sched.Orders),
		"total_units":   sched.TotalUnits,
		"used_fallback": usedFallback,
	}).Info("Generated purchase-order schedule")

	return sched, nil
}

func (p *Planner) demandSource(historical models.TimeSeries, horizon int) (models.TimeSeries, string, string, bool, error) {
	if approved := p.store.Approved(); approved != nil {
		demand := approved.Forecast.Forecast
		if horizon > 0 && horizon < len(demand) {
			demand = demand[:horizon]
		}
		return demand, approved.Name, approved.Forecast.ModelName, false, nil
	}

	p.logger.Warn("No approved scenario, planning against trailing-average forecast")
	result, err := forecast.Naive(historical, horizon)
	if err != nil {
		return nil, "", "", false, err
	}
	return result.Forecast, "", result.ModelName, true, nil
}

// buildOrders converts period demand into orders placed lead-time months
// ahead of delivery. Safety stock inflates each order; the minimum order
// quantity is enforced after that, so a small demand month still yields a
// full MOQ order.
func buildOrders(demand models.TimeSeries, rules Rules) []models.PurchaseOrder {
	orders := make([]models.PurchaseOrder, 0, len(demand))
	for _, pt := range demand {
		if pt.Value <= 0 {
			continue
		}
		qty := pt.Value * (1 + rules.SafetyStockPct/100)
		qty = math.Ceil(qty)
		if rules.MinOrderQty > 0 && qty < rules.MinOrderQty {
			qty = rules.MinOrderQty
		}

		orderDate := pt.Period.AddDate(0, -rules.LeadTimeMonths, 0)
		po := models.PurchaseOrder{
			OrderDate:      orderDate,
			DeliveryPeriod: pt.Period,
			Quantity:       qty,
			UnitCost:       rules.UnitCost,
			TotalCost:      rules.UnitCost.Mul(decimal.NewFromFloat(qty)),
			CoversDemand:   pt.Value,
		}
		orders = append(orders, po)
	}
	return orders
}
