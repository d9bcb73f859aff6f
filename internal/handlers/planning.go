package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/config"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/planning"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/timeseries"
)

// PlanningHandler handles purchase-order schedule endpoints
type PlanningHandler struct {
	preparer *timeseries.Preparer
	planner  *planning.Planner
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewPlanningHandler creates a new planning handler
func NewPlanningHandler(preparer *timeseries.Preparer, planner *planning.Planner, cfg *config.Config, logger *logrus.Logger) *PlanningHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PlanningHandler{
		preparer: preparer,
		planner:  planner,
		cfg:      cfg,
		logger:   logger,
	}
}

// ScheduleRequest is the body of POST /api/v1/planning/schedule. Rows are
// only needed for the fallback forecast when no scenario is approved.
// Omitted rule fields fall back to the configured planning defaults.
type ScheduleRequest struct {
	Rows           []models.DemandRow `json:"rows"`
	Horizon        int                `json:"horizon"`
	LeadTimeMonths *int               `json:"lead_time_months"`
	SafetyStockPct *float64           `json:"safety_stock_pct"`
	MinOrderQty    *float64           `json:"min_order_qty"`
	UnitCost       string             `json:"unit_cost"`
}

// Schedule handles POST /api/v1/planning/schedule
func (h *PlanningHandler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	horizon := req.Horizon
	if horizon == 0 {
		horizon = h.cfg.Forecast.DefaultHorizon
	}
	if horizon < 1 || horizon > h.cfg.Forecast.MaxHorizon {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid horizon", "details": "horizon must be between 1 and the configured maximum",
		})
		return
	}

	rules, err := h.rulesFromRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid planning rules", "details": err.Error()})
		return
	}

	historical := h.preparer.Prepare(req.Rows)

	sched, err := h.planner.Schedule(historical, horizon, rules)
	if err != nil {
		RenderForecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, sched)
}

func (h *PlanningHandler) rulesFromRequest(req ScheduleRequest) (planning.Rules, error) {
	rules := planning.Rules{
		LeadTimeMonths: h.cfg.Planning.LeadTimeMonths,
		SafetyStockPct: h.cfg.Planning.SafetyStockPct,
		MinOrderQty:    h.cfg.Planning.MinOrderQty,
	}

	unitCost := h.cfg.Planning.UnitCost
	if req.UnitCost != "" {
		unitCost = req.UnitCost
	}
	cost, err := decimal.NewFromString(unitCost)
	if err != nil {
		return planning.Rules{}, err
	}
	rules.UnitCost = cost

	if req.LeadTimeMonths != nil {
		rules.LeadTimeMonths = *req.LeadTimeMonths
	}
	if req.SafetyStockPct != nil {
		rules.SafetyStockPct = *req.SafetyStockPct
	}
	if req.MinOrderQty != nil {
		rules.MinOrderQty = *req.MinOrderQty
	}
	return rules, nil
}
