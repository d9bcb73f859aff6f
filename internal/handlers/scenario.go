package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/config"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/forecast"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/middleware"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/scenario"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/timeseries"
)

// ScenarioHandler handles scenario CRUD, comparison and approval endpoints
type ScenarioHandler struct {
	preparer *timeseries.Preparer
	engine   *forecast.Engine
	adjuster *scenario.Adjuster
	pipeline *scenario.PipelineAdapter
	store    *scenario.Store
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(preparer *timeseries.Preparer, engine *forecast.Engine, adjuster *scenario.Adjuster, pipeline *scenario.PipelineAdapter, store *scenario.Store, cfg *config.Config, logger *logrus.Logger) *ScenarioHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ScenarioHandler{
		preparer: preparer,
		engine:   engine,
		adjuster: adjuster,
		pipeline: pipeline,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateScenarioRequest is the body of POST /api/v1/scenarios
type CreateScenarioRequest struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Rows        []models.DemandRow    `json:"rows" binding:"required"`
	Deals       []models.DealRow      `json:"deals"`
	Model       string                `json:"model"`
	Horizon     int                   `json:"horizon"`
	Params      ScenarioParamsRequest `json:"params"`
}

// ScenarioParamsRequest mirrors models.ScenarioParams with the optional knobs
// as pointers. An omitted knob falls back to its neutral value, so explicit
// zeros keep their meaning: seasonality_factor 0 flattens the pattern and
// demand_weight 0 is a pure-pipeline blend.
type ScenarioParamsRequest struct {
	GrowthRatePct        *float64           `json:"growth_rate_pct"`
	DemandWeight         *float64           `json:"demand_weight"`
	SeasonalityFactor    *float64           `json:"seasonality_factor"`
	QuarterlyAdjustments map[string]float64 `json:"quarterly_adjustments"`
	PipelineSeries       models.TimeSeries  `json:"pipeline_series"`
}

func (r ScenarioParamsRequest) toParams() models.ScenarioParams {
	params := models.ScenarioParams{
		DemandWeight:         1.0,
		SeasonalityFactor:    1.0,
		QuarterlyAdjustments: r.QuarterlyAdjustments,
		PipelineSeries:       r.PipelineSeries,
	}
	if r.GrowthRatePct != nil {
		params.GrowthRatePct = *r.GrowthRatePct
	}
	if r.DemandWeight != nil {
		params.DemandWeight = *r.DemandWeight
	}
	if r.SeasonalityFactor != nil {
		params.SeasonalityFactor = *r.SeasonalityFactor
	}
	return params
}

// Create handles POST /api/v1/scenarios. It prepares the series, runs the
// base forecast, applies the scenario adjustments and saves the result
// under the given name.
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	model := req.Model
	if model == "" {
		model = h.cfg.Forecast.DefaultModel
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

	series := h.preparer.Prepare(req.Rows)

	base, err := h.engine.Forecast(c.Request.Context(), series, model, horizon)
	if err != nil {
		RenderForecastError(c, err)
		return
	}

	params := req.Params.toParams()

	// A supplied deals table takes precedence over an inline pipeline series
	if len(req.Deals) > 0 && params.DemandWeight < 1.0 {
		if start, ok := series.NextPeriod(); ok {
			params.PipelineSeries = h.pipeline.ToPeriodSeries(req.Deals, start, horizon)
		}
	}

	adjusted := h.adjuster.Adjust(base, series, params)

	saved := h.store.Save(models.Scenario{
		Name:             req.Name,
		Description:      req.Description,
		Params:           params,
		Forecast:         *adjusted,
		HistoricalDemand: series,
	})

	h.logger.WithFields(logrus.Fields{
		"scenario": saved.Name,
		"model":    adjusted.ModelName,
		"horizon":  horizon,
	}).Info("Saved scenario")

	c.JSON(http.StatusCreated, saved)
}

// List handles GET /api/v1/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scenarios": h.store.List(),
		"count":     h.store.Len(),
	})
}

// Get handles GET /api/v1/scenarios/:name
func (h *ScenarioHandler) Get(c *gin.Context) {
	sc, err := h.store.Get(c.Param("name"))
	if err != nil {
		renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

// Delete handles DELETE /api/v1/scenarios/:name
func (h *ScenarioHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.Delete(name); err != nil {
		renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

// Approve handles POST /api/v1/scenarios/:name/approve
func (h *ScenarioHandler) Approve(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.Approve(name); err != nil {
		renderStoreError(c, err)
		return
	}
	h.logger.WithField("scenario", name).Info("Approved scenario")
	c.JSON(http.StatusOK, gin.H{"approved": name})
}

// GetApproved handles GET /api/v1/scenarios/approved
func (h *ScenarioHandler) GetApproved(c *gin.Context) {
	sc := h.store.Approved()
	if sc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No scenario is approved"})
		return
	}
	c.JSON(http.StatusOK, sc)
}

// CompareRequest is the body of POST /api/v1/scenarios/compare
type CompareRequest struct {
	Names []string `json:"names" binding:"required"`
}

// Compare handles POST /api/v1/scenarios/compare
func (h *ScenarioHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	comparison, err := h.store.Compare(req.Names)
	if err != nil {
		renderStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// Export handles GET /api/v1/scenarios/export
func (h *ScenarioHandler) Export(c *gin.Context) {
	data, err := h.store.Export()
	if err != nil {
		middleware.RecordError(c, err, "scenario export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export scenarios", "details": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=scenarios-"+time.Now().UTC().Format("2006-01-02")+".json")
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/v1/scenarios/import
func (h *ScenarioHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body", "details": err.Error()})
		return
	}
	if err := h.store.Import(data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scenario snapshot", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": h.store.Len()})
}

func renderStoreError(c *gin.Context, err error) {
	var notFound *scenario.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scenario not found", "details": notFound.Error()})
		return
	}

	var selection *scenario.InsufficientSelectionError
	if errors.As(err, &selection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select at least two scenarios", "details": selection.Error()})
		return
	}

	middleware.RecordError(c, err, "scenario operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Scenario operation failed", "details": err.Error()})
}
