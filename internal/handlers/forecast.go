package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/cache"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/config"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/forecast"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/middleware"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/timeseries"
)

// ForecastHandler handles forecast generation endpoints
type ForecastHandler struct {
	preparer *timeseries.Preparer
	engine   *forecast.Engine
	cache    *cache.ForecastCache
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewForecastHandler creates a new forecast handler. The cache may be nil
// when Redis is unavailable; forecasts are then always computed fresh.
func NewForecastHandler(preparer *timeseries.Preparer, engine *forecast.Engine, fc *cache.ForecastCache, cfg *config.Config, logger *logrus.Logger) *ForecastHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &ForecastHandler{
		preparer: preparer,
		engine:   engine,
		cache:    fc,
		cfg:      cfg,
		logger:   logger,
	}
}

// ForecastRequest is the body of POST /api/v1/forecast. When GroupBy is set
// the rows are split per distinct group-key combination and forecast
// independently.
type ForecastRequest struct {
	Rows    []models.DemandRow `json:"rows" binding:"required"`
	Model   string             `json:"model"`
	Horizon int                `json:"horizon"`
	GroupBy []string           `json:"group_by"`
}

// ForecastResponse wraps a forecast result with request echo fields
type ForecastResponse struct {
	Result    *models.ForecastResult `json:"result"`
	Series    models.TimeSeries      `json:"series"`
	FromCache bool                   `json:"from_cache"`
	Timestamp time.Time              `json:"timestamp"`
}

// Generate handles POST /api/v1/forecast
func (h *ForecastHandler) Generate(c *gin.Context) {
	var req ForecastRequest
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

	if len(req.GroupBy) > 0 {
		h.generateGrouped(c, req, model, horizon)
		return
	}

	series := h.preparer.Prepare(req.Rows)

	key := cache.Key(series, model, horizon)
	if h.cache != nil {
		if cached, ok := h.cache.Get(c.Request.Context(), key); ok {
			c.JSON(http.StatusOK, ForecastResponse{
				Result:    cached,
				Series:    series,
				FromCache: true,
				Timestamp: time.Now(),
			})
			return
		}
	}

	result, err := h.engine.Forecast(c.Request.Context(), series, model, horizon)
	if err != nil {
		RenderForecastError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(c.Request.Context(), key, result)
	}

	c.JSON(http.StatusOK, ForecastResponse{
		Result:    result,
		Series:    series,
		Timestamp: time.Now(),
	})
}

// GroupedForecastResponse is the body returned when group_by is set. Groups
// that fail to forecast are reported in Errors rather than failing the whole
// request.
type GroupedForecastResponse struct {
	Results   map[string]*models.ForecastResult `json:"results"`
	Errors    map[string]string                 `json:"errors,omitempty"`
	Timestamp time.Time                         `json:"timestamp"`
}

func (h *ForecastHandler) generateGrouped(c *gin.Context, req ForecastRequest, model string, horizon int) {
	grouped := h.preparer.PrepareGrouped(req.Rows, req.GroupBy)

	resp := GroupedForecastResponse{
		Results:   make(map[string]*models.ForecastResult, len(grouped)),
		Timestamp: time.Now(),
	}
	for key, series := range grouped {
		result, err := h.engine.Forecast(c.Request.Context(), series, model, horizon)
		if err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[key] = err.Error()
			continue
		}
		resp.Results[key] = result
	}

	h.logger.WithFields(logrus.Fields{
		"groups": len(grouped),
		"failed": len(resp.Errors),
		"model":  model,
	}).Info("Generated grouped forecast")

	c.JSON(http.StatusOK, resp)
}

// RenderForecastError maps engine errors to HTTP responses
func RenderForecastError(c *gin.Context, err error) {
	var insufficientErr *forecast.InsufficientHistoryError
	if errors.As(err, &insufficientErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Not enough history to forecast", "details": insufficientErr.Error(),
		})
		return
	}

	var fitErr *forecast.ModelFitError
	if errors.As(err, &fitErr) {
		middleware.RecordError(c, err, "model fit failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Model failed to fit, try a different model", "details": fitErr.Error(),
		})
		return
	}

	middleware.RecordError(c, err, "forecast generation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate forecast", "details": err.Error()})
}
