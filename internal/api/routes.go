package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/handlers"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Redis string `json:"redis"`
}

// Handlers bundles the route handlers wired by SetupRoutes.
type Handlers struct {
	Forecast *handlers.ForecastHandler
	Scenario *handlers.ScenarioHandler
	Planning *handlers.PlanningHandler
}

func SetupRoutes(router *gin.Engine, h Handlers, redisClient *redis.Client) {
	// Health check endpoint
	router.GET("/health", healthCheck(redisClient))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/forecast", h.Forecast.Generate)

		scenarios := v1.Group("/scenarios")
		{
			scenarios.GET("", h.Scenario.List)
			scenarios.POST("", h.Scenario.Create)
			scenarios.GET("/approved", h.Scenario.GetApproved)
			scenarios.POST("/compare", h.Scenario.Compare)
			scenarios.GET("/export", h.Scenario.Export)
			scenarios.POST("/import", h.Scenario.Import)
			scenarios.GET("/:name", h.Scenario.Get)
			scenarios.DELETE("/:name", h.Scenario.Delete)
			scenarios.POST("/:name/approve", h.Scenario.Approve)
		}

		planning := v1.Group("/planning")
		{
			planning.POST("/schedule", h.Planning.Schedule)
		}
	}
}

func healthCheck(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Redis: "ok",
			},
		}

		// Redis only serves the forecast cache, so losing it degrades
		// rather than fails the service
		if redisClient == nil {
			response.Services.Redis = "disabled"
		} else if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		c.JSON(http.StatusOK, response)
	}
}
