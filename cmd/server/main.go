package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/api"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/cache"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/config"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/forecast"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/handlers"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/logging"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/middleware"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/planning"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/scenario"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/telemetry"
	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/timeseries"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	tp, err := telemetry.Init(cfg.Environment)
	if err != nil {
		logger.WithError(err).Warn("Telemetry disabled")
	}

	// Redis only backs the forecast cache; the server runs without it
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var forecastCache *cache.ForecastCache
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Warn("Redis unavailable, forecast caching disabled")
		redisClient = nil
	} else {
		ttl := time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute
		forecastCache = cache.NewForecastCache(redisClient, ttl, logger)
	}

	preparer := timeseries.NewPreparer(logger)
	detector := timeseries.NewSeasonalityDetector()
	engine := forecast.NewEngine(detector, logger)
	adjuster := scenario.NewAdjuster(logger)
	pipeline := scenario.NewPipelineAdapter(scenario.DefaultOpenStatus, logger)
	store := scenario.NewStore()
	planner := planning.NewPlanner(store, logger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TelemetryMiddleware())

	api.SetupRoutes(router, api.Handlers{
		Forecast: handlers.NewForecastHandler(preparer, engine, forecastCache, cfg, logger),
		Scenario: handlers.NewScenarioHandler(preparer, engine, adjuster, pipeline, store, cfg, logger),
		Planning: handlers.NewPlanningHandler(preparer, planner, cfg, logger),
	}, redisClient)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
	if err := tp.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Tracer shutdown failed")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Warn("Redis close failed")
		}
	}

	logger.Info("Server exited")
}
