package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 60, cfg.Redis.CacheTTLMinutes)
	assert.Equal(t, "smoothing", cfg.Forecast.DefaultModel)
	assert.Equal(t, 12, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, 36, cfg.Forecast.MaxHorizon)
	assert.Equal(t, 2, cfg.Planning.LeadTimeMonths)
	assert.Equal(t, 10.0, cfg.Planning.SafetyStockPct)
	assert.Equal(t, "1.00", cfg.Planning.UnitCost)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FORECAST_DEFAULT_MODEL", "ensemble")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "ensemble", cfg.Forecast.DefaultModel)
	assert.Equal(t, "production", cfg.Environment, "environment is normalized to lowercase")
}

func TestLoad_RejectsBadHorizons(t *testing.T) {
	resetViper(t)
	t.Setenv("FORECAST_DEFAULT_HORIZON", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsMaxBelowDefault(t *testing.T) {
	resetViper(t)
	t.Setenv("FORECAST_MAX_HORIZON", "6")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNegativeLeadTime(t *testing.T) {
	resetViper(t)
	t.Setenv("PLANNING_LEAD_TIME_MONTHS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache.internal", Port: 6380}}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
