package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

func newTestCache(t *testing.T) (*ForecastCache, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewForecastCache(client, time.Hour, nil), s
}

func sampleResult() *models.ForecastResult {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return &models.ForecastResult{
		ModelName: "smoothing",
		Forecast: models.TimeSeries{
			{Period: start, Value: 100},
			{Period: start.AddDate(0, 1, 0), Value: 105},
		},
		Metrics: map[string]float64{models.MetricMAPE: 2.5},
	}
}

func TestForecastCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k1", sampleResult())

	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "smoothing", got.ModelName)
	require.Len(t, got.Forecast, 2)
	assert.Equal(t, 100.0, got.Forecast[0].Value)
	assert.Equal(t, 2.5, got.Metrics[models.MetricMAPE])

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestForecastCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), "absent")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.GetStats().Misses)
}

func TestForecastCache_CorruptEntryIsAMiss(t *testing.T) {
	c, s := newTestCache(t)

	require.NoError(t, s.Set("forecast_cache:bad", "not json"))
	_, ok := c.Get(context.Background(), "bad")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.GetStats().Misses)
}

func TestForecastCache_RedisDownDegradesToMiss(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k1", sampleResult())
	s.Close()

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestForecastCache_Clear(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "k1", sampleResult())
	c.Set(ctx, "k2", sampleResult())

	require.NoError(t, c.Clear(ctx))

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "k2")
	assert.False(t, ok)
}

func TestForecastCache_ClearEmpty(t *testing.T) {
	c, _ := newTestCache(t)
	assert.NoError(t, c.Clear(context.Background()))
}

func TestKey_StableAndDiscriminating(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := models.TimeSeries{
		{Period: start, Value: 100},
		{Period: start.AddDate(0, 1, 0), Value: 110},
	}

	k1 := Key(series, "smoothing", 12)
	k2 := Key(series, "smoothing", 12)
	assert.Equal(t, k1, k2, "same inputs produce the same key")

	assert.NotEqual(t, k1, Key(series, "sarima", 12))
	assert.NotEqual(t, k1, Key(series, "smoothing", 6))

	changed := series.Clone()
	changed[1].Value = 111
	assert.NotEqual(t, k1, Key(changed, "smoothing", 12))
}

func TestForecastCache_Expiry(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	c := NewForecastCache(client, time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "k1", sampleResult())
	s.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok, "entries expire with the configured TTL")
}
