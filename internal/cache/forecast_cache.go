package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/corytimmons1688/operations-dashboard-v2-sub000/internal/models"
)

// ForecastCacheEntry represents a cached forecast with metadata
type ForecastCacheEntry struct {
	Result    models.ForecastResult `json:"result"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// ForecastCacheStats tracks cache performance metrics
type ForecastCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// ForecastCache stores serialized forecast results in Redis so repeated
// requests for the same series/model/horizon skip refitting. All Redis
// failures degrade to a cache miss.
type ForecastCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *ForecastCacheStats
	prefix string
	logger *logrus.Logger
}

// NewForecastCache creates a Redis-backed forecast cache
func NewForecastCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *ForecastCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &ForecastCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &ForecastCacheStats{},
		prefix: "forecast_cache:",
		logger: logger,
	}
}

// Key derives a stable cache key from the request inputs. The series is
// hashed so long histories do not blow up key size.
func Key(series models.TimeSeries, model string, horizon int) string {
	h := sha256.New()
	for _, pt := range series {
		fmt.Fprintf(h, "%d:%g;", pt.Period.Unix(), pt.Value)
	}
	return fmt.Sprintf("%s:%d:%s", model, horizon, hex.EncodeToString(h.Sum(nil))[:16])
}

// Get retrieves a cached forecast result
func (c *ForecastCache) Get(ctx context.Context, key string) (*models.ForecastResult, bool) {
	cacheKey := c.prefix + key

	data, err := c.redis.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error getting forecast")
		c.recordMiss()
		return nil, false
	}

	var entry ForecastCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Error deserializing cached forecast")
		c.recordMiss()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	return &entry.Result, true
}

// Set stores a forecast result with the configured TTL
func (c *ForecastCache) Set(ctx context.Context, key string, result *models.ForecastResult) {
	cacheKey := c.prefix + key

	now := time.Now()
	entry := ForecastCacheEntry{
		Result:    *result,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Error serializing forecast")
		return
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error setting forecast")
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

func (c *ForecastCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

// GetStats returns current cache statistics
func (c *ForecastCache) GetStats() ForecastCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return ForecastCacheStats{
		Hits:   c.stats.Hits,
		Misses: c.stats.Misses,
		Sets:   c.stats.Sets,
	}
}

// LogStats logs current cache performance statistics
func (c *ForecastCache) LogStats() {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}

	c.logger.WithFields(logrus.Fields{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"sets":     stats.Sets,
		"hit_rate": fmt.Sprintf("%.2f%%", hitRate),
	}).Info("Forecast cache stats")
}

// Clear removes all cached forecasts (useful for testing or invalidation)
func (c *ForecastCache) Clear(ctx context.Context) error {
	pattern := c.prefix + "*"

	var keys []string
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("error clearing cache: %w", err)
	}

	c.logger.WithField("entries", len(keys)).Info("Cleared forecast cache")
	return nil
}
