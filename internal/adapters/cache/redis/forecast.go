// Package redis caches gateway results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

const ForecastTTL = 24 * time.Hour

// Store is the part of the go-redis client the cache needs.
// *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewClient opens a go-redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
}

// ForecastCache decorates a Gateway so each user's forecast is computed at
// most once per UTC day. Redis failures never fail the call; the wrapped
// gateway is used directly instead.
type ForecastCache struct {
	domain.Gateway
	store Store
	now   func() time.Time
}

func NewForecastCache(next domain.Gateway, store Store) *ForecastCache {
	return &ForecastCache{
		Gateway: next,
		store:   store,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to pick the cache day.
func (c *ForecastCache) WithClock(now func() time.Time) *ForecastCache {
	c.now = now
	return c
}

func ForecastKey(userID domain.UserID, day time.Time) string {
	return fmt.Sprintf("forecast:%s:%s", userID, day.UTC().Format(time.DateOnly))
}

func (c *ForecastCache) GetForecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastResult, error) {
	log := observability.LoggerFromContext(ctx)
	key := ForecastKey(req.UserID, c.now())

	raw, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached domain.ForecastResult
		jerr := json.Unmarshal(raw, &cached)
		if jerr == nil {
			log.Debug("forecast cache hit", "key", key)
			return cached, nil
		}
		log.Warn("discarding unreadable cached forecast", "key", key, "error", jerr)
	case errors.Is(err, redis.Nil):
	default:
		log.Warn("forecast cache read failed", "key", key, "error", err)
	}

	res, err := c.Gateway.GetForecast(ctx, req)
	if err != nil {
		return res, err
	}

	b, err := json.Marshal(res)
	if err != nil {
		log.Warn("forecast not cacheable", "error", err)
		return res, nil
	}
	if err := c.store.Set(ctx, key, b, ForecastTTL).Err(); err != nil {
		log.Warn("forecast cache write failed", "key", key, "error", err)
	}
	return res, nil
}
