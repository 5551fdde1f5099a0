package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wardstats/platform/pkg/common/logger"
)

const cacheKeyPrefix = "score:"

// Cache keeps computed reports in redis. Score requests are dashboard
// hot paths while ingestion is rare, so reports stay cached until their
// TTL or until an ingestion touches a month inside their range.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(start, end string, multiplier float64) string {
	return fmt.Sprintf("%s%s:%s:%g", cacheKeyPrefix, start, end, multiplier)
}

func (c *Cache) Get(ctx context.Context, start, end string, multiplier float64) (*Report, bool) {
	payload, err := c.client.Get(ctx, cacheKey(start, end, multiplier)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("score cache read failed")
		}
		return nil, false
	}

	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		logger.Log.WithError(err).Warn("score cache payload corrupt")
		return nil, false
	}
	return &report, true
}

func (c *Cache) Set(ctx context.Context, start, end string, multiplier float64, report *Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		logger.Log.WithError(err).Warn("score cache encode failed")
		return
	}
	if err := c.client.Set(ctx, cacheKey(start, end, multiplier), payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("score cache write failed")
	}
}

// InvalidateMonth drops every cached report whose range includes month.
func (c *Cache) InvalidateMonth(ctx context.Context, month string) error {
	if !IsValidMonth(month) {
		return nil
	}
	target := monthIndex(month)

	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		parts := strings.Split(key, ":")
		if len(parts) < 4 || !IsValidMonth(parts[1]) || !IsValidMonth(parts[2]) {
			continue
		}
		if target < monthIndex(parts[1]) || target > monthIndex(parts[2]) {
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
