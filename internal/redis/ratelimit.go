// Package redis holds redis-backed infrastructure shared by the API:
// currently the per-user rate limiter guarding chat message writes.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig bounds how fast a single user may post messages.
type RateLimitConfig struct {
	MessageLimit  int
	MessageWindow time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MessageLimit:  60,
		MessageWindow: 60 * time.Second,
	}
}

// RateLimiter enforces fixed-window counters in redis, shared across
// API instances.
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: config}
}

// AllowMessage checks and consumes one unit of the user's message quota.
func (r *RateLimiter) AllowMessage(ctx context.Context, userID string) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:messages", userID)
	return r.checkLimit(ctx, key, r.config.MessageLimit, r.config.MessageWindow)
}

// checkLimit increments the window counter atomically so concurrent
// requests cannot exceed the limit between read and write.
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	script := goredis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		local ttl = redis.call('TTL', key)
		if ttl < 0 then
			ttl = window
		end

		if current < limit then
			redis.call('INCR', key)
			if ttl == window then
				redis.call('EXPIRE', key, window)
			end
			return {1, limit - current - 1, ttl}
		else
			return {0, 0, ttl}
		end
	`)

	result, err := script.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	return &RateLimitResult{
		Allowed:   resultSlice[0].(int64) == 1,
		Remaining: int(resultSlice[1].(int64)),
		ResetIn:   time.Duration(resultSlice[2].(int64)) * time.Second,
		Limit:     limit,
	}, nil
}
