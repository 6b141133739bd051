// Package ratelimit implements fixed-window request counting, in Redis when
// available and in process otherwise.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes one counted request.
type Result struct {
	Allowed   bool
	Count     int
	Remaining int
	Reset     time.Time
}

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// windowKey buckets now into a window and returns the bucket key and its end.
func windowKey(key string, now time.Time, window time.Duration) (string, time.Time) {
	size := int64(window / time.Second)
	if size <= 0 {
		size = 1
	}
	bucket := now.Unix() / size
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket), time.Unix((bucket+1)*size, 0)
}

func result(count, limit int, reset time.Time) Result {
	return Result{
		Allowed:   count <= limit,
		Count:     count,
		Remaining: max(limit-count, 0),
		Reset:     reset,
	}
}

type RedisLimiter struct {
	redis *redis.Client
	now   func() time.Time
}

func NewRedisLimiter(ctx context.Context, redisURL string) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &RedisLimiter{redis: client, now: time.Now}, nil
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	k, reset := windowKey(key, rl.now(), window)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}
	return result(int(incr.Val()), limit, reset), nil
}

func (rl *RedisLimiter) Close() error {
	return rl.redis.Close()
}

// MemoryLimiter counts per process. Expired buckets are dropped lazily.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	resets map[string]time.Time
	now    func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counts: map[string]int{},
		resets: map[string]time.Time{},
		now:    time.Now,
	}
}

func (ml *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := ml.now()
	k, reset := windowKey(key, now, window)

	ml.mu.Lock()
	defer ml.mu.Unlock()
	for old, r := range ml.resets {
		if !now.Before(r) {
			delete(ml.resets, old)
			delete(ml.counts, old)
		}
	}
	ml.counts[k]++
	ml.resets[k] = reset
	return result(ml.counts[k], limit, reset), nil
}
