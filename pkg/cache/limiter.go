package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowLimiter counts hits per key in fixed windows stored in Redis.
type WindowLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

// NewWindowLimiter allows limit hits per key within each window.
func NewWindowLimiter(client redis.Cmdable, prefix string, limit int, window time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow records a hit for key and reports whether it is still within the limit.
func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UTC().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", redisKey, err)
	}
	return incr.Val() <= int64(l.limit), nil
}
