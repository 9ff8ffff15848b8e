package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/pkg/logger"
)

// Counter caches a per-user integer, such as the unread notification count.
type Counter struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCounter(rdb *redis.Client, name string, ttl time.Duration) *Counter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Counter{rdb: rdb, prefix: "inkwell:" + name + ":", ttl: ttl}
}

func (c *Counter) Get(ctx context.Context, userID string, load func(context.Context) (int64, error)) (int64, error) {
	if c.rdb == nil {
		return load(ctx)
	}
	key := c.prefix + userID
	n, err := c.rdb.Get(ctx, key).Int64()
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Warn("counter read failed", zap.String("key", key), zap.Error(err))
	}

	n, err = load(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.rdb.Set(ctx, key, n, c.ttl).Err(); err != nil {
		logger.Warn("counter write failed", zap.String("key", key), zap.Error(err))
	}
	return n, nil
}

func (c *Counter) Forget(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.prefix+userID).Err()
}
