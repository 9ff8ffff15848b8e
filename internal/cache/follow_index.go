// Package cache keeps read-through Redis copies of hot per-user data.
// Every type is safe to use with a nil client, in which case reads go straight to the loader.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/inkwell/config"
	"github.com/d60-Lab/inkwell/pkg/logger"
)

// NewClient connects to Redis, or returns nil when it is disabled.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// Edge selects one direction of the follow graph.
type Edge string

const (
	Following Edge = "following"
	Fans      Edge = "fans"
)

// Loader returns the full id list of one user, newest edge first.
type Loader func(ctx context.Context, userID string) ([]string, error)

// FollowIndex caches follow id lists as Redis lists and serves pages with LRANGE.
type FollowIndex struct {
	rdb   *redis.Client
	ttl   time.Duration
	loads atomic.Int64
}

func NewFollowIndex(rdb *redis.Client, ttl time.Duration) *FollowIndex {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FollowIndex{rdb: rdb, ttl: ttl}
}

func indexKey(edge Edge, userID string) string {
	return fmt.Sprintf("inkwell:%s:%s", edge, userID)
}

// Enabled reports whether a Redis client backs the index.
func (x *FollowIndex) Enabled() bool { return x.rdb != nil }

// Page returns ids[offset:offset+limit] and the list length.
func (x *FollowIndex) Page(ctx context.Context, edge Edge, userID string, offset, limit int, load Loader) ([]string, int64, error) {
	if x.rdb != nil {
		ids, total, ok := x.cachedPage(ctx, indexKey(edge, userID), offset, limit)
		if ok {
			return ids, total, nil
		}
	}

	all, err := x.loadAndStore(ctx, edge, userID, load)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []string{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (x *FollowIndex) cachedPage(ctx context.Context, key string, offset, limit int) ([]string, int64, bool) {
	var (
		rng  *redis.StringSliceCmd
		size *redis.IntCmd
	)
	_, err := x.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		size = p.LLen(ctx, key)
		rng = p.LRange(ctx, key, int64(offset), int64(offset+limit-1))
		return nil
	})
	if err != nil {
		logger.Warn("follow index read failed", zap.String("key", key), zap.Error(err))
		return nil, 0, false
	}
	// 空列表在 Redis 中等同于不存在
	if size.Val() == 0 {
		return nil, 0, false
	}
	return rng.Val(), size.Val(), true
}

func (x *FollowIndex) loadAndStore(ctx context.Context, edge Edge, userID string, load Loader) ([]string, error) {
	x.loads.Add(1)
	ids, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if x.rdb == nil || len(ids) == 0 {
		return ids, nil
	}
	key := indexKey(edge, userID)
	_, err = x.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.RPush(ctx, key, toArgs(ids)...)
		p.Expire(ctx, key, x.ttl)
		return nil
	})
	if err != nil {
		logger.Warn("follow index write failed", zap.String("key", key), zap.Error(err))
	}
	return ids, nil
}

// Invalidate drops the lists touched by a change of the edge follower -> followee.
func (x *FollowIndex) Invalidate(ctx context.Context, followerID, followeeID string) {
	if x.rdb == nil {
		return
	}
	if err := x.rdb.Del(ctx, indexKey(Following, followerID), indexKey(Fans, followeeID)).Err(); err != nil {
		logger.Warn("follow index invalidate failed",
			zap.String("follower", followerID), zap.String("followee", followeeID), zap.Error(err))
	}
}

// Forget drops both lists of a user.
func (x *FollowIndex) Forget(ctx context.Context, userID string) {
	if x.rdb == nil {
		return
	}
	_ = x.rdb.Del(ctx, indexKey(Following, userID), indexKey(Fans, userID)).Err()
}

// Loads reports how many times a loader was called.
func (x *FollowIndex) Loads() int64 { return x.loads.Load() }

func toArgs(strs []string) []any {
	out := make([]any, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}
