package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

const keyPrefix = "surfplanner:tool"

// RedisToolCache stores tool results as JSON strings with a TTL.
type RedisToolCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisToolCache(rdb redis.Cmdable, ttl time.Duration) *RedisToolCache {
	return &RedisToolCache{rdb: rdb, ttl: ttl}
}

func (r *RedisToolCache) resultKey(tool, arguments string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, tool, arguments)
}

func (r *RedisToolCache) Get(ctx context.Context, tool, arguments string) (model.ToolResult, bool, error) {
	key := r.resultKey(tool, arguments)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ToolResult{}, false, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read tool result from redis")
		return model.ToolResult{}, false, errx.WrapCache(errx.CacheRead, tool, err)
	}

	var res model.ToolResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal cached tool result")
		return model.ToolResult{}, false, fmt.Errorf("unmarshal cached %s result: %w", tool, err)
	}
	return res, true, nil
}

func (r *RedisToolCache) Set(ctx context.Context, tool, arguments string, result model.ToolResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		logx.Error().Err(err).Str("tool", tool).Msg("failed to marshal tool result")
		return fmt.Errorf("marshal %s result: %w", tool, err)
	}
	key := r.resultKey(tool, arguments)

	// a zero TTL keeps the entry until evicted
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write tool result to redis")
		return errx.WrapCache(errx.CacheWrite, tool, err)
	}
	return nil
}

// Invalidate drops every cached result of tool.
func (r *RedisToolCache) Invalidate(ctx context.Context, tool string) (int, error) {
	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, tool)

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logx.Error().Err(err).Str("pattern", pattern).Msg("failed to scan tool cache keys")
			return deleted, errx.WrapCache(errx.CacheScan, tool, err)
		}
		if len(keys) > 0 {
			n, err := r.rdb.Del(ctx, keys...).Result()
			if err != nil {
				logx.Error().Err(err).Str("pattern", pattern).Msg("failed to delete tool cache keys")
				return deleted, errx.WrapCache(errx.CacheDelete, tool, err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

var _ tools.ResultCache = (*RedisToolCache)(nil)
