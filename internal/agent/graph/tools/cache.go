package tools

import (
	"context"

	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// ResultCache stores successful tool results keyed by tool name and
// canonical arguments.
type ResultCache interface {
	Get(ctx context.Context, tool, arguments string) (model.ToolResult, bool, error)
	Set(ctx context.Context, tool, arguments string, result model.ToolResult) error
}

type cachedHandler struct {
	Handler
	cache ResultCache
}

// Cached wraps h so that successful results are served from cache. Cache
// failures are logged and the call goes through to h.
func Cached(h Handler, cache ResultCache) Handler {
	if cache == nil {
		return h
	}
	return &cachedHandler{Handler: h, cache: cache}
}

func (c *cachedHandler) Invoke(ctx context.Context, arguments string) (model.ToolResult, error) {
	name := c.Info().Name
	key, err := CanonicalArguments(arguments)
	if err != nil {
		return c.Handler.Invoke(ctx, arguments)
	}

	res, hit, err := c.cache.Get(ctx, name, key)
	if err != nil {
		logx.Warn().Err(err).Str("tool", name).Msg("Tool cache read failed")
	} else if hit {
		logx.Debug().Str("tool", name).Msg("Tool cache hit")
		return res, nil
	}

	res, err = c.Handler.Invoke(ctx, arguments)
	if err != nil {
		return res, err
	}
	if err := c.cache.Set(ctx, name, key, res); err != nil {
		logx.Warn().Err(err).Str("tool", name).Msg("Tool cache write failed")
	}
	return res, nil
}
