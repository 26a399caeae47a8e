package repo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

func newCache(t *testing.T, ttl time.Duration) (*RedisToolCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisToolCache(rdb, ttl), mr
}

func forecastResult() model.ToolResult {
	return model.ToolResult{Forecasts: []model.SurfForecast{
		{Date: model.NewDate(2025, 9, 6), Spot: "Bayonne", WaveHeightM: 1.5, WavePeriodS: 11, WindSpeedKmh: 9},
	}}
}

func TestRedisToolCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t, 30*time.Minute)
	args := `{"from_date":"2025-09-06","spot":"Bayonne","to_date":"2025-09-07"}`

	_, hit, err := cache.Get(ctx, "get_surf_forecast", args)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "get_surf_forecast", args, forecastResult()))
	key := "surfplanner:tool:get_surf_forecast:" + args
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Minute, mr.TTL(key))

	got, hit, err := cache.Get(ctx, "get_surf_forecast", args)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, forecastResult().String(), got.String())

	mr.FastForward(31 * time.Minute)
	_, hit, err = cache.Get(ctx, "get_surf_forecast", args)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisToolCacheCorruptEntry(t *testing.T) {
	cache, mr := newCache(t, 0)
	require.NoError(t, mr.Set("surfplanner:tool:check_calendar:{}", "not json"))

	_, hit, err := cache.Get(context.Background(), "check_calendar", "{}")
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestRedisToolCacheUnavailable(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "check_calendar", "{}")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
	assert.Contains(t, err.Error(), "check_calendar read: "+errx.CacheErrorMessage)

	err = cache.Set(context.Background(), "check_calendar", "{}", model.ToolResult{})
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
	assert.Contains(t, err.Error(), "check_calendar write: ")

	_, err = cache.Invalidate(context.Background(), "check_calendar")
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
	assert.Contains(t, err.Error(), "check_calendar scan: ")
}

func TestRedisToolCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t, time.Minute)

	require.NoError(t, cache.Set(ctx, "get_surf_forecast", `{"spot":"Bayonne"}`, forecastResult()))
	require.NoError(t, cache.Set(ctx, "get_surf_forecast", `{"spot":"Hossegor"}`, forecastResult()))
	require.NoError(t, cache.Set(ctx, "check_calendar", `{}`, model.ToolResult{}))

	n, err := cache.Invalidate(ctx, "get_surf_forecast")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, mr.Keys(), 1)
}
