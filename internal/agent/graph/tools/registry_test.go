package tools

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

func TestRegistry(t *testing.T) {
	var calls []string
	reg, err := NewRegistry([]Handler{
		NewCheckCalendarTool(FreeCalendar{}),
		NewFindTrainTicketsTool(fakePlanner{}),
	}, WithObserver(func(name string, _ time.Duration, err error) {
		calls = append(calls, name)
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{ToolCheckCalendar, ToolFindTrainTickets}, reg.Names())
	require.Len(t, reg.Infos(), 2)
	assert.Equal(t, ToolCheckCalendar, reg.Infos()[0].Name)

	_, ok := reg.Lookup(ToolGetSurfForecast)
	assert.False(t, ok)

	res, err := reg.Invoke(context.Background(), ToolCheckCalendar, `{"from_date":"2025-09-06","to_date":"2025-09-06"}`)
	require.NoError(t, err)
	assert.Len(t, res.Availabilities, 1)

	_, err = reg.Invoke(context.Background(), "book_hotel", `{}`)
	assert.ErrorIs(t, err, errx.ErrUnknownTool)
	assert.Equal(t, []string{ToolCheckCalendar, "book_hotel"}, calls)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Handler{NewCheckCalendarTool(FreeCalendar{}), NewCheckCalendarTool(FreeCalendar{})})
	assert.Error(t, err)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]model.ToolResult
	sets int
}

func (m *mapCache) Get(_ context.Context, tool, args string) (model.ToolResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.data[tool+args]
	return r, ok, nil
}

func (m *mapCache) Set(_ context.Context, tool, args string, r model.ToolResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[tool+args] = r
	m.sets++
	return nil
}

type countingForecaster struct {
	calls int
}

func (c *countingForecaster) DailyConditions(_ context.Context, _ model.Coordinates, from, _ model.Date) ([]model.DailyConditions, error) {
	c.calls++
	return []model.DailyConditions{{Date: from, WaveHeightM: 1}}, nil
}

func TestCachedServesRepeatedCalls(t *testing.T) {
	fc := &countingForecaster{}
	cache := &mapCache{data: map[string]model.ToolResult{}}
	h := Cached(NewSurfForecastTool(fakeGeocoder{}, fc), cache)

	args := `{"spot":"Biarritz","from_date":"2025-09-06","to_date":"2025-09-07"}`
	first, err := h.Invoke(context.Background(), args)
	require.NoError(t, err)
	second, err := h.Invoke(context.Background(), `{"to_date":"2025-09-07","from_date":"2025-09-06","spot":"Biarritz"}`)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, ToolGetSurfForecast, h.Info().Name)
}

func TestCachedSkipsFailures(t *testing.T) {
	cache := &mapCache{data: map[string]model.ToolResult{}}
	h := Cached(NewFindTrainTicketsTool(fakePlanner{}), cache)

	_, err := h.Invoke(context.Background(), `{"origin":"Paris","destination":"Bayonne","from_datetime":"2025-09-05T06:00:00"}`)
	assert.Error(t, err)
	assert.Zero(t, cache.sets)
}
