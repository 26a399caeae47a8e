package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/redis/go-redis/v9"

	"github.com/surftrip-planner/server/internal/agent/graph"
	"github.com/surftrip-planner/server/internal/agent/graph/observers"
	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/repo"
	"github.com/surftrip-planner/server/internal/services"
	"github.com/surftrip-planner/server/internal/services/calendarfile"
	"github.com/surftrip-planner/server/internal/services/navitia"
	"github.com/surftrip-planner/server/internal/services/nominatim"
	"github.com/surftrip-planner/server/internal/services/openmeteo"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// app holds the wired planner and the resources to release afterwards.
type app struct {
	runner  graph.Runner
	metrics *observers.Metrics
	rdb     *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func newApp(ctx context.Context, cfg *AppConfig) (*app, error) {
	a := &app{metrics: observers.NewMetrics()}

	handlers, err := buildTools(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.Tools.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid TOOL_CACHE_TTL %q: %w", cfg.Tools.CacheTTL, err)
		}
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.rdb = rdb

		cache := repo.NewRedisToolCache(rdb, ttl)
		for i, h := range handlers {
			handlers[i] = tools.Cached(h, cache)
		}
		logx.Debug().Dur("ttl", ttl).Msg("Tool result cache enabled")
	}

	runner, err := graph.BuildPlannerGraph(ctx, graph.Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		ChatModel:    cfg.Chat,
		PlannerModel: cfg.Planner,
		Agent:        cfg.Agent,
		Tools:        handlers,
		Metrics:      a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	a.runner = runner
	return a, nil
}

func buildTools(cfg *AppConfig) ([]tools.Handler, error) {
	timeout, err := time.ParseDuration(cfg.Tools.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid TOOL_HTTP_TIMEOUT %q: %w", cfg.Tools.HTTPTimeout, err)
	}
	hc := services.NewHTTPClient(timeout)

	var events tools.EventSource = tools.FreeCalendar{}
	if cfg.Tools.CalendarFile != "" {
		cal, err := calendarfile.Open(cfg.Tools.CalendarFile)
		if err != nil {
			return nil, err
		}
		logx.Debug().Int("events", cal.Len()).Str("file", cfg.Tools.CalendarFile).Msg("Calendar loaded")
		events = cal
	}

	if cfg.Tools.NavitiaAPIKey == "" {
		logx.Warn().Msg("NAVITIA_API_KEY is not set, train searches will fail")
	}

	return []tools.Handler{
		tools.NewCheckCalendarTool(events),
		tools.NewSurfForecastTool(
			nominatim.New(cfg.Tools.NominatimUserAgent, nominatim.WithHTTPClient(hc)),
			openmeteo.New(openmeteo.WithHTTPClient(hc)),
		),
		tools.NewFindTrainTicketsTool(
			navitia.New(cfg.Tools.NavitiaAPIKey, navitia.WithCoverage(cfg.Tools.NavitiaCoverage), navitia.WithHTTPClient(hc)),
		),
	}, nil
}

// newPrinter returns the reply formatter selected by the --markdown flag.
func newPrinter(markdown bool) func(string) string {
	if !markdown {
		return func(s string) string { return s }
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		logx.Warn().Err(err).Msg("markdown renderer unavailable, printing raw text")
		return func(s string) string { return s }
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return out
	}
}
