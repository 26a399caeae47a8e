package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
)

func toolsConfig() *AppConfig {
	return &AppConfig{Tools: model.ToolsConfig{
		NavitiaAPIKey:      "key",
		NavitiaCoverage:    "sncf",
		NominatimUserAgent: "test",
		CacheTTL:           "30m",
		HTTPTimeout:        "5s",
	}}
}

func TestBuildTools(t *testing.T) {
	handlers, err := buildTools(toolsConfig())
	require.NoError(t, err)

	reg, err := tools.NewRegistry(handlers)
	require.NoError(t, err)
	assert.Equal(t, []string{tools.ToolCheckCalendar, tools.ToolGetSurfForecast, tools.ToolFindTrainTickets}, reg.Names())
}

func TestBuildToolsWithCalendarFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - start: 2025-09-05\n"), 0o600))

	cfg := toolsConfig()
	cfg.Tools.CalendarFile = path
	_, err := buildTools(cfg)
	require.NoError(t, err)

	cfg.Tools.CalendarFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = buildTools(cfg)
	assert.Error(t, err)
}

func TestBuildToolsInvalidTimeout(t *testing.T) {
	cfg := toolsConfig()
	cfg.Tools.HTTPTimeout = "soon"
	_, err := buildTools(cfg)
	assert.Error(t, err)
}

func TestPlainPrinter(t *testing.T) {
	assert.Equal(t, "## Plan", newPrinter(false)("## Plan"))
}
