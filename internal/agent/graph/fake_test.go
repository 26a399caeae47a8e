package graph

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/graph/nodes"
	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
)

type scriptedModel struct {
	mu      sync.Mutex
	replies []*schema.Message
	// repeat, when set, is returned once the script is exhausted.
	repeat *schema.Message
	calls  int
}

func newScripted(replies ...*schema.Message) *scriptedModel {
	return &scriptedModel{replies: replies}
}

func (m *scriptedModel) Generate(_ context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.replies) == 0 {
		if m.repeat != nil {
			cp := *m.repeat
			return &cp, nil
		}
		return nil, errors.New("no scripted reply left")
	}
	out := m.replies[0]
	m.replies = m.replies[1:]
	return out, nil
}

func text(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

func toolCalls(calls ...schema.ToolCall) *schema.Message {
	return schema.AssistantMessage("", calls)
}

func call(id, name, args string) schema.ToolCall {
	return schema.ToolCall{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}}
}

type fakeCalendar struct{}

func (fakeCalendar) Events(_ context.Context, from, _ time.Time) ([]model.CalendarEvent, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 10, 0, 0, 0, time.UTC)
	return []model.CalendarEvent{{Summary: "standup", Start: start, End: start.Add(2 * time.Hour)}}, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Locate(_ context.Context, place string) (model.Coordinates, error) {
	return model.Coordinates{Name: place, Latitude: 43.49, Longitude: -1.47}, nil
}

type fakeForecaster struct{}

func (fakeForecaster) DailyConditions(_ context.Context, _ model.Coordinates, from, to model.Date) ([]model.DailyConditions, error) {
	return []model.DailyConditions{
		{Date: from, WaveHeightM: 1.6, WavePeriodS: 12, WindSpeedKmh: 8},
		{Date: to, WaveHeightM: 1.4, WavePeriodS: 11, WindSpeedKmh: 12},
	}, nil
}

type fakeJourneys struct {
	err error
}

func (f fakeJourneys) Journeys(_ context.Context, origin, destination string, from time.Time) ([]model.Journey, error) {
	if f.err != nil {
		return nil, f.err
	}
	day := model.DateOf(from)
	return []model.Journey{{
		Origin: origin, Destination: destination,
		Departure: day.At(14, 10, time.UTC), Arrival: day.At(18, 25, time.UTC), Duration: 4*time.Hour + 15*time.Minute,
	}}, nil
}

func testDeps(t *testing.T, chat, planner nodes.ChatModel, trainErr error) *nodes.Deps {
	t.Helper()
	reg, err := tools.NewRegistry([]tools.Handler{
		tools.NewCheckCalendarTool(fakeCalendar{}),
		tools.NewSurfForecastTool(fakeGeocoder{}, fakeForecaster{}),
		tools.NewFindTrainTicketsTool(fakeJourneys{err: trainErr}),
	})
	require.NoError(t, err)
	return &nodes.Deps{
		Chat:    chat,
		Planner: planner,
		Tools:   reg,
		Clock:   func() time.Time { return time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC) },
		Limits:  nodes.Limits{MaxPlanningRounds: 3},
	}
}
