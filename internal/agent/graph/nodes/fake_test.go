package nodes

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
)

// scriptedModel replays canned replies in order.
type scriptedModel struct {
	mu      sync.Mutex
	replies []*schema.Message
	err     error
	inputs  [][]*schema.Message
}

func newScripted(replies ...*schema.Message) *scriptedModel {
	return &scriptedModel{replies: replies}
}

func (m *scriptedModel) Generate(_ context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.replies) == 0 {
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

type stubEvents struct{}

func (stubEvents) Events(context.Context, time.Time, time.Time) ([]model.CalendarEvent, error) {
	return nil, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Locate(_ context.Context, place string) (model.Coordinates, error) {
	return model.Coordinates{Name: place}, nil
}

type stubForecaster struct {
	err error
}

func (f stubForecaster) DailyConditions(_ context.Context, _ model.Coordinates, from, to model.Date) ([]model.DailyConditions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.DailyConditions{
		{Date: from, WaveHeightM: 1.5, WavePeriodS: 11, WindSpeedKmh: 10},
		{Date: to, WaveHeightM: 1.2, WavePeriodS: 10, WindSpeedKmh: 14},
	}, nil
}

type stubPlanner struct {
	err error
}

func (p stubPlanner) Journeys(_ context.Context, origin, destination string, from time.Time) ([]model.Journey, error) {
	if p.err != nil {
		return nil, p.err
	}
	day := model.DateOf(from)
	return []model.Journey{{
		Origin: origin, Destination: destination,
		Departure: day.At(9, 0, time.UTC), Arrival: day.At(13, 0, time.UTC), Duration: 4 * time.Hour,
	}}, nil
}

func testRegistry(t *testing.T, forecastErr, trainErr error) *tools.Registry {
	t.Helper()
	reg, err := tools.NewRegistry([]tools.Handler{
		tools.NewCheckCalendarTool(stubEvents{}),
		tools.NewSurfForecastTool(stubGeocoder{}, stubForecaster{err: forecastErr}),
		tools.NewFindTrainTicketsTool(stubPlanner{err: trainErr}),
	})
	require.NoError(t, err)
	return reg
}

func testDeps(t *testing.T, chat, planner ChatModel) *Deps {
	return &Deps{
		Chat:    chat,
		Planner: planner,
		Tools:   testRegistry(t, nil, nil),
		Clock:   func() time.Time { return time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC) },
		Limits:  Limits{MaxPlanningRounds: 3},
	}
}

func completeTrip() model.TripDetails {
	dep := model.NewDate(2025, 9, 5)
	return model.TripDetails{DepartureCity: "Paris", DestinationCity: "Bayonne", DepartureDate: &dep}
}
