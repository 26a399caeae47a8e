package model

import (
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *Date {
	v := NewDate(y, m, d)
	return &v
}

func TestApplyTripDetailsOverwriteOnlyGivenRecord(t *testing.T) {
	s := NewConversationState("hi")
	s.TripDetails = TripDetails{DepartureCity: "Paris", DesiredSurfConditions: "1-2m"}

	merged, err := s.TripDetails.Merge(map[string]any{"destination_city": "Bayonne"})
	require.NoError(t, err)

	next := s.Apply(Update{TripDetails: &merged})
	assert.Equal(t, "Paris", next.TripDetails.DepartureCity)
	assert.Equal(t, "Bayonne", next.TripDetails.DestinationCity)
	assert.Equal(t, "1-2m", next.TripDetails.DesiredSurfConditions)

	// the previous state is left untouched
	assert.Empty(t, s.TripDetails.DestinationCity)
}

func TestApplyWithoutTripDetailsKeepsRecord(t *testing.T) {
	s := NewConversationState("hi")
	s.TripDetails = TripDetails{DepartureCity: "Paris", DepartureDate: datePtr(2025, 9, 5)}

	next := s.Apply(Update{CurrentIntent: IntentChat})
	if diff := cmp.Diff(s.TripDetails, next.TripDetails); diff != "" {
		t.Fatalf("trip details changed (-before +after):\n%s", diff)
	}
}

func TestApplyMessagesAppendOnly(t *testing.T) {
	s := NewConversationState("first")
	next := s.Apply(Update{Messages: []*schema.Message{schema.AssistantMessage("second", nil)}})
	next = next.Apply(Update{})

	require.Len(t, next.Messages, 2)
	assert.Equal(t, "first", next.Messages[0].Content)
	assert.Equal(t, "second", next.Messages[1].Content)
	assert.Len(t, s.Messages, 1)
}

func TestApplyAccumulatorsNeverShrink(t *testing.T) {
	sat := NewDate(2025, 9, 6)
	sun := NewDate(2025, 9, 7)
	updates := []Update{
		{SurfForecasts: []SurfForecast{{Date: sat, Spot: "Bayonne", WaveHeightM: 1.2}}},
		{},
		{SurfForecasts: []SurfForecast{{Date: sat, Spot: "Bayonne", WaveHeightM: 1.2}, {Date: sun, Spot: "Bayonne"}}},
		{CalendarAvailabilities: []DayAvailability{{Date: sat, MeetingsEndAt: sat.Time}}},
		{Error: "boom"},
	}

	s := NewConversationState("go")
	prevForecasts, prevCalendar := 0, 0
	for _, u := range updates {
		s = s.Apply(u)
		assert.GreaterOrEqual(t, len(s.SurfForecasts), prevForecasts)
		assert.GreaterOrEqual(t, len(s.CalendarAvailabilities), prevCalendar)
		prevForecasts, prevCalendar = len(s.SurfForecasts), len(s.CalendarAvailabilities)
	}

	// the repeated Saturday record is deduplicated
	assert.Len(t, s.SurfForecasts, 2)
	assert.Len(t, s.CalendarAvailabilities, 1)
	assert.Equal(t, "boom", s.Error)
}

func TestApplyCountersAdd(t *testing.T) {
	s := NewConversationState("go")
	s = s.Apply(Update{PlanningRounds: 1, CostUSD: 0.5})
	s = s.Apply(Update{PlanningRounds: 1, CostUSD: 0.25})
	assert.Equal(t, 2, s.PlanningRounds)
	assert.InDelta(t, 0.75, s.TotalCostUSD, 1e-9)
}

func TestIntentOverwrittenEachPass(t *testing.T) {
	s := NewConversationState("go").Apply(Update{CurrentIntent: IntentChat})
	s = s.Apply(Update{CurrentIntent: IntentUpdateDetails})
	assert.Equal(t, IntentUpdateDetails, s.CurrentIntent)
}

func TestPendingToolCalls(t *testing.T) {
	s := NewConversationState("go")
	assert.Empty(t, s.PendingToolCalls())

	s = s.Apply(Update{Messages: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{ID: "1", Function: schema.FunctionCall{Name: "check_calendar"}}}),
	}})
	require.Len(t, s.PendingToolCalls(), 1)

	s = s.Apply(Update{Messages: []*schema.Message{schema.ToolMessage("ok", "1")}})
	assert.Empty(t, s.PendingToolCalls())
}

func TestNextTurnClearsTransientFields(t *testing.T) {
	s := NewConversationState("plan a trip").Apply(Update{
		Messages:       []*schema.Message{schema.AssistantMessage("where to?", nil)},
		TripDetails:    &TripDetails{DepartureCity: "Paris"},
		CurrentIntent:  IntentUpdateDetails,
		Error:          "x",
		SurfForecasts:  []SurfForecast{{Date: NewDate(2025, 9, 6), Spot: "Hossegor"}},
		PlanningRounds: 2,
		CostUSD:        1,
	})
	s.RunID = "run-1"

	next := s.NextTurn("Hossegor")
	require.Len(t, next.Messages, 3)
	assert.Equal(t, schema.User, next.Messages[2].Role)
	assert.Equal(t, "Paris", next.TripDetails.DepartureCity)
	assert.Empty(t, next.SurfForecasts)
	assert.Empty(t, next.CurrentIntent)
	assert.Empty(t, next.Error)
	assert.Empty(t, next.RunID)
	assert.Zero(t, next.PlanningRounds)
	assert.Zero(t, next.TotalCostUSD)
}

func TestNextTurnKeepsRefetchedRecords(t *testing.T) {
	day := NewDate(2025, 9, 6)
	s := NewConversationState("Bayonne").Apply(Update{
		SurfForecasts:          []SurfForecast{{Date: day, Spot: "Bayonne", WaveHeightM: 0.3}},
		CalendarAvailabilities: []DayAvailability{{Date: day}},
		TrainOptions:           []TrainOption{{Date: day, Origin: "Paris", Destination: "Bayonne"}},
	})

	next := s.NextTurn("check again").Apply(Update{
		SurfForecasts: []SurfForecast{{Date: day, Spot: "Bayonne", WaveHeightM: 1.5}},
	})
	require.Len(t, next.SurfForecasts, 1)
	assert.Equal(t, 1.5, next.SurfForecasts[0].WaveHeightM)
	assert.Empty(t, next.CalendarAvailabilities)
	assert.Empty(t, next.TrainOptions)
	// the previous turn is untouched
	assert.Equal(t, 0.3, s.SurfForecasts[0].WaveHeightM)
}

func TestReplySkipsToolCallingMessages(t *testing.T) {
	s := NewConversationState("go").Apply(Update{Messages: []*schema.Message{
		schema.AssistantMessage("summary", nil),
		schema.AssistantMessage("", []schema.ToolCall{{ID: "1"}}),
	}})
	assert.Equal(t, "summary", s.Reply())
}
