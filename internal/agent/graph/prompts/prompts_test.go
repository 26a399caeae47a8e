package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/model"
)

func TestRenderRouteIntent(t *testing.T) {
	msgs, err := RenderRouteIntent(context.Background(), `{"departure_city":"Paris"}`, "human: hi")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, `{"departure_city":"Paris"}`)
	assert.Contains(t, msgs[0].Content, "human: hi")
	assert.Contains(t, msgs[0].Content, `{"intent": "chat"}`)
}

func TestRenderUpdateDetailsAnchorsDate(t *testing.T) {
	msgs, err := RenderUpdateDetails(context.Background(), model.NewDate(2025, 9, 1), "{}", "human: next friday")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "2025-09-01 (Monday)")
}

func TestRenderRequestMissing(t *testing.T) {
	msgs, err := RenderRequestMissing(context.Background(), "{}", []string{"departure_city", "departure_date"}, "")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "departure_city, departure_date")
}

func TestRenderChatKeepsDialogueOrder(t *testing.T) {
	dialogue := []*schema.Message{schema.UserMessage("hi"), schema.AssistantMessage("hello", nil), schema.UserMessage("is Hossegor nice?")}
	msgs, err := RenderChat(context.Background(), "", dialogue)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "is Hossegor nice?", msgs[3].Content)
}

func TestRenderPlanNamesTools(t *testing.T) {
	scratch := []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{ID: "call_1_0", Function: schema.FunctionCall{Name: "check_calendar"}}}),
		schema.ToolMessage("2025-09-06: Free all day", "call_1_0"),
	}
	msgs, err := RenderPlan(context.Background(), "{}", "[]", []*schema.Message{schema.UserMessage("go")}, scratch)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[0].Content, "check_calendar")
	assert.Contains(t, msgs[0].Content, "find_train_tickets")
	assert.Equal(t, schema.Tool, msgs[3].Role)
}

func TestConditionDefaults(t *testing.T) {
	msgs, err := RenderValidateForecast(context.Background(), "", "[]")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "Desired conditions: any")

	msgs, err = RenderInformBadSurf(context.Background(), "waist high", "[]")
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "waist high")

	msgs, err = RenderSummarize(context.Background(), "{}", "[]")
	require.NoError(t, err)
	assert.NotEmpty(t, msgs[0].Content)
}
