package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/graph/tools"
)

//go:embed template/chat.txt
var chatPrompt string

//go:embed template/validate_forecast.txt
var validateForecastPrompt string

//go:embed template/inform_bad_surf.txt
var informBadSurfPrompt string

//go:embed template/plan.txt
var planPrompt string

//go:embed template/summarize.txt
var summarizePrompt string

// DefaultConditions stands in for desired surf conditions the user never gave.
const DefaultConditions = "any"

// RenderChat renders the small-talk prompt: a system message followed by the dialogue.
func RenderChat(ctx context.Context, tripDetails string, dialogue []*schema.Message) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(chatPrompt),
		schema.MessagesPlaceholder("chat_history", true),
	)
	return render(ctx, "chat", tpl, map[string]any{
		"TripDetails":  tripDetails,
		"chat_history": dialogue,
	})
}

// RenderValidateForecast renders the yes/no forecast judgment prompt.
func RenderValidateForecast(ctx context.Context, desired, forecast string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(validateForecastPrompt))
	return render(ctx, "validate forecast", tpl, conditionVars(desired, forecast))
}

// RenderInformBadSurf renders the prompt explaining why the trip is not advisable.
func RenderInformBadSurf(ctx context.Context, desired, forecast string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(informBadSurfPrompt))
	return render(ctx, "inform bad surf", tpl, conditionVars(desired, forecast))
}

// RenderPlan renders the planner context: instructions, then the dialogue,
// then the tool-calling scratchpad of the current planning loop.
func RenderPlan(ctx context.Context, tripDetails, toolData string, history, scratchpad []*schema.Message) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate,
		schema.SystemMessage(planPrompt),
		schema.MessagesPlaceholder("chat_history", true),
		schema.MessagesPlaceholder("agent_scratchpad", true),
	)
	return render(ctx, "plan", tpl, map[string]any{
		"TripDetails":      tripDetails,
		"ToolData":         toolData,
		"CalendarTool":     tools.ToolCheckCalendar,
		"TrainTool":        tools.ToolFindTrainTickets,
		"SurfTool":         tools.ToolGetSurfForecast,
		"chat_history":     history,
		"agent_scratchpad": scratchpad,
	})
}

// RenderSummarize renders the final synthesis prompt.
func RenderSummarize(ctx context.Context, tripDetails, toolData string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(summarizePrompt))
	return render(ctx, "summarize", tpl, map[string]any{
		"TripDetails": tripDetails,
		"ToolData":    toolData,
	})
}

func conditionVars(desired, forecast string) map[string]any {
	if desired == "" {
		desired = DefaultConditions
	}
	return map[string]any{
		"DesiredConditions": desired,
		"ForecastData":      forecast,
	}
}

func render(ctx context.Context, name string, tpl prompt.ChatTemplate, vars map[string]any) ([]*schema.Message, error) {
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("%s prompt render: empty result", name)
	}
	return msgs, nil
}
