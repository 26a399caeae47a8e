package prompts

import (
	"context"
	_ "embed"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
)

//go:embed template/route_intent.txt
var routeIntentPrompt string

//go:embed template/update_details.txt
var updateDetailsPrompt string

//go:embed template/request_missing.txt
var requestMissingPrompt string

// RenderRouteIntent renders the intent classification prompt.
func RenderRouteIntent(ctx context.Context, tripDetails, history string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(routeIntentPrompt))
	return render(ctx, "route intent", tpl, map[string]any{
		"TripDetails": tripDetails,
		"History":     history,
	})
}

// RenderUpdateDetails renders the trip detail extraction prompt. today anchors
// relative dates in the user's message.
func RenderUpdateDetails(ctx context.Context, today model.Date, tripDetails, history string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(updateDetailsPrompt))
	return render(ctx, "update details", tpl, map[string]any{
		"CurrentDate":    today.String(),
		"CurrentWeekday": today.Weekday().String(),
		"TripDetails":    tripDetails,
		"History":        history,
	})
}

// RenderRequestMissing renders the follow-up question prompt for absent mandatory fields.
func RenderRequestMissing(ctx context.Context, tripDetails string, missing []string, history string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(requestMissingPrompt))
	return render(ctx, "request missing", tpl, map[string]any{
		"TripDetails": tripDetails,
		"Missing":     strings.Join(missing, ", "),
		"History":     history,
	})
}
