package nodes

import (
	"context"
	"strings"

	"github.com/surftrip-planner/server/internal/agent/graph/prompts"
	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// Route picks the node that runs after the current one. Routes never modify s.
type Route func(ctx context.Context, s *model.ConversationState, d *Deps) (string, error)

func routed(s *model.ConversationState, from, to string) string {
	logx.Debug().Str("run_id", s.RunID).Str("from", from).Str("to", to).Msg("Routing")
	return to
}

// EdgeFromIntent dispatches on the classified intent. Anything unrecognised
// goes to the error handler.
func EdgeFromIntent(_ context.Context, s *model.ConversationState, _ *Deps) (string, error) {
	switch s.CurrentIntent {
	case model.IntentUpdateDetails:
		return routed(s, NodeRouteIntent, NodeUpdateTripDetails), nil
	case model.IntentChat:
		return routed(s, NodeRouteIntent, NodeChatWithUser), nil
	default:
		if s.CurrentIntent != model.IntentError {
			logx.Warn().Str("run_id", s.RunID).Str("intent", string(s.CurrentIntent)).Msg("Unrecognised intent")
		}
		return routed(s, NodeRouteIntent, NodeHandleError), nil
	}
}

// EdgeAfterUpdate checks the mandatory trip fields.
func EdgeAfterUpdate(_ context.Context, s *model.ConversationState, _ *Deps) (string, error) {
	if s.TripDetails.Complete() {
		return routed(s, NodeUpdateTripDetails, NodeCheckSurfForecast), nil
	}
	return routed(s, NodeUpdateTripDetails, NodeRequestMissingDetails), nil
}

// EdgeAfterForecast asks the model whether the forecast suits the desired
// conditions. No data, a recorded error, a failed judgment call and any
// answer without "yes" all count as bad surf.
func EdgeAfterForecast(ctx context.Context, s *model.ConversationState, d *Deps) (string, error) {
	if len(s.SurfForecasts) == 0 || s.HasError() {
		logx.Warn().Str("run_id", s.RunID).Msg("No forecast data or error present, treating surf as bad")
		return routed(s, NodeCheckSurfForecast, NodeInformUserOfBadSurf), nil
	}

	forecast := model.ToolResult{Forecasts: s.SurfForecasts}.String()
	msgs, err := prompts.RenderValidateForecast(ctx, s.TripDetails.DesiredSurfConditions, forecast)
	if err != nil {
		return "", err
	}
	out, _, err := generate(ctx, NodeCheckSurfForecast, s.RunID, d.Chat, d.ChatModelName, msgs)
	if err != nil {
		logx.Error().Err(err).Str("run_id", s.RunID).Msg("Forecast judgment failed, treating surf as bad")
		return routed(s, NodeCheckSurfForecast, NodeInformUserOfBadSurf), nil
	}

	if strings.Contains(strings.ToLower(out.Content), "yes") {
		return routed(s, NodeCheckSurfForecast, NodePlanTravelLogistics), nil
	}
	return routed(s, NodeCheckSurfForecast, NodeInformUserOfBadSurf), nil
}

// EdgeFromPlan loops into tool execution while the planner asks for tools
// and the planning budget allows it.
func EdgeFromPlan(_ context.Context, s *model.ConversationState, d *Deps) (string, error) {
	if len(s.PendingToolCalls()) == 0 {
		return routed(s, NodePlanTravelLogistics, NodeSummarizePlan), nil
	}
	if budget := d.Limits.MaxPlanningRounds; budget > 0 && s.PlanningRounds >= budget {
		logx.Warn().Str("run_id", s.RunID).Int("rounds", s.PlanningRounds).Msg("Planning budget exhausted, summarizing")
		return routed(s, NodePlanTravelLogistics, NodeSummarizePlan), nil
	}
	return routed(s, NodePlanTravelLogistics, NodeExecuteTools), nil
}

// EdgeAfterTools stops on a tool failure and otherwise returns to the planner.
func EdgeAfterTools(_ context.Context, s *model.ConversationState, _ *Deps) (string, error) {
	if s.HasError() {
		return routed(s, NodeExecuteTools, NodeHandleError), nil
	}
	return routed(s, NodeExecuteTools, NodePlanTravelLogistics), nil
}
