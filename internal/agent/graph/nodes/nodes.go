package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/graph/parsers"
	"github.com/surftrip-planner/server/internal/agent/graph/prompts"
	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// Func is a processing step. It reads the state and returns a partial
// update; it never modifies s. A returned error means the node's own
// external call failed.
type Func func(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error)

const (
	errorReplyPrefix  = "I'm sorry, I encountered an error and cannot continue. Details: "
	unknownErrorText  = "An unknown error occurred."
	missingForecastIn = "Missing departure date or destination for forecast."
)

func enter(node string, s *model.ConversationState) {
	logx.Debug().Str("run_id", s.RunID).Str("node", node).Msg("Entering node")
}

// RouteIntent classifies the latest user turn. Unparseable replies and model
// failures both yield the error intent.
func RouteIntent(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeRouteIntent, s)

	msgs, err := prompts.RenderRouteIntent(ctx, s.TripDetails.JSON(), parsers.Transcript(s.Messages))
	if err != nil {
		return model.Update{}, err
	}
	out, cost, err := generate(ctx, NodeRouteIntent, s.RunID, d.Chat, d.ChatModelName, msgs)
	if err != nil {
		logx.Error().Err(err).Str("run_id", s.RunID).Msg("Intent classification failed")
		return model.Update{CurrentIntent: model.IntentError, Error: err.Error()}, nil
	}

	intent := model.IntentError
	obj, ok := parsers.ExtractJSON(out.Content)
	if raw, found := parsers.StringField(obj, "intent"); ok && found {
		intent = model.Intent(strings.ToLower(raw))
	} else {
		logx.Error().Str("run_id", s.RunID).Str("content", out.Content).Msg("Error parsing intent, defaulting to 'error'")
	}
	logx.Debug().Str("run_id", s.RunID).Str("intent", string(intent)).Msg("Intent classified")

	return model.Update{CurrentIntent: intent, CostUSD: cost}, nil
}

// UpdateTripDetails merges the fields extracted from the latest turn into
// the trip record. When the reply cannot be used the state is left as is.
func UpdateTripDetails(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeUpdateTripDetails, s)

	msgs, err := prompts.RenderUpdateDetails(ctx, d.Today(), s.TripDetails.JSON(), parsers.Transcript(s.Messages))
	if err != nil {
		return model.Update{}, err
	}
	out, cost, err := generate(ctx, NodeUpdateTripDetails, s.RunID, d.Chat, d.ChatModelName, msgs)
	if err != nil {
		return model.Update{}, err
	}

	fields, ok := parsers.ExtractJSON(out.Content)
	if !ok {
		logx.Error().Str("run_id", s.RunID).Str("content", out.Content).Msg("Error parsing details, state remains unchanged")
		return model.Update{CostUSD: cost}, nil
	}
	merged, err := s.TripDetails.Merge(fields)
	if err != nil {
		logx.Error().Err(err).Str("run_id", s.RunID).Msg("Invalid trip details, state remains unchanged")
		return model.Update{CostUSD: cost}, nil
	}
	logx.Debug().Str("run_id", s.RunID).Str("trip_details", merged.JSON()).Msg("Trip details updated")

	return model.Update{TripDetails: &merged, CostUSD: cost}, nil
}

// ChatWithUser answers a conversational turn from the dialogue alone.
func ChatWithUser(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeChatWithUser, s)

	var trip string
	if s.TripDetails != (model.TripDetails{}) {
		trip = s.TripDetails.JSON()
	}
	msgs, err := prompts.RenderChat(ctx, trip, parsers.Dialogue(s.Messages))
	if err != nil {
		return model.Update{}, err
	}
	return reply(ctx, NodeChatWithUser, s, d.Chat, d.ChatModelName, msgs)
}

// RequestMissingDetails asks for the mandatory fields that are still unknown.
func RequestMissingDetails(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeRequestMissingDetails, s)

	msgs, err := prompts.RenderRequestMissing(ctx, s.TripDetails.JSON(), s.TripDetails.Missing(), parsers.Transcript(parsers.Dialogue(s.Messages)))
	if err != nil {
		return model.Update{}, err
	}
	return reply(ctx, NodeRequestMissingDetails, s, d.Chat, d.ChatModelName, msgs)
}

// CheckSurfForecast fetches the forecast for the weekend of the departure
// date. Missing preconditions and tool failures are recorded in Error.
func CheckSurfForecast(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeCheckSurfForecast, s)

	td := s.TripDetails
	if td.DepartureDate == nil || td.DepartureDate.IsZero() || td.DestinationCity == "" {
		logx.Warn().Str("run_id", s.RunID).Msg(missingForecastIn)
		return model.Update{Error: missingForecastIn}, nil
	}
	if d.Tools == nil {
		return model.Update{Error: fmt.Sprintf("Tool '%s' not found.", tools.ToolGetSurfForecast)}, nil
	}
	if _, ok := d.Tools.Lookup(tools.ToolGetSurfForecast); !ok {
		msg := fmt.Sprintf("Tool '%s' not found.", tools.ToolGetSurfForecast)
		logx.Error().Str("run_id", s.RunID).Msg(msg)
		return model.Update{Error: msg}, nil
	}

	saturday, sunday := parsers.WeekendWindow(*td.DepartureDate)
	args, err := json.Marshal(tools.SurfForecastInput{
		Spot:     td.DestinationCity,
		FromDate: saturday.String(),
		ToDate:   sunday.String(),
	})
	if err != nil {
		return model.Update{}, err
	}
	logx.Debug().Str("run_id", s.RunID).Str("spot", td.DestinationCity).
		Str("from", saturday.String()).Str("to", sunday.String()).Msg("Checking forecast")

	res, err := d.Tools.Invoke(ctx, tools.ToolGetSurfForecast, string(args))
	if err != nil {
		logx.Error().Err(err).Str("run_id", s.RunID).Msg("Surf forecast tool failed")
		return model.Update{Error: err.Error()}, nil
	}
	return model.Update{SurfForecasts: res.Forecasts}, nil
}

// InformUserOfBadSurf explains why the trip is not advisable.
func InformUserOfBadSurf(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeInformUserOfBadSurf, s)

	forecast := model.ToolResult{Forecasts: s.SurfForecasts}.String()
	msgs, err := prompts.RenderInformBadSurf(ctx, s.TripDetails.DesiredSurfConditions, forecast)
	if err != nil {
		return model.Update{}, err
	}
	return reply(ctx, NodeInformUserOfBadSurf, s, d.Chat, d.ChatModelName, msgs)
}

// PlanTravelLogistics runs the tool-calling planner over the dialogue and
// the scratchpad of the current planning loop.
func PlanTravelLogistics(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodePlanTravelLogistics, s)

	history, scratchpad := parsers.SplitScratchpad(s.Messages)
	msgs, err := prompts.RenderPlan(ctx, s.TripDetails.JSON(), s.ToolData().String(), parsers.Dialogue(history), scratchpad)
	if err != nil {
		return model.Update{}, err
	}
	out, cost, err := generate(ctx, NodePlanTravelLogistics, s.RunID, d.Planner, d.PlannerModelName, msgs)
	if err != nil {
		return model.Update{}, err
	}

	round := s.PlanningRounds + 1
	normalizeToolCallIDs(out, round)
	if n := len(out.ToolCalls); n > 0 {
		logx.Debug().Str("run_id", s.RunID).Int("round", round).Int("tool_count", n).Msg("Calling tools")
	} else {
		logx.Debug().Str("run_id", s.RunID).Int("round", round).Msg("Plan ready")
	}

	return model.Update{Messages: []*schema.Message{out}, PlanningRounds: 1, CostUSD: cost}, nil
}

// normalizeToolCallIDs fills in tool call IDs some providers omit.
func normalizeToolCallIDs(out *schema.Message, round int) {
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			out.ToolCalls[i].ID = fmt.Sprintf("call_%d_%d", round, i)
		}
	}
}

// ExecuteTools runs the pending tool calls in order. The first failure
// aborts the batch: the update then carries only the error and nothing
// gathered earlier in the batch.
func ExecuteTools(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeExecuteTools, s)

	calls := s.PendingToolCalls()
	if len(calls) == 0 {
		return model.Update{}, nil
	}

	var u model.Update
	for _, call := range calls {
		name := call.Function.Name
		if d.Tools == nil {
			return model.Update{Error: fmt.Sprintf("Critical failure in tool '%s': no tool registry", name)}, nil
		}
		res, err := d.Tools.Invoke(ctx, name, call.Function.Arguments)
		if err != nil {
			logx.Error().Err(err).Str("run_id", s.RunID).Str("tool", name).Msg("Tool failed, aborting batch")
			return model.Update{Error: fmt.Sprintf("Critical failure in tool '%s': %v", name, err)}, nil
		}

		u.Messages = append(u.Messages, schema.ToolMessage(res.String(), call.ID, schema.WithToolName(name)))
		u.CalendarAvailabilities = append(u.CalendarAvailabilities, res.Availabilities...)
		u.SurfForecasts = append(u.SurfForecasts, res.Forecasts...)
		u.TrainOptions = append(u.TrainOptions, res.Trains...)
		logx.Debug().Str("run_id", s.RunID).Str("tool", name).Int("records", res.Len()).Msg("Tool succeeded")
	}
	return u, nil
}

// SummarizePlan writes the final plan from the trip details and gathered data.
func SummarizePlan(ctx context.Context, s *model.ConversationState, d *Deps) (model.Update, error) {
	enter(NodeSummarizePlan, s)

	msgs, err := prompts.RenderSummarize(ctx, s.TripDetails.JSON(), s.ToolData().String())
	if err != nil {
		return model.Update{}, err
	}
	return reply(ctx, NodeSummarizePlan, s, d.Chat, d.ChatModelName, msgs)
}

// HandleError turns the recorded error into an apology. It never fails.
func HandleError(_ context.Context, s *model.ConversationState, _ *Deps) (model.Update, error) {
	enter(NodeHandleError, s)

	text := s.Error
	if text == "" {
		text = unknownErrorText
	}
	return model.Update{Messages: []*schema.Message{schema.AssistantMessage(errorReplyPrefix+text, nil)}}, nil
}

// reply runs a plain completion and appends its text as one assistant message.
func reply(ctx context.Context, node string, s *model.ConversationState, cm ChatModel, modelName string, msgs []*schema.Message) (model.Update, error) {
	out, cost, err := generate(ctx, node, s.RunID, cm, modelName, msgs)
	if err != nil {
		return model.Update{}, err
	}
	return model.Update{
		Messages: []*schema.Message{schema.AssistantMessage(out.Content, nil)},
		CostUSD:  cost,
	}, nil
}
