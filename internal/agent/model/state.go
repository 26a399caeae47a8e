package model

import (
	"github.com/cloudwego/eino/schema"
)

// Intent is the router's classification of the latest user turn.
type Intent string

const (
	IntentUpdateDetails Intent = "update_details"
	IntentChat          Intent = "chat"
	IntentError         Intent = "error"
)

// ConversationState is the record threaded through every node of one run.
// Nodes never mutate it; the engine replaces it with Apply(update) after
// each step.
type ConversationState struct {
	RunID string `json:"run_id,omitempty"`

	// Messages is append-only: dialogue plus tool-call scratchpad.
	Messages []*schema.Message `json:"messages"`

	TripDetails TripDetails `json:"trip_details"`

	// CurrentIntent is overwritten on every pass through the router.
	CurrentIntent Intent `json:"current_intent,omitempty"`
	// Error is non-empty once a fail-fast condition was recorded.
	Error string `json:"error,omitempty"`
	// FailedNode names the node whose own external call failed, if any.
	FailedNode string `json:"failed_node,omitempty"`

	// Accumulators: append-only, deduplicated by natural identity.
	CalendarAvailabilities []DayAvailability `json:"calendar_availabilities,omitempty"`
	SurfForecasts          []SurfForecast    `json:"surf_forecasts,omitempty"`
	TrainOptions           []TrainOption     `json:"train_options,omitempty"`

	// PlanningRounds counts passes through the planner in this run.
	PlanningRounds int `json:"planning_rounds,omitempty"`
	// TotalCostUSD sums the priced token usage of every model call.
	TotalCostUSD float64 `json:"total_cost_usd,omitempty"`
}

// Update is a node's partial result. Zero-valued fields leave the state as is.
type Update struct {
	Messages               []*schema.Message
	TripDetails            *TripDetails
	CurrentIntent          Intent
	Error                  string
	FailedNode             string
	CalendarAvailabilities []DayAvailability
	SurfForecasts          []SurfForecast
	TrainOptions           []TrainOption
	PlanningRounds         int
	CostUSD                float64
}

// NewConversationState starts a run from a single user utterance.
func NewConversationState(query string) *ConversationState {
	return &ConversationState{
		Messages: []*schema.Message{schema.UserMessage(query)},
	}
}

// Apply returns a new state with u merged into s:
// messages and accumulators append, trip details and intent overwrite,
// error is set when present, counters add up.
func (s *ConversationState) Apply(u Update) *ConversationState {
	next := *s
	next.Messages = make([]*schema.Message, 0, len(s.Messages)+len(u.Messages))
	next.Messages = append(next.Messages, s.Messages...)
	next.Messages = append(next.Messages, u.Messages...)

	if u.TripDetails != nil {
		next.TripDetails = u.TripDetails.Clone()
	} else {
		next.TripDetails = s.TripDetails.Clone()
	}
	if u.CurrentIntent != "" {
		next.CurrentIntent = u.CurrentIntent
	}
	if u.Error != "" {
		next.Error = u.Error
	}
	if u.FailedNode != "" {
		next.FailedNode = u.FailedNode
	}

	next.CalendarAvailabilities = appendUnique(s.CalendarAvailabilities, u.CalendarAvailabilities, DayAvailability.identity)
	next.SurfForecasts = appendUnique(s.SurfForecasts, u.SurfForecasts, SurfForecast.identity)
	next.TrainOptions = appendUnique(s.TrainOptions, u.TrainOptions, TrainOption.identity)

	next.PlanningRounds += u.PlanningRounds
	next.TotalCostUSD += u.CostUSD
	return &next
}

// HasError reports whether a fail-fast condition was recorded.
func (s *ConversationState) HasError() bool {
	return s.Error != ""
}

// LastMessage returns the newest message, or nil on an empty history.
func (s *ConversationState) LastMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// PendingToolCalls returns the tool calls requested by the newest message
// when it is an assistant turn.
func (s *ConversationState) PendingToolCalls() []schema.ToolCall {
	last := s.LastMessage()
	if last == nil || last.Role != schema.Assistant {
		return nil
	}
	return last.ToolCalls
}

// Reply returns the content of the newest assistant message without tool calls.
func (s *ConversationState) Reply() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m != nil && m.Role == schema.Assistant && len(m.ToolCalls) == 0 {
			return m.Content
		}
	}
	return ""
}

// ToolData groups the accumulators for prompt rendering.
func (s *ConversationState) ToolData() ToolResult {
	return ToolResult{
		Availabilities: s.CalendarAvailabilities,
		Forecasts:      s.SurfForecasts,
		Trains:         s.TrainOptions,
	}
}

// NextTurn carries the dialogue and trip details into a new user turn.
// Gathered tool data, transient fields and per-run counters start over.
func (s *ConversationState) NextTurn(query string) *ConversationState {
	next := s.Apply(Update{Messages: []*schema.Message{schema.UserMessage(query)}})
	next.RunID = ""
	next.CurrentIntent = ""
	next.Error = ""
	next.FailedNode = ""
	next.CalendarAvailabilities = nil
	next.SurfForecasts = nil
	next.TrainOptions = nil
	next.PlanningRounds = 0
	next.TotalCostUSD = 0
	return next
}
