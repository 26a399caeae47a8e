package conversations

import (
	"context"
	"strings"
	"sync"

	"github.com/surftrip-planner/server/internal/agent/graph"
	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// Session keeps one conversation in memory across user turns. The state
// lives only as long as the process.
type Session struct {
	mu     sync.Mutex
	runner graph.Runner
	state  *model.ConversationState
}

func NewSession(runner graph.Runner) *Session {
	return &Session{runner: runner}
}

// Send runs one turn and returns the assistant reply. A failed run leaves
// the session at its previous turn.
func (s *Session) Send(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var in *model.ConversationState
	if s.state == nil {
		in = model.NewConversationState(query)
	} else {
		in = s.state.NextTurn(query)
	}

	out, err := s.runner.Run(ctx, in)
	if err != nil {
		return "", err
	}
	s.state = out
	logx.Debug().
		Str("run_id", out.RunID).
		Int("messages", len(out.Messages)).
		Str("trip_details", out.TripDetails.JSON()).
		Msg("Session turn saved")
	return out.Reply(), nil
}

// State returns the state after the last successful turn, or nil.
func (s *Session) State() *model.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset forgets the conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
}
