package nodes

import (
	"context"
	"errors"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
)

// ChatModel is the slice of a language model the nodes rely on.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Limits bound a single run.
type Limits struct {
	// MaxPlanningRounds caps planner passes; zero means unbounded.
	MaxPlanningRounds int
}

// Deps is handed to every node and routing function by the engine. Nodes
// never keep references to it beyond one call.
type Deps struct {
	Chat             ChatModel
	ChatModelName    string
	Planner          ChatModel
	PlannerModelName string
	Tools            *tools.Registry
	Clock            func() time.Time
	Limits           Limits
}

// Validate checks that the mandatory collaborators are present.
func (d *Deps) Validate() error {
	if d == nil {
		return errors.New("deps is nil")
	}
	if d.Chat == nil || d.Planner == nil {
		return errors.New("chat models are not properly initialized")
	}
	if d.Tools == nil {
		return errors.New("tool registry is nil")
	}
	return nil
}

// Today returns the current date according to the injected clock.
func (d *Deps) Today() model.Date {
	if d.Clock == nil {
		return model.DateOf(time.Now())
	}
	return model.DateOf(d.Clock())
}
