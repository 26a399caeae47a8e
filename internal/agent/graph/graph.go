package graph

import (
	"context"
	"errors"
	"fmt"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/surftrip-planner/server/internal/agent/graph/nodes"
	"github.com/surftrip-planner/server/internal/agent/graph/observers"
	"github.com/surftrip-planner/server/internal/agent/graph/tools"
	"github.com/surftrip-planner/server/internal/agent/model"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// DefaultMaxRunSteps backs up the planning budget when no step limit is configured.
const DefaultMaxRunSteps = 40

// Runner executes the compiled planner graph.
type Runner interface {
	// Run drives state from the entry node to a terminal node and returns the final state.
	Run(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error)
	// Invoke runs a fresh single-turn conversation and returns the assistant reply.
	Invoke(ctx context.Context, query string) (string, error)
}

// Config holds everything needed to compose the planner graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat models and the tool registry.
type Config struct {
	APIKey       string
	BaseURL      string
	ChatModel    model.ChatModelConfig
	PlannerModel model.PlannerModelConfig
	Agent        model.AgentConfig
	Tools        []tools.Handler
	Metrics      *observers.Metrics
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	Deps        *nodes.Deps
	MaxRunSteps int
	Metrics     *observers.Metrics
	// Callbacks are attached to every run in addition to the logging observers.
	Callbacks []einocb.Handler
}

// step binds a node to its outgoing routing function; terminal nodes have none.
type step struct {
	name    string
	run     nodes.Func
	route   nodes.Route
	targets []string
}

var steps = []step{
	{nodes.NodeRouteIntent, nodes.RouteIntent, nodes.EdgeFromIntent,
		[]string{nodes.NodeUpdateTripDetails, nodes.NodeChatWithUser}},
	{nodes.NodeUpdateTripDetails, nodes.UpdateTripDetails, nodes.EdgeAfterUpdate,
		[]string{nodes.NodeCheckSurfForecast, nodes.NodeRequestMissingDetails}},
	{nodes.NodeCheckSurfForecast, nodes.CheckSurfForecast, nodes.EdgeAfterForecast,
		[]string{nodes.NodePlanTravelLogistics, nodes.NodeInformUserOfBadSurf}},
	{nodes.NodePlanTravelLogistics, nodes.PlanTravelLogistics, nodes.EdgeFromPlan,
		[]string{nodes.NodeExecuteTools, nodes.NodeSummarizePlan}},
	{nodes.NodeExecuteTools, nodes.ExecuteTools, nodes.EdgeAfterTools,
		[]string{nodes.NodePlanTravelLogistics}},
	{name: nodes.NodeChatWithUser, run: nodes.ChatWithUser},
	{name: nodes.NodeRequestMissingDetails, run: nodes.RequestMissingDetails},
	{name: nodes.NodeInformUserOfBadSurf, run: nodes.InformUserOfBadSurf},
	{name: nodes.NodeSummarizePlan, run: nodes.SummarizePlan},
	{name: nodes.NodeHandleError, run: nodes.HandleError},
}

// engineFailure marks FailedNode when the run was aborted outside any node.
const engineFailure = "graph"

type graphRunner struct {
	runnable  compose.Runnable[*model.ConversationState, *model.ConversationState]
	callbacks []einocb.Handler
	deps      *nodes.Deps
	metrics   *observers.Metrics
}

func (r *graphRunner) Run(ctx context.Context, state *model.ConversationState) (*model.ConversationState, error) {
	if state == nil {
		return nil, fmt.Errorf("state is nil")
	}
	in := state.Apply(model.Update{})
	if in.RunID == "" {
		in.RunID = uuid.NewString()
	}

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(r.callbacks...))
	if err != nil {
		logx.Error().Err(err).Str("run_id", in.RunID).Msg("Graph run failed")
		return r.apologize(ctx, in, err)
	}
	logx.Debug().
		Str("run_id", out.RunID).
		Int("messages", len(out.Messages)).
		Int("planning_rounds", out.PlanningRounds).
		Float64("total_cost_usd", out.TotalCostUSD).
		Msg("Graph run finished")
	return out, nil
}

// apologize ends a run the engine aborted (step limit, cancellation, a
// failing route) the same way a failed node does.
func (r *graphRunner) apologize(ctx context.Context, in *model.ConversationState, cause error) (*model.ConversationState, error) {
	failed := in.Apply(model.Update{Error: cause.Error(), FailedNode: engineFailure})
	u, err := nodes.HandleError(ctx, failed, r.deps)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", in.RunID, errors.Join(cause, err))
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(nodes.NodeHandleError)
	}
	return failed.Apply(u), nil
}

func (r *graphRunner) Invoke(ctx context.Context, query string) (string, error) {
	out, err := r.Run(ctx, model.NewConversationState(query))
	if err != nil {
		return "", err
	}
	return out.Reply(), nil
}

// BuildPlannerGraph composes chat models and the tool registry, builds the graph, and returns a Runner.
func BuildPlannerGraph(ctx context.Context, cfg Config) (Runner, error) {
	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		ChatConfig:    &cfg.ChatModel,
		PlannerConfig: &cfg.PlannerModel,
	})
	if err != nil {
		return nil, err
	}

	var regOpts []tools.RegistryOption
	if cfg.Metrics != nil {
		regOpts = append(regOpts, tools.WithObserver(cfg.Metrics.ObserveTool))
	}
	registry, err := tools.NewRegistry(cfg.Tools, regOpts...)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	if err := cms.BindToolsToPlanner(registry.Infos()); err != nil {
		return nil, err
	}

	runner, err := BuildGraph(ctx, &GraphConfig{
		Deps: &nodes.Deps{
			Chat:             cms.Chat,
			ChatModelName:    cms.ChatModelName,
			Planner:          cms.Planner,
			PlannerModelName: cms.PlannerModelName,
			Tools:            registry,
			Limits:           nodes.Limits{MaxPlanningRounds: cfg.Agent.MaxPlanningRounds},
		},
		MaxRunSteps: cfg.Agent.MaxRunSteps,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Strs("tools", registry.Names()).Msg("Planner graph built successfully")
	return runner, nil
}

// BuildGraph constructs and compiles the planner graph
func BuildGraph(ctx context.Context, config *GraphConfig) (Runner, error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if err := config.Deps.Validate(); err != nil {
		return nil, err
	}

	g := compose.NewGraph[*model.ConversationState, *model.ConversationState]()

	for _, st := range steps {
		if err := g.AddLambdaNode(st.name, newNodeLambda(st, config), compose.WithNodeName(st.name)); err != nil {
			return nil, fmt.Errorf("error adding node %s: %w", st.name, err)
		}
	}
	if err := g.AddEdge(compose.START, nodes.NodeRouteIntent); err != nil {
		return nil, fmt.Errorf("error adding entry edge: %w", err)
	}
	if err := g.AddEdge(nodes.NodeHandleError, compose.END); err != nil {
		return nil, fmt.Errorf("error adding exit edge: %w", err)
	}
	for _, st := range steps {
		if st.name == nodes.NodeHandleError {
			continue
		}
		if err := g.AddBranch(st.name, newBranch(st, config.Deps)); err != nil {
			logx.Error().Err(err).Str("node", st.name).Msg("Error adding branch")
			return nil, fmt.Errorf("error adding branch from %s: %w", st.name, err)
		}
	}

	maxSteps := config.MaxRunSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxRunSteps
	}
	runnable, err := g.Compile(ctx,
		compose.WithGraphName("surf_trip_planner"),
		compose.WithMaxRunSteps(maxSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	handlers := []einocb.Handler{observers.NewAllCallbacks()}
	if config.Metrics != nil {
		handlers = append(handlers, config.Metrics.Handler())
	}
	handlers = append(handlers, config.Callbacks...)

	logx.Debug().Int("max_run_steps", maxSteps).Msg("Graph compiled successfully")
	return &graphRunner{runnable: runnable, callbacks: handlers, deps: config.Deps, metrics: config.Metrics}, nil
}

// newNodeLambda wraps a node function: it applies the node's update to a
// copy of the state and turns a failed external call into an error update.
func newNodeLambda(st step, config *GraphConfig) *compose.Lambda {
	deps := config.Deps
	return compose.InvokableLambda(func(ctx context.Context, s *model.ConversationState) (*model.ConversationState, error) {
		if config.Metrics != nil {
			config.Metrics.ObserveNode(st.name)
		}

		u, err := st.run(ctx, s, deps)
		if err != nil {
			logx.Error().Err(err).Str("run_id", s.RunID).Str("node", st.name).Msg("Node failed")
			u = model.Update{Error: err.Error(), FailedNode: st.name}
		}
		next := s.Apply(u)

		ended := nodes.Terminal(st.name) && (next.FailedNode == "" || st.name == nodes.NodeHandleError)
		if ended && config.Metrics != nil {
			config.Metrics.ObserveRun(st.name)
		}
		return next, nil
	})
}

// newBranch routes a failed node to the error handler and otherwise defers
// to the node's routing function. Terminal nodes end the run.
func newBranch(st step, deps *nodes.Deps) *compose.GraphBranch {
	ends := map[string]bool{nodes.NodeHandleError: true}
	for _, t := range st.targets {
		ends[t] = true
	}
	if st.route == nil {
		ends[compose.END] = true
	}

	return compose.NewGraphBranch(func(ctx context.Context, s *model.ConversationState) (string, error) {
		if s.FailedNode != "" {
			return nodes.NodeHandleError, nil
		}
		if st.route == nil {
			return compose.END, nil
		}
		next, err := st.route(ctx, s, deps)
		if err != nil {
			return "", fmt.Errorf("route from %s: %w", st.name, err)
		}
		return next, nil
	}, ends)
}
