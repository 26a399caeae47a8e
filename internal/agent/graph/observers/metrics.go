package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
	"github.com/prometheus/client_golang/prometheus"
)

// Tool call outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the planner's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	NodeVisits   *prometheus.CounterVec
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	Runs         *prometheus.CounterVec
	ModelTokens  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surfplanner_node_visits_total",
				Help: "Total number of graph node executions",
			},
			[]string{"node"},
		),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surfplanner_tool_calls_total",
				Help: "Total number of tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "surfplanner_tool_duration_seconds",
				Help:    "Duration of tool executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surfplanner_runs_total",
				Help: "Completed graph runs by terminal node",
			},
			[]string{"terminal"},
		),
		ModelTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surfplanner_model_tokens_total",
				Help: "Language model tokens by kind",
			},
			[]string{"kind"},
		),
	}
	m.Registry.MustRegister(m.NodeVisits, m.ToolCalls, m.ToolDuration, m.Runs, m.ModelTokens)
	return m
}

// ObserveNode counts one execution of node.
func (m *Metrics) ObserveNode(node string) {
	m.NodeVisits.WithLabelValues(node).Inc()
}

// ObserveRun counts a run that ended on terminal.
func (m *Metrics) ObserveRun(terminal string) {
	m.Runs.WithLabelValues(terminal).Inc()
}

// ObserveTool matches tools.CallObserver.
func (m *Metrics) ObserveTool(name string, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.ToolCalls.WithLabelValues(name, outcome).Inc()
	m.ToolDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// newTokenHandler counts token usage reported by chat model callbacks.
func (m *Metrics) newTokenHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnEnd: func(ctx context.Context, _ *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			if output == nil || output.TokenUsage == nil {
				return ctx
			}
			m.ModelTokens.WithLabelValues("prompt").Add(float64(output.TokenUsage.PromptTokens))
			m.ModelTokens.WithLabelValues("completion").Add(float64(output.TokenUsage.CompletionTokens))
			return ctx
		},
	}
}
