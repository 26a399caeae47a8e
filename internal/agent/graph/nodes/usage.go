package nodes

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

// generate calls cm and prices the token usage of its reply.
func generate(ctx context.Context, node, runID string, cm ChatModel, modelName string, in []*schema.Message) (*schema.Message, float64, error) {
	out, err := cm.Generate(ctx, in)
	if err != nil {
		return nil, 0, errx.WrapModel(node, err)
	}
	if out == nil {
		return nil, 0, errx.WrapModel(node, errors.New("empty response"))
	}
	return out, logUsage(node, runID, modelName, out), nil
}

// logUsage computes and logs usage cost for a model reply.
func logUsage(node, runID, modelName string, out *schema.Message) float64 {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return 0
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
	logx.Debug().
		Str("run_id", runID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
	return totalC
}
