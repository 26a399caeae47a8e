package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"github.com/mitchellh/mapstructure"

	"github.com/surftrip-planner/server/internal/agent/model"
)

// Handler is the name-addressable side of a tool: the schema the planner is
// shown and an entry point taking raw JSON arguments.
type Handler interface {
	Info() *schema.ToolInfo
	Invoke(ctx context.Context, arguments string) (model.ToolResult, error)
}

// Tool adapts a typed function over input I and record type O to Handler.
type Tool[I, O any] struct {
	info    *schema.ToolInfo
	fn      func(ctx context.Context, in I) ([]O, error)
	collect func([]O) model.ToolResult
}

// NewTool builds a Tool. collect places the records in the matching
// ToolResult slice.
func NewTool[I, O any](info *schema.ToolInfo, fn func(context.Context, I) ([]O, error), collect func([]O) model.ToolResult) *Tool[I, O] {
	return &Tool[I, O]{info: info, fn: fn, collect: collect}
}

func (t *Tool[I, O]) Info() *schema.ToolInfo {
	return t.info
}

func (t *Tool[I, O]) Name() string {
	return t.info.Name
}

// Call runs the typed function directly.
func (t *Tool[I, O]) Call(ctx context.Context, in I) ([]O, error) {
	out, err := t.fn(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.info.Name, err)
	}
	return out, nil
}

func (t *Tool[I, O]) Invoke(ctx context.Context, arguments string) (model.ToolResult, error) {
	var in I
	if err := DecodeArguments(arguments, &in); err != nil {
		return model.ToolResult{}, fmt.Errorf("%s: %w", t.info.Name, err)
	}
	out, err := t.Call(ctx, in)
	if err != nil {
		return model.ToolResult{}, err
	}
	return t.collect(out), nil
}

// DecodeArguments decodes model-produced JSON arguments into out. Malformed
// JSON is repaired first; scalar types are coerced (e.g. "3" into an int).
func DecodeArguments(arguments string, out any) error {
	fields, err := ParseArguments(arguments)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// ParseArguments parses a JSON argument object, repairing it when needed.
func ParseArguments(arguments string) (map[string]any, error) {
	arguments = strings.TrimSpace(arguments)
	if arguments == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	err := json.Unmarshal([]byte(arguments), &fields)
	if err == nil {
		return fields, nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(arguments)
	if repairErr != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return fields, nil
}

// CanonicalArguments re-encodes arguments with sorted keys so equivalent
// calls compare equal.
func CanonicalArguments(arguments string) (string, error) {
	fields, err := ParseArguments(arguments)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return v, nil
}

func dateRange(fromRaw, toRaw string) (from, to model.Date, err error) {
	if from, err = model.ParseDate(fromRaw); err != nil {
		return from, to, fmt.Errorf("from_date: %w", err)
	}
	if strings.TrimSpace(toRaw) == "" {
		return from, from, nil
	}
	if to, err = model.ParseDate(toRaw); err != nil {
		return from, to, fmt.Errorf("to_date: %w", err)
	}
	if to.Before(from.Time) {
		return from, to, fmt.Errorf("to_date %s is before from_date %s", to, from)
	}
	if to.Sub(from.Time).Hours() > maxRangeDays*24 {
		return from, to, fmt.Errorf("date range longer than %d days", maxRangeDays)
	}
	return from, to, nil
}

const maxRangeDays = 16
