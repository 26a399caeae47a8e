package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

// Tool names shared with prompts and accumulator mapping.
const (
	ToolCheckCalendar    = "check_calendar"
	ToolGetSurfForecast  = "get_surf_forecast"
	ToolFindTrainTickets = "find_train_tickets"
)

// CallObserver is notified after every registry invocation.
type CallObserver func(name string, elapsed time.Duration, err error)

// Registry maps tool names to handlers. It is read-only once built.
type Registry struct {
	handlers map[string]Handler
	order    []string
	observer CallObserver
}

type RegistryOption func(*Registry)

// WithObserver installs a hook called after each invocation.
func WithObserver(o CallObserver) RegistryOption {
	return func(r *Registry) { r.observer = o }
}

// NewRegistry indexes handlers by name. Duplicate or empty names are rejected.
func NewRegistry(handlers []Handler, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		info := h.Info()
		if info == nil || info.Name == "" {
			return nil, fmt.Errorf("tool without a name")
		}
		if _, dup := r.handlers[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool %q", info.Name)
		}
		r.handlers[info.Name] = h
		r.order = append(r.order, info.Name)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names lists tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Infos returns the tool schemas to bind on the planner model.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.handlers[name].Info())
	}
	return infos
}

// Invoke runs the named tool. Unregistered names fail with errx.ErrUnknownTool.
func (r *Registry) Invoke(ctx context.Context, name, arguments string) (model.ToolResult, error) {
	h, ok := r.handlers[name]
	if !ok {
		err := fmt.Errorf("%w: %q", errx.ErrUnknownTool, name)
		r.observe(name, 0, err)
		return model.ToolResult{}, err
	}
	start := time.Now()
	res, err := h.Invoke(ctx, arguments)
	r.observe(name, time.Since(start), err)
	return res, err
}

func (r *Registry) observe(name string, elapsed time.Duration, err error) {
	if r.observer != nil {
		r.observer(name, elapsed, err)
	}
}
