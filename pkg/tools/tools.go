package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jmuk/recipes/pkg/chat/parts"
)

// Registry dispatches tool-use requests to the declared tools.
type Registry struct {
	defs    []ToolDefinition
	defsMap map[string]ToolDefinition
}

func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	m := make(map[string]ToolDefinition, len(defs))
	for _, d := range defs {
		if _, ok := m[d.Name()]; ok {
			return nil, fmt.Errorf("duplicated tool name %s", d.Name())
		}
		m[d.Name()] = d
	}
	return &Registry{defs: defs, defsMap: m}, nil
}

func (r *Registry) Defs() []ToolDefinition {
	return append([]ToolDefinition(nil), r.defs...)
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.defsMap))
	for n := range r.defsMap {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check returns a ToolMismatchError for the first use naming a tool that
// was never declared.
func (r *Registry) Check(uses []parts.ToolUse) error {
	for _, use := range uses {
		if _, ok := r.defsMap[use.Name]; !ok {
			return &ToolMismatchError{Name: use.Name, Declared: r.names()}
		}
	}
	return nil
}

// Dispatch runs the tool named by use and wraps its output into a result
// tagged with the tool-use ID. Only a request for an undeclared tool, a
// cancelled context, or an unexpected handler failure returns an error.
func (r *Registry) Dispatch(ctx context.Context, use parts.ToolUse) (parts.ToolResult, error) {
	logger := getLogger(ctx).With("tool", use.Name, "tool_use_id", use.ID)
	d, ok := r.defsMap[use.Name]
	if !ok {
		logger.Error("Unknown tool")
		return parts.ToolResult{}, &ToolMismatchError{Name: use.Name, Declared: r.names()}
	}
	args := d.Extract(use.Input)
	logger.Debug("Dispatching", "args", args)

	out, err := d.process(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if !errors.As(err, &toolErr) {
			logger.Error("Tool failed", "error", err)
			return parts.ToolResult{}, err
		}
		logger.Warn("Tool reported an error", "error", toolErr)
		return parts.ToolResult{
			ToolUseID: use.ID,
			Name:      use.Name,
			Content:   toolErr.Error(),
			IsError:   true,
		}, nil
	}
	logger.Info("Tool completed", "result", out)
	return parts.ToolResult{
		ToolUseID: use.ID,
		Name:      use.Name,
		Content:   out,
	}, nil
}
