package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
)

// Registry is the dispatch table from tool name to implementation. Model
// requested calls are resolved and validated here before any tool runs.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a registry from tools. Duplicate or empty names are rejected.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}

	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds t to the registry.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tool name must not be empty")
	}

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)

	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}

	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// DecodeArguments parses the raw JSON argument payload of a function call.
// An empty payload or JSON null decodes to an empty map; anything that is not
// a JSON object is rejected.
func DecodeArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}

	if args == nil {
		args = map[string]any{}
	}

	return args, nil
}

// Invoke resolves call against the table, decodes and validates its
// arguments and runs the tool. Failures are mapped as follows:
//
//	unknown name                      -> *core.ToolInvocationError (ErrUnknownTool)
//	bad JSON / schema violation       -> *core.ToolInvocationError (ErrInvalidArguments)
//	*core.ExternalServiceError inside -> returned as is
//	any other tool failure            -> *core.ToolInvocationError (ErrToolFailed)
func (r *Registry) Invoke(toolCtx *core.ToolContext, call core.FunctionCall) (any, map[string]any, error) {
	t, ok := r.Lookup(call.Name)
	if !ok {
		return nil, nil, &core.ToolInvocationError{Tool: call.Name, Err: core.ErrUnknownTool}
	}

	args, err := DecodeArguments(call.Arguments)
	if err != nil {
		return nil, nil, &core.ToolInvocationError{Tool: call.Name, Reason: err.Error(), Err: core.ErrInvalidArguments}
	}

	result, err := t.Call(toolCtx, args)
	if err == nil {
		return result, args, nil
	}

	var ext *core.ExternalServiceError
	if errors.As(err, &ext) {
		return nil, args, ext
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Code == CodeValidation {
		return nil, args, &core.ToolInvocationError{Tool: call.Name, Reason: toolErr.Message, Err: core.ErrInvalidArguments}
	}

	return nil, args, &core.ToolInvocationError{Tool: call.Name, Reason: err.Error(), Err: core.ErrToolFailed}
}
