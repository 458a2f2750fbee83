package tool

import (
	"errors"
	"fmt"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/util"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter description (parameters)
//   - Validates model supplied arguments against that schema before execution
//   - Invokes the wrapped function with a *core.ToolContext giving access to the
//     run State, logging and the function call ID
//   - Normalizes error handling so callers receive *ToolError with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// The original error is kept in ToolError.Err, so an *core.ExternalServiceError
// raised inside the function is still reachable with errors.As.
//
// A FunctionTool has no internal mutable state after construction and is safe for
// concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	reads       []core.Field
	writes      []core.Field
	fn          func(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// FunctionToolOptions configures optional FunctionTool metadata.
type FunctionToolOptions struct {
	Reads  []core.Field
	Writes []core.Field
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	combine := NewFunctionTool(
//	  "combine_with_user_input",
//	  "Merge detected text, labels and the user's description",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "user_input": map[string]any{"type": "string"},
//	    },
//	  },
//	  func(tc *core.ToolContext, args map[string]any) (any, error) { ... },
//	  func(o *FunctionToolOptions) {
//	    o.Reads = []core.Field{core.FieldDetectedText, core.FieldDetectedLabels, core.FieldUserText}
//	    o.Writes = []core.Field{core.FieldCombinedText}
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(toolCtx *core.ToolContext, args map[string]any) (any, error),
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool {
	opts := FunctionToolOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		reads:       opts.Reads,
		writes:      opts.Writes,
		fn:          fn,
	}
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using reflection.
//
// Example:
//
//	type GenerateArgs struct {
//	  Content string `json:"content,omitempty" description:"Combined event details"`
//	}
//
//	gen := NewFunctionToolFromStruct("generate_linkedin_post", "Write the post", GenerateArgs{}, fn)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(toolCtx *core.ToolContext, args map[string]any) (any, error),
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool {
	schema := util.CreateSchema(structType)
	return NewFunctionTool(name, description, schema, fn, optFns...)
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Reads returns the State fields consumed by the tool.
func (t *FunctionTool) Reads() []core.Field { return t.reads }

// Writes returns the State fields produced by the tool.
func (t *FunctionTool) Writes() []core.Field { return t.writes }

// Call validates the provided args against the declared schema then invokes the
// underlying function.
//
// Error Semantics:
//
//	*ToolError (returned directly)  -> forwarded unchanged
//	validation failure              -> *ToolError{Code: "VALIDATION_ERROR"}
//	other error                     -> *ToolError{Code: "EXECUTION_ERROR", Err: cause}
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	logger := toolCtx.Logger()
	start := time.Now()

	logger.Debug("tool.call.start", "tool", t.name, "fc_id", toolCtx.FunctionCallID())

	if err := util.ValidateParameters(args, t.parameters); err != nil {
		logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
			Err:     err,
		}
	}

	result, err := t.fn(toolCtx, args)
	if err != nil {
		logging.LogToolCall(logger, t.name, time.Since(start), err)

		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}

		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
			Err:     err,
		}
	}

	logging.LogToolCall(logger, t.name, time.Since(start), nil)

	return result, nil
}
