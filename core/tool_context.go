package core

import (
	"context"
	"fmt"

	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
)

// ToolContext provides a constrained, auditable surface for tool
// implementations invoked by the agent loop. Tools read inputs from and write
// results to the run State; non-fatal warnings are collected for the caller.
type ToolContext struct {
	ctx            context.Context
	state          *State
	runID          string
	functionCallID string
	logger         logging.Logger
	warnings       *[]*MissingInputWarning
}

// NewToolContext constructs a tool context bound to a run State and a unique
// functionCallID. warnings may be nil when the caller does not collect them.
func NewToolContext(ctx context.Context, state *State, runID, functionCallID string, logger logging.Logger, warnings *[]*MissingInputWarning) *ToolContext {
	return &ToolContext{
		ctx:            ctx,
		state:          state,
		runID:          runID,
		functionCallID: functionCallID,
		logger:         logging.OrNoOp(logger),
		warnings:       warnings,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// State returns the run State.
func (tc *ToolContext) State() *State { return tc.state }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// Warn records a non-fatal warning for the run and logs it.
func (tc *ToolContext) Warn(w *MissingInputWarning) {
	tc.logger.Warn("tool.input.missing", "field", w.Field.String(), "function_call_id", tc.functionCallID)

	if tc.warnings != nil {
		*tc.warnings = append(*tc.warnings, w)
	}
}

// Validate performs a structural sanity check of the context.
func (tc *ToolContext) Validate() error {
	if tc.ctx == nil || tc.state == nil || tc.functionCallID == "" {
		return fmt.Errorf("invalid ToolContext")
	}

	return nil
}
