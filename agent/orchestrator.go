package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/diagram"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/Eshikamahajan/AWS-Agentic-AI/tool"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/google/uuid"
)

// writerAgent marks State writes made by the loop itself.
const writerAgent = "agent"

// Options configures an Orchestrator.
//
// Use functional options with New to override defaults.
type Options struct {
	// Goal is the opening user turn. Defaults to DefaultGoal.
	Goal Instruction
	// SystemPrompt is sent as the request instructions on every turn.
	SystemPrompt string
	// MaxToolCalls caps tool invocations per run (default core.DefaultMaxToolCalls).
	MaxToolCalls int
	// CallTimeout bounds each model call.
	CallTimeout time.Duration
	Logger      logging.Logger
	// NewID generates run IDs and fills in missing tool call IDs.
	NewID func() string
}

// Orchestrator runs the model-driven tool loop. It keeps no per-run state
// and may be reused for sequential runs.
type Orchestrator struct {
	llm      model.Model
	registry *tool.Registry
	opts     Options
}

// New builds an Orchestrator over the four event-post tools.
func New(llm model.Model, extractor *vision.Extractor, generator *compose.Generator, optFns ...func(o *Options)) (*Orchestrator, error) {
	registry, err := tool.NewRegistry(NewTools(extractor, generator)...)
	if err != nil {
		return nil, err
	}

	return NewWithRegistry(llm, registry, optFns...), nil
}

// NewWithRegistry builds an Orchestrator over a custom tool table.
func NewWithRegistry(llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Goal:         DefaultGoal(),
		MaxToolCalls: core.DefaultMaxToolCalls,
		CallTimeout:  30 * time.Second,
		NewID:        uuid.NewString,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxToolCalls <= 0 {
		opts.MaxToolCalls = core.DefaultMaxToolCalls
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	return &Orchestrator{llm: llm, registry: registry, opts: opts}
}

// Registry returns the tool dispatch table.
func (o *Orchestrator) Registry() *tool.Registry { return o.registry }

// MaxToolCalls returns the per-run tool call budget.
func (o *Orchestrator) MaxToolCalls() int { return o.opts.MaxToolCalls }

// Run drives the loop until the model answers without tool calls.
//
// Failure modes, all of which return a nil Result:
//
//	budget exhausted          -> *core.LoopBudgetExceeded
//	unknown tool / bad args   -> *core.ToolInvocationError
//	model or vision failure   -> *core.ExternalServiceError
//	caller cancellation       -> ctx.Err()
func (o *Orchestrator) Run(ctx context.Context, in core.Input) (*core.Result, error) {
	runID := o.opts.NewID()
	logger := o.opts.Logger

	goal, err := o.opts.Goal.Resolve(in)
	if err != nil {
		return nil, fmt.Errorf("resolve goal: %w", err)
	}

	state := core.NewState(in.Image, in.UserText)
	budget := core.NewCallBudget(o.opts.MaxToolCalls)
	defs := o.toolDefinitions()

	var (
		warnings []*core.MissingInputWarning
		records  []core.ToolCallRecord
		final    string
	)

	history := []core.Content{{Role: "user", Parts: []core.Part{core.TextPart{Text: goal}}}}

	logger.Info("agent.run.start", "run_id", runID, "has_image", state.HasImage(), "tools", len(defs), "budget", budget.Max())
	runStart := time.Now()

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("agent.run.context_done", "run_id", runID, "turn", turn, "error", err.Error())
			return nil, err
		}

		resp, err := o.generate(ctx, model.Request{
			Instructions: o.opts.SystemPrompt,
			Contents:     history,
			Tools:        defs,
		})
		if err != nil {
			return nil, err
		}

		o.assignCallIDs(&resp.Content)
		history = append(history, resp.Content)

		calls := resp.Content.FunctionCalls()

		logger.Debug("agent.turn.completed", "run_id", runID, "turn", turn, "fn_calls", len(calls), "finish_reason", resp.FinishReason)

		if len(calls) == 0 {
			final = strings.TrimSpace(resp.Content.Text())
			break
		}

		responses := make([]core.Part, 0, len(calls))

		for _, fc := range calls {
			if err := budget.Increment(); err != nil {
				logger.Warn("agent.budget.exceeded", "run_id", runID, "tool", fc.Name, "budget", budget.Max())
				return nil, err
			}

			toolCtx := core.NewToolContext(ctx, state, runID, fc.ID, logger, &warnings)

			start := time.Now()
			result, args, err := o.registry.Invoke(toolCtx, fc)
			dur := time.Since(start)

			if err != nil {
				logger.Error("agent.function.failed", "run_id", runID, "function", fc.Name, "function_call_id", fc.ID, "error", err.Error())
				return nil, err
			}

			records = append(records, core.ToolCallRecord{ID: fc.ID, Name: fc.Name, Args: args, Duration: dur})
			responses = append(responses, core.FunctionResponsePart{
				FunctionResponse: core.FunctionResponse{ID: fc.ID, Name: fc.Name, Response: result},
			})
		}

		history = append(history, core.Content{Role: "tool", Parts: responses})
	}

	// The generated post wins over the model's closing remark.
	if state.Written(core.FieldFinalOutput) {
		final = state.FinalOutput()
	} else {
		if final == "" {
			return nil, &core.ExternalServiceError{Service: "llm", Op: "Generate", Err: compose.ErrEmptyCompletion}
		}

		state.SetFinalOutput(writerAgent, final)
	}

	logger.Info("agent.run.completed",
		"run_id", runID,
		"tool_calls", budget.Count(),
		"duration_ms", time.Since(runStart).Milliseconds(),
		"warnings", len(warnings),
	)

	return &core.Result{
		RunID:       runID,
		FinalOutput: final,
		State:       state.Clone(),
		Warnings:    warnings,
		ToolCalls:   records,
	}, nil
}

func (o *Orchestrator) generate(ctx context.Context, req model.Request) (model.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	resp, err := o.llm.Generate(callCtx, req)

	logging.LogLLMCall(o.opts.Logger, o.llm.Info().Name, time.Since(start), err)

	if err != nil {
		return model.Response{}, &core.ExternalServiceError{Service: "llm", Op: "Generate", Err: err}
	}

	return resp, nil
}

// assignCallIDs fills in IDs for providers that do not return any, so tool
// responses can be matched to their calls.
func (o *Orchestrator) assignCallIDs(c *core.Content) {
	copied := false

	for i, p := range c.Parts {
		fcp, ok := p.(core.FunctionCallPart)
		if !ok || fcp.FunctionCall.ID != "" {
			continue
		}

		if !copied {
			c.Parts = append([]core.Part(nil), c.Parts...)
			copied = true
		}

		fcp.FunctionCall.ID = o.opts.NewID()
		c.Parts[i] = fcp
	}
}

func (o *Orchestrator) toolDefinitions() []model.ToolDefinition {
	tools := o.registry.Tools()

	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}

	return defs
}

// Mermaid renders the agent loop and its tools.
func (o *Orchestrator) Mermaid() string {
	const node = "agent"

	fc := diagram.New().
		Node(diagram.Start, "START", diagram.ShapeTerminal).
		Node(node, fmt.Sprintf("agent (max %d tool calls)", o.opts.MaxToolCalls), diagram.ShapeDecision).
		Edge(diagram.Start, node, "")

	for _, t := range o.registry.Tools() {
		fc.Node(t.Name(), t.Name(), diagram.ShapeBox)
		fc.Edge(node, t.Name(), "call")
		fc.DottedEdge(t.Name(), node, "result")
	}

	fc.Node(diagram.End, "END", diagram.ShapeTerminal)
	fc.Edge(node, diagram.End, "no tool calls")

	return fc.String()
}
