// Package pipeline implements graph mode: a fixed, linear run of
// CollectInput, Extract, Combine and Generate over a versioned State.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/diagram"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/google/uuid"
)

// Options configures a Graph.
type Options struct {
	Logger logging.Logger
	// NewRunID generates run identifiers; defaults to uuid.NewString.
	NewRunID func() string
}

// Graph runs its stages strictly in order: no branching, no cycles, no retries.
// A Graph holds no per-run state and may be reused for sequential runs.
type Graph struct {
	stages []Stage
	opts   Options
}

// NewGraph builds the standard four-stage pipeline.
func NewGraph(extractor *vision.Extractor, generator *compose.Generator, optFns ...func(o *Options)) (*Graph, error) {
	return NewGraphFromStages([]Stage{
		collectStage{},
		extractStage{extractor: extractor},
		combineStage{},
		generateStage{generator: generator},
	}, optFns...)
}

// NewGraphFromStages builds a graph from custom stages. The first stage must
// create the State. Every field a stage reads must be written by an earlier stage.
func NewGraphFromStages(stages []Stage, optFns ...func(o *Options)) (*Graph, error) {
	opts := Options{NewRunID: uuid.NewString}
	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	if err := validateDependencies(stages); err != nil {
		return nil, err
	}

	return &Graph{stages: stages, opts: opts}, nil
}

func validateDependencies(stages []Stage) error {
	if len(stages) == 0 {
		return fmt.Errorf("pipeline: no stages")
	}

	written := map[core.Field]string{}
	names := map[string]bool{}

	for _, s := range stages {
		if names[s.Name()] {
			return fmt.Errorf("pipeline: duplicate stage %q", s.Name())
		}
		names[s.Name()] = true

		for _, f := range s.Reads() {
			if _, ok := written[f]; !ok {
				return fmt.Errorf("pipeline: stage %q reads %s before any stage writes it", s.Name(), f)
			}
		}

		for _, f := range s.Writes() {
			written[f] = s.Name()
		}
	}

	return nil
}

// Stages returns the stages in execution order.
func (g *Graph) Stages() []Stage {
	out := make([]Stage, len(g.stages))
	copy(out, g.stages)

	return out
}

// Run executes every stage once. Any stage error aborts the run and no
// Result is returned. Cancellation is checked between stages.
func (g *Graph) Run(ctx context.Context, in core.Input) (*core.Result, error) {
	runID := g.opts.NewRunID()
	logger := g.opts.Logger

	sc := &StageContext{
		ctx:    ctx,
		input:  in,
		runID:  runID,
		logger: logger,
	}

	logger.Info("pipeline.run.start", "run_id", runID, "has_image", len(in.Image) > 0, "user_text_len", len(in.UserText))
	runStart := time.Now()

	for _, s := range g.stages {
		if err := ctx.Err(); err != nil {
			logger.Warn("pipeline.run.cancelled", "run_id", runID, "stage", s.Name())
			return nil, err
		}

		logger.Debug("pipeline.stage.start", "run_id", runID, "stage", s.Name())
		start := time.Now()

		err := s.Run(sc)

		version := 0
		if sc.state != nil {
			version = sc.state.Version()
		}

		logging.LogStage(logger, s.Name(), version, time.Since(start), err)

		if err != nil {
			return nil, fmt.Errorf("pipeline stage %s: %w", s.Name(), err)
		}

		if sc.state == nil {
			return nil, fmt.Errorf("pipeline stage %s: state not initialised", s.Name())
		}
	}

	logger.Info("pipeline.run.completed", "run_id", runID, "duration_ms", time.Since(runStart).Milliseconds(), "warnings", len(sc.warnings))

	return &core.Result{
		RunID:       runID,
		FinalOutput: sc.state.FinalOutput(),
		State:       sc.state.Clone(),
		Warnings:    sc.warnings,
	}, nil
}

// Mermaid renders the pipeline topology.
func (g *Graph) Mermaid() string {
	fc := diagram.New().Node(diagram.Start, "START", diagram.ShapeTerminal)

	prev := diagram.Start
	for _, s := range g.stages {
		fc.Node(s.Name(), s.Name(), diagram.ShapeBox)
		fc.Edge(prev, s.Name(), "")
		prev = s.Name()
	}

	fc.Node(diagram.End, "END", diagram.ShapeTerminal)
	fc.Edge(prev, diagram.End, "")

	// extract is skipped when no image was supplied
	for i, s := range g.stages {
		if _, ok := s.(extractStage); ok && i > 0 && i < len(g.stages)-1 {
			fc.DottedEdge(g.stages[i-1].Name(), g.stages[i+1].Name(), "no image")
		}
	}

	return fc.String()
}
