package pipeline

import (
	"context"

	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
)

// Stage names used in logs, write logs and diagrams.
const (
	StageCollectInput = "collect_input"
	StageExtract      = "extract"
	StageCombine      = "combine"
	StageGenerate     = "generate"
)

// Stage is one step of the linear pipeline. Reads and Writes declare the
// State fields the stage touches; NewGraph checks them before any run.
type Stage interface {
	Name() string
	Reads() []core.Field
	Writes() []core.Field
	Run(sc *StageContext) error
}

// StageContext is the per-run scope passed to each stage.
type StageContext struct {
	ctx      context.Context
	input    core.Input
	state    *core.State
	runID    string
	logger   logging.Logger
	warnings []*core.MissingInputWarning
}

// Context returns the run context.
func (sc *StageContext) Context() context.Context { return sc.ctx }

// Input returns the caller's raw input.
func (sc *StageContext) Input() core.Input { return sc.input }

// State returns the run State; nil until the collect stage has run.
func (sc *StageContext) State() *core.State { return sc.state }

// RunID returns the run identifier.
func (sc *StageContext) RunID() string { return sc.runID }

// Logger returns the run logger.
func (sc *StageContext) Logger() logging.Logger { return sc.logger }

// Warn records a non-fatal warning.
func (sc *StageContext) Warn(w *core.MissingInputWarning) {
	sc.logger.Warn("pipeline.input.missing", "run_id", sc.runID, "field", w.Field.String())
	sc.warnings = append(sc.warnings, w)
}

// collectStage copies the boundary input into a fresh State.
type collectStage struct{}

func (collectStage) Name() string        { return StageCollectInput }
func (collectStage) Reads() []core.Field { return nil }
func (collectStage) Writes() []core.Field {
	return []core.Field{core.FieldImage, core.FieldUserText}
}

func (collectStage) Run(sc *StageContext) error {
	sc.state = core.NewState(sc.input.Image, sc.input.UserText)
	return nil
}

// extractStage runs the vision extractor when image bytes are present.
type extractStage struct {
	extractor *vision.Extractor
}

func (extractStage) Name() string        { return StageExtract }
func (extractStage) Reads() []core.Field { return []core.Field{core.FieldImage} }
func (extractStage) Writes() []core.Field {
	return []core.Field{core.FieldDetectedText, core.FieldDetectedLabels}
}

func (s extractStage) Run(sc *StageContext) error {
	st := sc.State()
	if !st.HasImage() {
		sc.Warn(&core.MissingInputWarning{Field: core.FieldImage})
		return nil
	}

	ex, err := s.extractor.Extract(sc.Context(), st.Image())
	if err != nil {
		return err
	}

	st.SetDetectedText(StageExtract, ex.Text)
	st.SetDetectedLabels(StageExtract, ex.Labels)

	return nil
}

// combineStage merges detections with the user text.
type combineStage struct{}

func (combineStage) Name() string { return StageCombine }
func (combineStage) Reads() []core.Field {
	return []core.Field{core.FieldDetectedText, core.FieldDetectedLabels, core.FieldUserText}
}
func (combineStage) Writes() []core.Field { return []core.Field{core.FieldCombinedText} }

func (combineStage) Run(sc *StageContext) error {
	st := sc.State()
	st.SetCombinedText(StageCombine, compose.Combine(st.DetectedText(), st.DetectedLabels(), st.UserText()))

	return nil
}

// generateStage asks the model for the post.
type generateStage struct {
	generator *compose.Generator
}

func (generateStage) Name() string         { return StageGenerate }
func (generateStage) Reads() []core.Field  { return []core.Field{core.FieldCombinedText} }
func (generateStage) Writes() []core.Field { return []core.Field{core.FieldFinalOutput} }

func (s generateStage) Run(sc *StageContext) error {
	st := sc.State()

	post, err := s.generator.Generate(sc.Context(), st.CombinedText())
	if err != nil {
		return err
	}

	st.SetFinalOutput(StageGenerate, post)

	return nil
}
