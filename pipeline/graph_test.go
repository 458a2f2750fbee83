package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/testutil"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T, d vision.Detector, m model.Model) *Graph {
	t.Helper()

	gen, err := compose.NewGenerator(m)
	require.NoError(t, err)

	g, err := NewGraph(vision.NewExtractor(d), gen, func(o *Options) {
		o.NewRunID = func() string { return "run-test" }
	})
	require.NoError(t, err)

	return g
}

func TestGraph_NoImage(t *testing.T) {
	d := testutil.HelloSignDetector()
	g := newTestGraph(t, d, model.NewMockModel("mock", "test"))

	res, err := g.Run(context.Background(), testutil.NewInputBuilder().Text("team offsite").Build())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "run-test", res.RunID)
	assert.Empty(t, res.State.DetectedText())
	assert.Empty(t, res.State.DetectedLabels())
	assert.NotEmpty(t, res.FinalOutput)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, core.FieldImage, res.Warnings[0].Field)

	text, labels := d.Calls()
	assert.Zero(t, text)
	assert.Zero(t, labels)

	assert.Contains(t, res.State.CombinedText(), "Event Description: team offsite")
}

func TestGraph_WithImage(t *testing.T) {
	m := model.NewMockModel("mock", "test")
	m.Enqueue(model.TextResponse("  Great launch!  "))

	g := newTestGraph(t, testutil.HelloSignDetector(), m)

	res, err := g.Run(context.Background(), testutil.NewInputBuilder().WithImage().Text("launch day").Build())
	require.NoError(t, err)

	combined := res.State.CombinedText()
	assert.Contains(t, combined, "('Hello', '99.1')")
	assert.Contains(t, combined, "('Sign', '87.0')")
	assert.Contains(t, combined, "launch day")
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Great launch!", res.FinalOutput)

	// word fragments never reach State
	require.Len(t, res.State.DetectedText(), 1)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Contents[0].Text(), combined)
}

func TestGraph_WriteLog(t *testing.T) {
	g := newTestGraph(t, testutil.HelloSignDetector(), model.NewMockModel("mock", "test"))

	res, err := g.Run(context.Background(), testutil.NewInputBuilder().WithImage().Build())
	require.NoError(t, err)

	var writers []string
	for _, w := range res.State.Writes() {
		writers = append(writers, w.Writer)
	}

	assert.Equal(t, []string{StageExtract, StageExtract, StageCombine, StageGenerate}, writers)
	assert.Equal(t, 4, res.State.Version())
}

func TestGraph_VisionFailure(t *testing.T) {
	d := testutil.HelloSignDetector()
	d.TextErr = errors.New("AccessDeniedException")

	m := model.NewMockModel("mock", "test")
	g := newTestGraph(t, d, m)

	res, err := g.Run(context.Background(), testutil.NewInputBuilder().WithImage().Text("x").Build())
	require.Error(t, err)
	assert.Nil(t, res)

	var ext *core.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "vision", ext.Service)
	assert.Empty(t, m.Requests())
}

func TestGraph_LLMFailure(t *testing.T) {
	m := model.NewMockModel("mock", "test")
	m.OnGenerate = func(model.Request, int) (model.Response, error) {
		return model.Response{}, errors.New("rate limited")
	}

	g := newTestGraph(t, testutil.HelloSignDetector(), m)

	res, err := g.Run(context.Background(), testutil.NewInputBuilder().WithImage().Build())
	assert.Nil(t, res)

	var ext *core.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "llm", ext.Service)
}

func TestGraph_Cancelled(t *testing.T) {
	g := newTestGraph(t, testutil.HelloSignDetector(), model.NewMockModel("mock", "test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Run(ctx, testutil.NewInputBuilder().WithImage().Build())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

type readsCombined struct{ combineStage }

func (readsCombined) Name() string { return "early_reader" }

func TestNewGraphFromStages_ValidatesReads(t *testing.T) {
	_, err := NewGraphFromStages([]Stage{collectStage{}, readsCombined{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detected_text")

	_, err = NewGraphFromStages([]Stage{collectStage{}, combineStage{}, combineStage{}})
	assert.Error(t, err)

	_, err = NewGraphFromStages(nil)
	assert.Error(t, err)
}

func TestGraph_Mermaid(t *testing.T) {
	g := newTestGraph(t, testutil.HelloSignDetector(), model.NewMockModel("mock", "test"))

	out := g.Mermaid()
	assert.Contains(t, out, "__start__ --> collect_input")
	assert.Contains(t, out, "collect_input --> extract")
	assert.Contains(t, out, "generate --> __end__")
	assert.Contains(t, out, "collect_input -.->|no image| combine")

	names := make([]string, 0, 4)
	for _, s := range g.Stages() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{StageCollectInput, StageExtract, StageCombine, StageGenerate}, names)
}
