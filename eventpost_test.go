package eventpost

import (
	"context"
	"testing"

	"github.com/Eshikamahajan/AWS-Agentic-AI/agent"
	"github.com/Eshikamahajan/AWS-Agentic-AI/config"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDryRunApp(t *testing.T, optFns ...func(o *Options)) *App {
	t.Helper()

	cfg := config.Default()
	app, err := New(context.Background(), &cfg, append([]func(o *Options){func(o *Options) {
		o.DryRun = true
		o.Logger = logging.NoOpLogger{}
	}}, optFns...)...)
	require.NoError(t, err)

	return app
}

func TestApp_RunGraph(t *testing.T) {
	app := newDryRunApp(t)

	res, err := app.Run(context.Background(), ModeGraph, core.Input{Image: []byte("jpeg"), UserText: "AWS meetup"})
	require.NoError(t, err)

	assert.Contains(t, res.State.CombinedText(), "('AWS Community Day', '99.2')")
	assert.Contains(t, res.State.CombinedText(), "Event Description: AWS meetup")
	assert.Contains(t, res.FinalOutput, "#community")
}

func TestApp_RunAgentic(t *testing.T) {
	app := newDryRunApp(t)

	res, err := app.Run(context.Background(), ModeAgentic, core.Input{Image: []byte("jpeg")})
	require.NoError(t, err)

	require.Len(t, res.ToolCalls, 4)
	assert.Equal(t, agent.ToolGeneratePost, res.ToolCalls[3].Name)
	assert.Contains(t, res.FinalOutput, "#community")
	assert.NotEmpty(t, res.ToolCalls[0].ID)
}

func TestApp_ModelOverride(t *testing.T) {
	m := model.NewMockModel("custom", "mock")
	m.Enqueue(model.TextResponse("custom post"))

	app := newDryRunApp(t, func(o *Options) { o.Model = m })

	res, err := app.RunGraph(context.Background(), core.Input{UserText: "no photo today"})
	require.NoError(t, err)
	assert.Equal(t, "custom post", res.FinalOutput)
	require.Len(t, res.Warnings, 1)
}

func TestApp_MaxToolCallsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxToolCalls = 2

	app, err := New(context.Background(), &cfg, func(o *Options) {
		o.DryRun = true
		o.Logger = logging.NoOpLogger{}
	})
	require.NoError(t, err)

	// the dry-run script needs four calls
	_, err = app.RunAgentic(context.Background(), core.Input{Image: []byte("jpeg")})

	var exceeded *core.LoopBudgetExceeded
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 2, exceeded.Budget)
}

func TestApp_Mermaid(t *testing.T) {
	app := newDryRunApp(t)

	g, err := app.Mermaid(ModeGraph)
	require.NoError(t, err)
	assert.Contains(t, g, "flowchart TD")

	a, err := app.Mermaid(ModeAgentic)
	require.NoError(t, err)
	assert.Contains(t, a, agent.ToolCombine)

	_, err = app.Mermaid("sideways")
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("agentic")
	require.NoError(t, err)
	assert.Equal(t, ModeAgentic, m)

	_, err = ParseMode("chaos")
	assert.Error(t, err)
}

func TestNewModel(t *testing.T) {
	_, err := NewModel(config.LLM{Provider: config.ProviderGroq})
	assert.ErrorContains(t, err, config.EnvGroqAPIKey)

	m, err := NewModel(config.LLM{Provider: config.ProviderGroq, APIKey: "gsk", Model: "gemma2-9b-it"})
	require.NoError(t, err)
	assert.Equal(t, "groq", m.Info().Provider)
	assert.Equal(t, "gemma2-9b-it", m.Info().Name)

	m, err = NewModel(config.LLM{Provider: config.ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", m.Info().Provider)

	m, err = NewModel(config.LLM{Provider: config.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", m.Info().Provider)

	_, err = NewModel(config.LLM{Provider: "bard"})
	assert.Error(t, err)
}

func TestNewModel_ProviderDefaultModel(t *testing.T) {
	for provider, want := range map[string]string{
		config.ProviderGroq:      config.DefaultGroqModel,
		config.ProviderOpenAI:    "gpt-4o-mini",
		config.ProviderAnthropic: "claude-3-5-haiku-20241022",
		config.ProviderGemini:    "gemini-1.5-flash",
	} {
		cfg := config.Default()
		cfg.LLM.Provider = provider
		cfg.LLM.APIKey = "sk-x"

		m, err := NewModel(cfg.LLM)
		require.NoError(t, err, provider)
		assert.Equal(t, want, m.Info().Name, provider)
	}
}
