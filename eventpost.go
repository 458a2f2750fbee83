// Package eventpost turns an event photo plus a short description into a
// LinkedIn-style post. It wires AWS Rekognition (text lines and labels), a
// hosted language model and one of two orchestrators:
//
//  1. Graph mode (pipeline.Graph): a fixed Extract → Combine → Generate run.
//  2. Agentic mode (agent.Orchestrator): the model calls the same steps as
//     tools, capped at a fixed number of tool calls.
//
// Most applications create an App with New and call Run:
//
//	cfg, _ := config.Load("eventpost.yaml")
//	app, err := eventpost.New(ctx, cfg)
//	res, err := app.Run(ctx, eventpost.ModeGraph, core.Input{Image: img, UserText: "launch day"})
package eventpost

import (
	"context"
	"fmt"
	"os"

	"github.com/Eshikamahajan/AWS-Agentic-AI/agent"
	"github.com/Eshikamahajan/AWS-Agentic-AI/compose"
	"github.com/Eshikamahajan/AWS-Agentic-AI/config"
	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model/anthropic"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model/gemini"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model/openai"
	"github.com/Eshikamahajan/AWS-Agentic-AI/pipeline"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision"
	"github.com/Eshikamahajan/AWS-Agentic-AI/vision/rekognition"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// Mode selects the orchestrator.
type Mode string

const (
	// ModeGraph runs the fixed linear pipeline.
	ModeGraph Mode = "graph"
	// ModeAgentic lets the model drive the tools.
	ModeAgentic Mode = "agentic"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGraph, ModeAgentic:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeGraph, ModeAgentic)
	}
}

// Options configures an App.
type Options struct {
	// Logger defaults to one built from the config's log section.
	Logger logging.Logger
	// Detector replaces the Rekognition client.
	Detector vision.Detector
	// Model replaces the provider selected in the config.
	Model model.Model
	// DryRun swaps both external services for in-memory stand-ins.
	DryRun bool
}

// App holds both orchestrators built over the same extractor and model.
type App struct {
	cfg    config.Config
	graph  *pipeline.Graph
	agent  *agent.Orchestrator
	logger logging.Logger
}

// New wires detector, model, generator and both orchestrators from cfg.
func New(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) (*App, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.Log)
	}

	if opts.DryRun {
		if opts.Detector == nil {
			opts.Detector = DryRunDetector()
		}
		if opts.Model == nil {
			opts.Model = DryRunModel()
		}
	}

	detector := opts.Detector
	if detector == nil {
		d, err := rekognition.New(ctx, func(o *rekognition.Options) {
			o.Region = cfg.AWS.Region
			o.AccessKeyID = cfg.AWS.AccessKeyID
			o.SecretAccessKey = cfg.AWS.SecretAccessKey
		})
		if err != nil {
			return nil, err
		}
		detector = d
	}

	llm := opts.Model
	if llm == nil {
		m, err := NewModel(cfg.LLM)
		if err != nil {
			return nil, err
		}
		llm = m
	}

	extractor := vision.NewExtractor(detector, func(o *vision.Options) {
		o.MaxLabels = cfg.MaxLabels
		o.CallTimeout = cfg.CallTimeout
		o.Logger = logger
	})

	generator, err := compose.NewGenerator(llm, func(o *compose.GeneratorOptions) {
		if cfg.LLM.PromptTemplate != "" {
			o.Template = cfg.LLM.PromptTemplate
		}
		o.CallTimeout = cfg.CallTimeout
		o.Logger = logger
	})
	if err != nil {
		return nil, fmt.Errorf("prompt template: %w", err)
	}

	graph, err := pipeline.NewGraph(extractor, generator, func(o *pipeline.Options) {
		o.Logger = logger
	})
	if err != nil {
		return nil, err
	}

	orchestrator, err := agent.New(llm, extractor, generator, func(o *agent.Options) {
		o.MaxToolCalls = cfg.MaxToolCalls
		o.CallTimeout = cfg.CallTimeout
		o.Logger = logger
	})
	if err != nil {
		return nil, err
	}

	info := llm.Info()
	logger.Debug("app.ready", "provider", info.Provider, "model", info.Name, "dry_run", opts.DryRun)

	return &App{cfg: *cfg, graph: graph, agent: orchestrator, logger: logger}, nil
}

// Run dispatches in to the orchestrator selected by mode.
func (a *App) Run(ctx context.Context, mode Mode, in core.Input) (*core.Result, error) {
	switch mode {
	case ModeGraph:
		return a.RunGraph(ctx, in)
	case ModeAgentic:
		return a.RunAgentic(ctx, in)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// RunGraph runs the linear pipeline.
func (a *App) RunGraph(ctx context.Context, in core.Input) (*core.Result, error) {
	return a.graph.Run(ctx, in)
}

// RunAgentic runs the tool-calling loop.
func (a *App) RunAgentic(ctx context.Context, in core.Input) (*core.Result, error) {
	return a.agent.Run(ctx, in)
}

// Mermaid renders the topology of the orchestrator selected by mode.
func (a *App) Mermaid(mode Mode) (string, error) {
	switch mode {
	case ModeGraph:
		return a.graph.Mermaid(), nil
	case ModeAgentic:
		return a.agent.Mermaid(), nil
	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}
}

// Graph returns the graph-mode orchestrator.
func (a *App) Graph() *pipeline.Graph { return a.graph }

// Agent returns the agentic-mode orchestrator.
func (a *App) Agent() *agent.Orchestrator { return a.agent }

// NewModel builds the model adapter for the configured provider.
func NewModel(cfg config.LLM) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("groq: %s is not set", config.EnvGroqAPIKey)
		}

		cfg.ApplyModelDefault()

		return openai.NewGroqModel(cfg.APIKey, cfg.Model, func(o *openai.Options) {
			o.Temperature = cfg.Temperature
			if cfg.BaseURL != "" {
				o.BaseURL = cfg.BaseURL
			}
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			o.Temperature = cfg.Temperature
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: %s is not set", config.EnvGeminiAPIKey)
		}

		return gemini.NewModel(func(o *gemini.Options) {
			o.APIKey = cfg.APIKey
			o.Temperature = float32(cfg.Temperature)
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderMock:
		return DryRunModel(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.Log) logging.Logger {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	lc.Format = cfg.Format
	lc.Output = os.Stderr

	return logging.New(lc)
}

// DryRunDetector reports a fixed banner line and two labels for any image.
func DryRunDetector() *vision.StaticDetector {
	return vision.NewStaticDetector(
		[]core.Detection{{Text: "AWS Community Day", Confidence: 99.2}},
		[]core.Detection{{Text: "Person", Confidence: 98.7}, {Text: "Crowd", Confidence: 91.4}},
	)
}

// DryRunModel writes a canned post. With tools on offer it walks the agent
// through extract, combine and generate before answering.
func DryRunModel() *model.MockModel {
	m := model.NewMockModel("dry-run", config.ProviderMock)
	m.OnGenerate = func(req model.Request, _ int) (model.Response, error) {
		if len(req.Tools) == 0 {
			return model.TextResponse("What a day at the event! Great talks, great people and plenty of ideas to take home. #community"), nil
		}

		toolTurns := 0
		for _, c := range req.Contents {
			if c.Role == "tool" {
				toolTurns++
			}
		}

		switch toolTurns {
		case 0:
			return model.ToolCallResponse(
				core.FunctionCall{Name: agent.ToolExtractText, Arguments: "{}"},
				core.FunctionCall{Name: agent.ToolExtractLabels, Arguments: "{}"},
			), nil
		case 1:
			return model.ToolCallResponse(core.FunctionCall{Name: agent.ToolCombine, Arguments: "{}"}), nil
		case 2:
			return model.ToolCallResponse(core.FunctionCall{Name: agent.ToolGeneratePost, Arguments: "{}"}), nil
		default:
			return model.TextResponse("The post is ready."), nil
		}
	}

	return m
}
