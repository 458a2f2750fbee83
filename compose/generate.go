package compose

import (
	"context"
	"errors"
	"strings"
	"text/template"
	"time"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/internal/util"
	"github.com/Eshikamahajan/AWS-Agentic-AI/logging"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
)

// DefaultPromptTemplate asks for a post of at most 75 words. {{.Combined}}
// receives the Combine output.
const DefaultPromptTemplate = "You are a professional content writer. Based on the following extracted " +
	"information from an event image and user description, write a concise LinkedIn post " +
	"(within 75 words) summarizing the event. Details: {{.Combined}}"

// ErrEmptyCompletion is wrapped in an ExternalServiceError when the model
// returns no text.
var ErrEmptyCompletion = errors.New("empty completion")

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Template    string
	CallTimeout time.Duration
	Logger      logging.Logger
}

// Generator produces the post text from combined content with one model call.
type Generator struct {
	model model.Model
	tmpl  *template.Template
	opts  GeneratorOptions
}

// NewGenerator parses the prompt template and binds m.
func NewGenerator(m model.Model, optFns ...func(o *GeneratorOptions)) (*Generator, error) {
	opts := GeneratorOptions{
		Template:    DefaultPromptTemplate,
		CallTimeout: 30 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	tmpl, err := util.ParseTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	return &Generator{model: m, tmpl: tmpl, opts: opts}, nil
}

// Prompt renders the instruction template around combined.
func (g *Generator) Prompt(combined string) (string, error) {
	return util.ExecuteTemplate(g.tmpl, struct{ Combined string }{Combined: combined})
}

// Generate returns the trimmed model output. Model errors, timeouts and empty
// completions are reported as *core.ExternalServiceError.
func (g *Generator) Generate(ctx context.Context, combined string) (string, error) {
	prompt, err := g.Prompt(combined)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.model.Generate(callCtx, model.Request{
		Contents: []core.Content{{Role: "user", Parts: []core.Part{core.TextPart{Text: prompt}}}},
	})

	logging.LogLLMCall(g.opts.Logger, g.model.Info().Name, time.Since(start), err)

	if err != nil {
		return "", &core.ExternalServiceError{Service: "llm", Op: "Generate", Err: err}
	}

	text := strings.TrimSpace(resp.Content.Text())
	if text == "" {
		return "", &core.ExternalServiceError{Service: "llm", Op: "Generate", Err: ErrEmptyCompletion}
	}

	return text, nil
}

// ModelInfo describes the bound model.
func (g *Generator) ModelInfo() model.Info { return g.model.Info() }
