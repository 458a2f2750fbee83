// Package gemini provides a model.Model backed by the Google Gemini API via
// the generative-ai-go SDK, including function calling.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Eshikamahajan/AWS-Agentic-AI/core"
	"github.com/Eshikamahajan/AWS-Agentic-AI/model"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Options configures the Gemini adapter.
type Options struct {
	Model           string
	APIKey          string
	Temperature     float32
	MaxOutputTokens int32
}

// Model implements model.Model. A client is opened per call and closed when
// the call returns, so Model holds no connection state.
type Model struct {
	opts Options
}

// NewModel creates a Gemini model. APIKey is required.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-1.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 1024,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{opts: opts}
}

// Generate sends the conversation as a chat session and converts the first candidate.
func (m *Model) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	if m.opts.APIKey == "" {
		return model.Response{}, errors.New("gemini: api key is empty")
	}

	history, last, err := buildHistory(req.Contents)
	if err != nil {
		return model.Response{}, err
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(m.opts.APIKey))
	if err != nil {
		return model.Response{}, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	gm := cl.GenerativeModel(strings.TrimSpace(m.opts.Model))
	gm.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: genai.Ptr(m.opts.MaxOutputTokens),
	}

	if req.Instructions != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.Instructions)}}
	}

	if len(req.Tools) > 0 {
		gm.Tools = []*genai.Tool{{FunctionDeclarations: buildDeclarations(req.Tools)}}
	}

	cs := gm.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return model.Response{}, fmt.Errorf("gemini api error: %w", err)
	}

	return convertResponse(resp, uuid.NewString)
}

// buildHistory maps contents to Gemini turns and splits off the final user
// turn, which SendMessage transmits.
func buildHistory(contents []core.Content) ([]*genai.Content, *genai.Content, error) {
	var turns []*genai.Content

	for _, c := range contents {
		var parts []genai.Part
		role := "user"

		switch c.Role {
		case "system":
			continue
		case "assistant":
			role = "model"
			for _, p := range c.Parts {
				switch part := p.(type) {
				case core.TextPart:
					if part.Text != "" {
						parts = append(parts, genai.Text(part.Text))
					}
				case core.FunctionCallPart:
					args := map[string]any{}
					if part.FunctionCall.Arguments != "" {
						if err := json.Unmarshal([]byte(part.FunctionCall.Arguments), &args); err != nil {
							return nil, nil, fmt.Errorf("gemini: arguments of %s: %w", part.FunctionCall.Name, err)
						}
					}
					parts = append(parts, genai.FunctionCall{Name: part.FunctionCall.Name, Args: args})
				}
			}
		case "tool":
			for _, p := range c.Parts {
				if fr, ok := p.(core.FunctionResponsePart); ok {
					parts = append(parts, genai.FunctionResponse{
						Name:     fr.FunctionResponse.Name,
						Response: responseMap(fr.FunctionResponse),
					})
				}
			}
		default:
			if text := c.Text(); text != "" {
				parts = append(parts, genai.Text(text))
			}
		}

		if len(parts) > 0 {
			turns = append(turns, &genai.Content{Role: role, Parts: parts})
		}
	}

	if len(turns) == 0 {
		return nil, nil, errors.New("gemini: no contents provided")
	}

	last := turns[len(turns)-1]
	if last.Role != "user" {
		return nil, nil, errors.New("gemini: conversation must end with a user or tool turn")
	}

	return turns[:len(turns)-1], last, nil
}

// responseMap shapes a function response as the JSON object Gemini expects.
func responseMap(fr core.FunctionResponse) map[string]any {
	if fr.Error != "" {
		return map[string]any{"error": fr.Error}
	}

	if m, ok := fr.Response.(map[string]any); ok {
		return m
	}

	return map[string]any{"result": model.ResponseText(fr)}
}

// buildDeclarations converts tool definitions into Gemini function declarations.
func buildDeclarations(tools []model.ToolDefinition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))

	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		}

		// Gemini rejects object schemas without properties.
		if s := toSchema(t.Function.Parameters); s != nil && len(s.Properties) > 0 {
			decl.Parameters = s
		}

		decls = append(decls, decl)
	}

	return decls
}

// toSchema converts the minimal JSON schema used by tools into *genai.Schema.
func toSchema(js map[string]any) *genai.Schema {
	if js == nil {
		return nil
	}

	s := &genai.Schema{}
	s.Description, _ = js["description"].(string)

	switch js["type"] {
	case "string":
		s.Type = genai.TypeString
	case "number":
		s.Type = genai.TypeNumber
	case "integer":
		s.Type = genai.TypeInteger
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
		if items, ok := js["items"].(map[string]any); ok {
			s.Items = toSchema(items)
		}
	default:
		s.Type = genai.TypeObject
	}

	if props, ok := js["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if pm, ok := raw.(map[string]any); ok {
				s.Properties[name] = toSchema(pm)
			}
		}
	}

	switch req := js["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}

	switch enum := js["enum"].(type) {
	case []string:
		s.Enum = enum
	case []any:
		for _, e := range enum {
			if v, ok := e.(string); ok {
				s.Enum = append(s.Enum, v)
			}
		}
	}

	return s
}

// convertResponse maps the first candidate into a model.Response. Gemini
// does not assign function call IDs, so newID supplies them.
func convertResponse(resp *genai.GenerateContentResponse, newID func() string) (model.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return model.Response{}, errors.New("gemini: no candidates returned")
	}

	cand := resp.Candidates[0]
	parts := make([]core.Part, 0, len(cand.Content.Parts))
	hasCalls := false

	for _, p := range cand.Content.Parts {
		switch v := p.(type) {
		case genai.Text:
			if v != "" {
				parts = append(parts, core.TextPart{Text: string(v)})
			}
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return model.Response{}, fmt.Errorf("gemini: encode args for %s: %w", v.Name, err)
			}

			hasCalls = true
			parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        newID(),
				Name:      v.Name,
				Arguments: string(args),
			}})
		}
	}

	finish := strings.ToLower(strings.TrimPrefix(cand.FinishReason.String(), "FinishReason"))
	if hasCalls {
		finish = "tool_calls"
	}

	out := model.Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: finish,
	}

	if u := resp.UsageMetadata; u != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return out, nil
}

// Info returns metadata describing this model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
