// Package gemini provides an LLM backend for Google Gemini through the
// official genai SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/llm"
)

const (
	// ProviderName is the name used in llm.Config.Provider.
	ProviderName = "gemini"

	defaultModel = "gemini-2.5-flash"
)

var _ llm.Provider = (*Provider)(nil)

// Provider implements llm.Provider with the genai Models service.
type Provider struct {
	name      string
	model     string
	temp      float64
	maxTokens int
	client    *genai.Client
}

// Register adds the gemini factory to an LLM registry.
func Register(r *llm.Registry) {
	r.RegisterFactory(ProviderName, Factory)
}

// Factory builds a Provider from an llm.Config.
func Factory(cfg llm.Config) (llm.Provider, error) {
	return New(context.Background(), cfg)
}

// New creates a Gemini provider. Config.APIKey is required.
func New(ctx context.Context, cfg llm.Config) (*Provider, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Provider{
		name:      cfg.Name,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
		client:    client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// IsAvailable reports whether the client was constructed. The Gemini API has
// no cheap unauthenticated probe.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.client != nil }

// Execute sends the conversation to GenerateContent and returns the text.
func (p *Provider) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	contents, err := toContents(req.Messages)
	if err != nil {
		return llm.CompletionResponse{}, err
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, p.generateConfig(req))
	if err != nil {
		return llm.CompletionResponse{}, apperrors.ExternalServiceError(p.name, err)
	}

	resp := llm.CompletionResponse{
		Content: result.Text(),
		Model:   model,
	}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *Provider) generateConfig(req llm.CompletionRequest) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	temp := req.Temperature
	if temp == 0 {
		temp = p.temp
	}
	if temp != 0 {
		gc.Temperature = genai.Ptr(float32(temp))
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}
	if maxTokens > 0 {
		gc.MaxOutputTokens = int32(maxTokens)
	}
	return gc
}

// toContents maps chat messages to genai contents. System messages inside
// the history are not allowed; use SystemPrompt.
func toContents(msgs []llm.Message) ([]*genai.Content, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("gemini: at least one message is required")
	}
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role
		switch m.Role {
		case llm.RoleUser, "":
			role = genai.RoleUser
		case llm.RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, fmt.Errorf("gemini: unsupported message role %q", m.Role)
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out, nil
}
