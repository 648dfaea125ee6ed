package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/meetingnotes/httpclient"
	"github.com/kbukum/meetingnotes/httpclient/rest"
	"github.com/kbukum/meetingnotes/provider"
)

// ErrNoDialect is returned by NewWithDialect for a nil dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

var (
	_ Provider           = (*Adapter)(nil)
	_ provider.Closeable = (*Adapter)(nil)
)

// Adapter is a config-driven LLM client that works with any HTTP+JSON
// backend through a Dialect. The REST client carries TLS, auth and timeout;
// the dialect carries the provider-specific mapping.
type Adapter struct {
	rest      *rest.Client
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

// New creates an LLM adapter from config using the global dialect registry.
// Config.Provider must name a registered dialect.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()

	dialect, err := GetDialect(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return newAdapter(dialect, cfg)
}

// NewWithDialect creates an LLM adapter with an explicit dialect instance.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Provider == "" {
		cfg.Provider = dialect.Name()
	}
	cfg.ApplyDefaults()
	return newAdapter(dialect, cfg)
}

func newAdapter(dialect Dialect, cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL, model := dialect.Defaults()
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		model = cfg.Model
	}

	restCfg := httpclient.Config{
		Name:    cfg.Name,
		BaseURL: baseURL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Headers: cfg.Headers,
	}
	if cfg.APIKey != "" {
		restCfg.Auth = httpclient.BearerAuth(cfg.APIKey)
	}
	client, err := rest.New(restCfg)
	if err != nil {
		return nil, fmt.Errorf("llm: create rest client: %w", err)
	}

	return &Adapter{
		rest:      client,
		dialect:   dialect,
		model:     model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.rest.Name() }

// IsAvailable checks if the LLM backend is reachable. Uses the dialect's
// health endpoint if available, otherwise delegates to the REST client.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if hp := a.dialect.HealthPath(); hp != "" {
		_, err := rest.Get[json.RawMessage](ctx, a.rest, hp)
		return err == nil
	}
	return a.rest.IsAvailable(ctx)
}

// Close releases resources.
func (a *Adapter) Close(ctx context.Context) error { return a.rest.Close(ctx) }

// Execute sends a completion request and returns the full response.
// Transport and status failures come back as *errors.AppError.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}

	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(), body)
	if err != nil {
		return CompletionResponse{}, httpclient.ToAppError(a.Name(), err)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	if result.Model == "" {
		result.Model = req.Model
	}
	return *result, nil
}

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Model returns the default model.
func (a *Adapter) Model() string { return a.model }

// REST returns the underlying REST client for advanced use cases.
func (a *Adapter) REST() *rest.Client { return a.rest }

func (a *Adapter) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}
