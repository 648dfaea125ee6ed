// Package openai provides a transcription backend for the OpenAI audio
// transcriptions API through github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	goopenai "github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/transcription"
)

const (
	// ProviderName is the registered name for the OpenAI provider.
	ProviderName = "openai"
)

var _ transcription.Provider = (*Provider)(nil)

// Provider implements transcription.Provider with go-openai.
type Provider struct {
	name     string
	model    string
	language string
	client   *goopenai.Client
}

// Register adds the openai factory to a transcription registry.
func Register(r *transcription.Registry) {
	r.RegisterFactory(ProviderName, Factory)
}

// Factory builds a Provider from a transcription.Config.
func Factory(cfg transcription.Config) (transcription.Provider, error) {
	return New(cfg)
}

// New creates an OpenAI transcription provider. Config.APIKey is required.
func New(cfg transcription.Config) (*Provider, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}

	oc := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Provider{
		name:     cfg.Name,
		model:    cfg.Model,
		language: cfg.Language,
		client:   goopenai.NewClientWithConfig(oc),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// IsAvailable reports whether the client was constructed. Listing models
// would spend a request against the account's rate limit.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.client != nil }

// Execute uploads the audio file and returns the transcribed text.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (transcription.Response, error) {
	if _, err := os.Stat(req.AudioPath); err != nil {
		return transcription.Response{}, apperrors.FileSystem("read", req.AudioPath, err)
	}

	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	lang := p.language
	if req.Language != "" {
		lang = req.Language
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: lang,
	})
	if err != nil {
		return transcription.Response{}, p.mapError(err)
	}

	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	duration := resp.Duration
	if duration == 0 {
		duration = transcription.DurationFromSegments(segments)
	}
	return transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}, nil
}

// mapError lifts go-openai errors into the application error taxonomy.
func (p *Provider) mapError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	var ae *apperrors.AppError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ae = apperrors.Timeout(p.name)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		ae = apperrors.Unauthorized(p.name)
	case status == http.StatusTooManyRequests:
		ae = apperrors.RateLimited(p.name)
	default:
		ae = apperrors.ExternalServiceError(p.name, nil)
	}
	ae = ae.WithCause(err)
	if status > 0 {
		ae = ae.WithDetail("status_code", status)
	}
	return ae
}
