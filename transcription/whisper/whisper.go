// Package whisper provides a transcription backend for a faster-whisper
// HTTP sidecar.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/httpclient"
	"github.com/kbukum/meetingnotes/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultURL   = "http://localhost:8387"
	defaultModel = "base"
)

var _ transcription.Provider = (*Provider)(nil)

// Provider implements transcription.Provider against the sidecar's
// POST /transcribe multipart endpoint.
type Provider struct {
	name     string
	model    string
	language string
	client   *httpclient.Client
}

// Register adds the whisper factory to a transcription registry.
func Register(r *transcription.Registry) {
	r.RegisterFactory(ProviderName, Factory)
}

// Factory builds a Provider from a transcription.Config.
func Factory(cfg transcription.Config) (transcription.Provider, error) {
	return New(cfg)
}

// New creates a Whisper transcription provider.
func New(cfg transcription.Config) (*Provider, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderName
	}
	cfg.ApplyDefaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	hc := httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
	}
	switch {
	case cfg.APIKey == "":
	case cfg.APIKeyHeader != "":
		hc.Auth = httpclient.HeaderAuth(cfg.APIKeyHeader, cfg.APIKey)
	default:
		hc.Auth = httpclient.BearerAuth(cfg.APIKey)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	return &Provider{
		name:     cfg.Name,
		model:    cfg.Model,
		language: cfg.Language,
		client:   client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return p.name }

// IsAvailable checks if the Whisper sidecar answers its health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

// Close releases idle connections.
func (p *Provider) Close(ctx context.Context) error { return p.client.Close(ctx) }

// Execute uploads the audio file and returns the transcription.
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

	fields := map[string]string{"model": model}
	if lang != "" {
		fields["language"] = lang
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: "audio/mpeg",
				Path:        req.AudioPath,
			}},
		},
	})
	if err != nil {
		return transcription.Response{}, httpclient.ToAppError(p.name, err)
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return transcription.Response{}, fmt.Errorf("whisper: decode response: %w", err)
	}
	return result.toResponse(), nil
}

// --- sidecar response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *whisperResponse) toResponse() transcription.Response {
	segments := make([]transcription.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	return transcription.Response{
		Text:     r.Text,
		Segments: segments,
		Duration: transcription.DurationFromSegments(segments),
		Language: r.Language,
	}
}
