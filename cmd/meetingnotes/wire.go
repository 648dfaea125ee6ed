package main

import (
	"context"
	"fmt"

	"github.com/kbukum/meetingnotes/bootstrap"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/internal/summarize"
	"github.com/kbukum/meetingnotes/internal/transcode"
	"github.com/kbukum/meetingnotes/internal/transcribe"
	"github.com/kbukum/meetingnotes/internal/upload"
	"github.com/kbukum/meetingnotes/internal/workflow"
	"github.com/kbukum/meetingnotes/llm"
	"github.com/kbukum/meetingnotes/llm/gemini"
	_ "github.com/kbukum/meetingnotes/llm/ollama"
	_ "github.com/kbukum/meetingnotes/llm/openai"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/process"
	"github.com/kbukum/meetingnotes/provider"
	"github.com/kbukum/meetingnotes/server"
	"github.com/kbukum/meetingnotes/storage"
	_ "github.com/kbukum/meetingnotes/storage/local"
	"github.com/kbukum/meetingnotes/transcription"
	openaistt "github.com/kbukum/meetingnotes/transcription/openai"
	"github.com/kbukum/meetingnotes/transcription/whisper"
)

// wire builds every component from the config, registers health checks and
// resources on app and returns the HTTP server ready to start. metrics may
// be nil.
func wire(app *bootstrap.App[*Config], metrics *observability.Metrics) (*server.Server, error) {
	cfg := app.Cfg
	log := app.Logger

	uploads, err := storage.NewLocal(storage.Config{BasePath: cfg.Storage.UploadDir}, log)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	outputs, err := storage.NewLocal(storage.Config{BasePath: cfg.Storage.OutputDir}, log)
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	uploadDir, _ := uploads.LocalPath("")
	outputDir, _ := outputs.LocalPath("")
	app.Summary.Track(bootstrap.SectionDirectories, "uploads", uploadDir)
	app.Summary.Track(bootstrap.SectionDirectories, "outputs", outputDir)
	log.Info("Directories ready", logger.Fields("upload_dir", uploadDir, "output_dir", outputDir))

	discord, err := notify.NewDiscord(cfg.Discord, log)
	if err != nil {
		return nil, fmt.Errorf("discord: %w", err)
	}
	app.AddResource(discord)
	app.AddHealthCheck(provider.HealthCheck(discord, false))
	if cfg.Discord.WebhookURL == "" {
		log.Warn("DISCORD_WEBHOOK_URL not set, notifications are disabled")
	}

	ffmpeg := process.NewAdapter(cfg.FFmpeg.ProcessConfig())
	app.AddHealthCheck(provider.HealthCheck(ffmpeg, true))
	app.Summary.Track(bootstrap.SectionProviders, "ffmpeg", cfg.FFmpeg.Binary)

	speech, err := newSpeech(cfg.Transcription, log, metrics)
	if err != nil {
		return nil, err
	}
	app.AddResource(speech)
	app.AddHealthCheck(provider.HealthCheck(speech, true))
	app.Summary.Track(bootstrap.SectionProviders, "transcription", cfg.Transcription.Provider+" "+cfg.Transcription.Model)

	chat, err := newChat(cfg.LLM, log, metrics)
	if err != nil {
		return nil, err
	}
	app.AddResource(chat)
	app.AddHealthCheck(provider.HealthCheck(chat, true))
	app.Summary.Track(bootstrap.SectionProviders, "llm", cfg.LLM.Provider+" "+cfg.LLM.Model)

	flow := workflow.New(metrics, log, workflow.Stages(workflow.Deps{
		Uploads:     uploads,
		Layout:      meeting.NewLayout(outputs, discord, log),
		Transcoder:  transcode.New(ffmpeg, cfg.FFmpeg.Binary, log),
		Transcriber: transcribe.New(speech, cfg.Transcription.Language, discord, log),
		Summarizer:  summarize.New(chat, discord, log),
	})...)
	handler, err := upload.New(flow, discord, log)
	if err != nil {
		return nil, fmt.Errorf("upload handler: %w", err)
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(metrics)
	srv.RegisterDefaultEndpoints(app.Name, app.HealthCheckers()...)
	handler.Register(srv.Engine())
	app.Summary.TrackRoutes(srv.Routes())
	return srv, nil
}

// newSpeech creates the configured transcription backend wrapped with
// logging, metrics and tracing.
func newSpeech(cfg transcription.Config, log *logger.Logger, metrics *observability.Metrics) (transcription.Provider, error) {
	reg := transcription.NewRegistry()
	openaistt.Register(reg)
	whisper.Register(reg)

	p, err := reg.Create(cfg.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return instrumented[transcription.Request, transcription.Response]{
		RequestResponse: provider.Chain(
			provider.WithLogging[transcription.Request, transcription.Response](log.WithComponent("transcription")),
			provider.WithMetrics[transcription.Request, transcription.Response](metrics),
			provider.WithTracing[transcription.Request, transcription.Response](serviceName),
		)(p),
		inner: p,
	}, nil
}

// newChat creates the configured LLM backend wrapped with logging, metrics
// and tracing.
func newChat(cfg llm.Config, log *logger.Logger, metrics *observability.Metrics) (llm.Provider, error) {
	reg := llm.NewRegistry()
	gemini.Register(reg)

	p, err := reg.Create(cfg.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	return instrumented[llm.CompletionRequest, llm.CompletionResponse]{
		RequestResponse: provider.Chain(
			provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log.WithComponent("llm")),
			provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](metrics),
			provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse](serviceName),
		)(p),
		inner: p,
	}, nil
}

// instrumented is a middleware-wrapped provider that still closes the
// backend it wraps.
type instrumented[I, O any] struct {
	provider.RequestResponse[I, O]
	inner provider.Provider
}

func (i instrumented[I, O]) Close(ctx context.Context) error {
	return provider.CloseAll(ctx, i.inner)
}
