package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/meetingnotes/config"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/internal/transcode"
	"github.com/kbukum/meetingnotes/llm"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/server"
	"github.com/kbukum/meetingnotes/transcription"
	"github.com/kbukum/meetingnotes/util"
	"github.com/kbukum/meetingnotes/validation"
)

const serviceName = "meetingnotes"

var (
	transcriptionProviders = []string{"openai", "whisper"}
	llmProviders           = []string{"openai", "ollama", "gemini"}
)

// Config is the meetingnotes service configuration. Every key can be
// overridden by an environment variable, e.g. OPENAI_API_KEY or
// DISCORD_WEBHOOK_URL.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config               `yaml:"server" mapstructure:"server"`
	Storage       StorageConfig               `yaml:"storage" mapstructure:"storage"`
	OpenAI        OpenAIConfig                `yaml:"openai" mapstructure:"openai"`
	Transcription transcription.Config        `yaml:"transcription" mapstructure:"transcription"`
	LLM           llm.Config                  `yaml:"llm" mapstructure:"llm"`
	FFmpeg        transcode.Config            `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Discord       notify.Config               `yaml:"discord" mapstructure:"discord"`
	Tracing       observability.TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics       observability.MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// StorageConfig names the two directories the service writes to.
type StorageConfig struct {
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir" validate:"required"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir" validate:"required"`
}

// OpenAIConfig holds the credential shared by the openai transcription and
// chat backends.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	// BaseURL is the API root without /v1, e.g. https://api.openai.com.
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	TranscriptionModel string `yaml:"transcription_model" mapstructure:"transcription_model"`
	ChatModel          string `yaml:"chat_model" mapstructure:"chat_model"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "summaries"
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4"
	}

	// The openai backends inherit the shared credential and models.
	if c.Transcription.Provider == "" || c.Transcription.Provider == "openai" {
		c.Transcription.Provider = "openai"
		c.Transcription.APIKey = util.Coalesce(c.Transcription.APIKey, c.OpenAI.APIKey)
		c.Transcription.Model = util.Coalesce(c.Transcription.Model, c.OpenAI.TranscriptionModel)
		if c.Transcription.BaseURL == "" && c.OpenAI.BaseURL != "" {
			c.Transcription.BaseURL = strings.TrimRight(c.OpenAI.BaseURL, "/") + "/v1"
		}
	}
	if c.LLM.Provider == "" || c.LLM.Provider == "openai" {
		c.LLM.Provider = "openai"
		c.LLM.APIKey = util.Coalesce(c.LLM.APIKey, c.OpenAI.APIKey)
		c.LLM.Model = util.Coalesce(c.LLM.Model, c.OpenAI.ChatModel)
		c.LLM.BaseURL = util.Coalesce(c.LLM.BaseURL, c.OpenAI.BaseURL)
	}
	c.Transcription.ApplyDefaults()
	c.LLM.ApplyDefaults()

	c.FFmpeg.ApplyDefaults()
	c.Discord.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Metrics.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if appErr := validation.New().
		OneOf("transcription.provider", c.Transcription.Provider, transcriptionProviders).
		OneOf("llm.provider", c.LLM.Provider, llmProviders).
		Validate(); appErr != nil {
		return appErr
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Transcription.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	return c.Tracing.Validate()
}
