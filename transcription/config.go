package transcription

import (
	"fmt"
	"time"

	"github.com/kbukum/meetingnotes/httpclient"
)

const defaultTimeout = 10 * time.Minute

// Config selects and configures a transcription backend.
type Config struct {
	// Name identifies this instance in logs and spans. Defaults to the provider name.
	Name string `yaml:"name" mapstructure:"name"`
	// Provider selects the backend ("openai", "whisper").
	Provider string `yaml:"provider" mapstructure:"provider"`
	// BaseURL overrides the backend URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// APIKey authenticates against hosted APIs.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// APIKeyHeader sends APIKey in this header instead of as a bearer token.
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`
	// Model is the default model ("whisper-1" for openai, "base" for whisper).
	Model string `yaml:"model" mapstructure:"model"`
	// Language is the default language hint.
	Language string `yaml:"language" mapstructure:"language"`
	// Timeout bounds a single transcription call. Defaults to 10m.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// TLS configures TLS for self-hosted backends.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Name == "" {
		c.Name = c.Provider
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the fields every backend needs.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("transcription: provider is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("transcription: timeout must be positive")
	}
	return nil
}
