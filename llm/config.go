package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/meetingnotes/httpclient"
)

const defaultTimeout = 10 * time.Minute

// Config holds configuration for creating an LLM backend. The Provider field
// selects the backend: a registered dialect name or an SDK-backed provider
// such as "gemini".
type Config struct {
	// Name identifies this instance in logs and spans. Defaults to "<provider>-llm".
	Name string `yaml:"name" mapstructure:"name"`

	// Provider selects the backend ("openai", "ollama", "gemini").
	Provider string `yaml:"provider" mapstructure:"provider" validate:"required"`

	// BaseURL is the backend's API base URL. Empty uses the dialect default.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as a bearer token by HTTP dialects and passed to SDK clients.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Model is the default model. Empty uses the dialect default.
	Model string `yaml:"model" mapstructure:"model"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens is the default maximum tokens for responses. 0 means backend default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout for a whole completion call. Defaults to 10m.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// TLS configures TLS for the connection.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults sets default values for unset config fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = c.Provider + "-llm"
	}
}

// Validate checks the parts of the config every backend needs.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("llm: provider is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm: temperature must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("llm: max_tokens must not be negative")
	}
	return nil
}
