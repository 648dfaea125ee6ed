// Package openai provides the OpenAI chat-completions dialect. Importing the
// package registers it under "openai".
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/meetingnotes/llm"
)

const (
	// DialectName is the registered dialect name.
	DialectName = "openai"

	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4"
)

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm types to the OpenAI /v1/chat/completions wire format.
// Any OpenAI-compatible server (vLLM, LM Studio, LiteLLM) works with a
// different base URL.
type Dialect struct{}

func (Dialect) Name() string       { return DialectName }
func (Dialect) ChatPath() string   { return "/v1/chat/completions" }
func (Dialect) HealthPath() string { return "" }

func (Dialect) Defaults() (baseURL, model string) {
	return defaultBaseURL, defaultModel
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("openai: at least one message is required")
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    req.WithSystem(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}
