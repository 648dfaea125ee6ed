// Package ollama provides the Ollama /api/chat dialect. Importing the
// package registers it under "ollama".
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/meetingnotes/llm"
)

const (
	// DialectName is the registered dialect name.
	DialectName = "ollama"

	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3"
)

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm types to Ollama's native chat API.
type Dialect struct{}

func (Dialect) Name() string       { return DialectName }
func (Dialect) ChatPath() string   { return "/api/chat" }
func (Dialect) HealthPath() string { return "/api/tags" }

func (Dialect) Defaults() (baseURL, model string) {
	return defaultBaseURL, defaultModel
}

// --- Ollama API types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         llm.Message `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("ollama: at least one message is required")
	}
	cr := chatRequest{
		Model:    req.Model,
		Messages: req.WithSystem(),
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		cr.Options = &options{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}
	return cr, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if !resp.Done {
		return nil, fmt.Errorf("ollama: incomplete response")
	}
	return &llm.CompletionResponse{
		Content: resp.Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
