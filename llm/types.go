package llm

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// CompletionRequest is the universal input for all LLM backends.
type CompletionRequest struct {
	// Model overrides the adapter's default model.
	Model string `json:"model,omitempty" yaml:"model"`
	// Messages is the conversation history.
	Messages []Message `json:"messages" yaml:"messages"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt"`
	// Temperature controls randomness. Zero leaves the backend default.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature"`
	// MaxTokens limits the response length. 0 means backend default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens"`
}

// WithSystem returns the messages with SystemPrompt prepended as a system
// message. Dialects whose wire format carries the system prompt inline use it.
func (r CompletionRequest) WithSystem() []Message {
	msgs := make([]Message, 0, len(r.Messages)+1)
	if r.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: r.SystemPrompt})
	}
	return append(msgs, r.Messages...)
}

// CompletionResponse is the universal output from all LLM backends.
type CompletionResponse struct {
	// Content is the generated text.
	Content string `json:"content"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Usage reports token consumption.
	Usage Usage `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
