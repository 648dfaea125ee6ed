package llm

import (
	"github.com/kbukum/meetingnotes/provider"
)

// Provider is the interface every LLM backend implements: the dialect
// Adapter and SDK-backed providers alike.
type Provider interface {
	provider.RequestResponse[CompletionRequest, CompletionResponse]
}
