package llm

import (
	"context"

	"github.com/kbukum/meetingnotes/provider"
)

// Complete sends system + user prompts and returns the text response.
// Accepts any RequestResponse so it works with middleware-wrapped providers.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, CompletionResponse], system, user string) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
