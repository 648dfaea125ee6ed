package llm

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	got  CompletionRequest
	resp CompletionResponse
	err  error
}

func (f *fakeProvider) Name() string                     { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool { return true }
func (f *fakeProvider) Execute(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestComplete(t *testing.T) {
	p := &fakeProvider{resp: CompletionResponse{Content: "done"}}

	got, err := Complete(context.Background(), p, "system", "user text")
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "done" {
		t.Errorf("Complete() = %q, want done", got)
	}
	if p.got.SystemPrompt != "system" {
		t.Errorf("SystemPrompt = %q, want system", p.got.SystemPrompt)
	}
	if len(p.got.Messages) != 1 || p.got.Messages[0].Role != RoleUser || p.got.Messages[0].Content != "user text" {
		t.Errorf("Messages = %+v", p.got.Messages)
	}
}

func TestComplete_Error(t *testing.T) {
	want := errors.New("boom")
	if _, err := Complete(context.Background(), &fakeProvider{err: want}, "", "x"); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestCompletionRequest_WithSystem(t *testing.T) {
	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "a"}}}
	if got := req.WithSystem(); len(got) != 1 {
		t.Errorf("without system prompt: %d messages, want 1", len(got))
	}
	req.SystemPrompt = "s"
	got := req.WithSystem()
	if len(got) != 2 || got[0].Role != RoleSystem || got[0].Content != "s" {
		t.Errorf("WithSystem() = %+v", got)
	}
}
