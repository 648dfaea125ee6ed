package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/kbukum/meetingnotes/errors"
)

// --- mock dialect for testing ---

type mockDialect struct {
	healthPath string
	buildErr   error
	parseErr   error
}

func (d *mockDialect) Name() string       { return "mock" }
func (d *mockDialect) ChatPath() string   { return "/chat" }
func (d *mockDialect) HealthPath() string { return d.healthPath }

func (d *mockDialect) Defaults() (string, string) { return "http://mock.invalid", "mock-model" }

func (d *mockDialect) BuildRequest(req CompletionRequest) (any, error) {
	if d.buildErr != nil {
		return nil, d.buildErr
	}
	return map[string]any{
		"model":       req.Model,
		"messages":    req.WithSystem(),
		"temperature": req.Temperature,
	}, nil
}

func (d *mockDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	if d.parseErr != nil {
		return nil, d.parseErr
	}
	var raw struct {
		Content string `json:"content"`
		Model   string `json:"model"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &CompletionResponse{Content: raw.Content, Model: raw.Model, Usage: Usage{TotalTokens: 10}}, nil
}

func withDialects(t *testing.T) {
	t.Helper()
	dialectsMu.Lock()
	original := dialects
	dialects = map[string]Dialect{}
	dialectsMu.Unlock()
	t.Cleanup(func() {
		dialectsMu.Lock()
		dialects = original
		dialectsMu.Unlock()
	})
}

func TestAdapter_New_FromRegistry(t *testing.T) {
	withDialects(t)
	RegisterDialect("mock", &mockDialect{})

	a, err := New(Config{Provider: "mock"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if a.Name() != "mock-llm" {
		t.Errorf("Name() = %q, want mock-llm", a.Name())
	}
	if a.Model() != "mock-model" {
		t.Errorf("Model() = %q, want dialect default", a.Model())
	}
	if a.Dialect().Name() != "mock" {
		t.Errorf("Dialect().Name() = %q, want mock", a.Dialect().Name())
	}
}

func TestAdapter_New_UnknownDialect(t *testing.T) {
	if _, err := New(Config{Provider: "nonexistent-xyz"}); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestAdapter_NewWithDialect_NilDialect(t *testing.T) {
	if _, err := NewWithDialect(nil, Config{}); !errors.Is(err, ErrNoDialect) {
		t.Fatalf("err = %v, want ErrNoDialect", err)
	}
}

func TestAdapter_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
		var body struct {
			Model       string    `json:"model"`
			Messages    []Message `json:"messages"`
			Temperature float64   `json:"temperature"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Model != "custom" {
			t.Errorf("model = %q, want custom", body.Model)
		}
		if body.Temperature != 0.3 {
			t.Errorf("temperature = %v, want config default 0.3", body.Temperature)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != RoleSystem {
			t.Errorf("messages = %+v, want system then user", body.Messages)
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "summary"})
	}))
	defer srv.Close()

	a, err := NewWithDialect(&mockDialect{}, Config{
		BaseURL:     srv.URL,
		APIKey:      "sk-test",
		Model:       "custom",
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("NewWithDialect() error: %v", err)
	}

	resp, err := a.Execute(context.Background(), CompletionRequest{
		SystemPrompt: "be brief",
		Messages:     []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.Content != "summary" {
		t.Errorf("Content = %q, want summary", resp.Content)
	}
	if resp.Model != "custom" {
		t.Errorf("Model = %q, want request model when backend omits it", resp.Model)
	}
}

func TestAdapter_Execute_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		dialect *mockDialect
		code    apperrors.ErrorCode
	}{
		{"status mapped to app error", &mockDialect{}, apperrors.ErrCodeUnauthorized},
		{"build error", &mockDialect{buildErr: errors.New("bad")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewWithDialect(tt.dialect, Config{BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("NewWithDialect() error: %v", err)
			}
			_, err = a.Execute(context.Background(), CompletionRequest{
				Messages: []Message{{Role: RoleUser, Content: "hi"}},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.code != "" && apperrors.CodeOf(err) != tt.code {
				t.Errorf("code = %s, want %s", apperrors.CodeOf(err), tt.code)
			}
		})
	}
}

func TestAdapter_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ok, _ := NewWithDialect(&mockDialect{healthPath: "/healthz"}, Config{BaseURL: srv.URL})
	if !ok.IsAvailable(context.Background()) {
		t.Error("expected available with healthy endpoint")
	}
	down, _ := NewWithDialect(&mockDialect{healthPath: "/down"}, Config{BaseURL: srv.URL})
	if down.IsAvailable(context.Background()) {
		t.Error("expected unavailable with failing endpoint")
	}
	noHealth, _ := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	if !noHealth.IsAvailable(context.Background()) {
		t.Error("expected available without health path")
	}
	if err := noHealth.Close(context.Background()); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Provider != "openai" || cfg.Name != "openai-llm" || cfg.Timeout != defaultTimeout {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	bad := Config{Provider: "openai", Temperature: 3}
	if err := bad.Validate(); err == nil {
		t.Error("expected temperature validation error")
	}
}

func TestRegistry_IncludesDialects(t *testing.T) {
	withDialects(t)
	RegisterDialect("mock", &mockDialect{})

	r := NewRegistry()
	if !r.Has("mock") {
		t.Fatalf("registry = %v, want mock", r.List())
	}
	p, err := r.Create("mock", Config{Provider: "mock"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Name() != "mock-llm" {
		t.Errorf("Name() = %q, want mock-llm", p.Name())
	}
}

func TestDialects_Sorted(t *testing.T) {
	withDialects(t)
	RegisterDialect("zeta", &mockDialect{})
	RegisterDialect("alpha", &mockDialect{})

	got := Dialects()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Dialects() = %v, want [alpha zeta]", got)
	}
}
