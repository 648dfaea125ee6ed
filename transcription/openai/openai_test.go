package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/transcription"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("ID3 fake mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(transcription.Config{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestProvider_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"we agreed to ship on friday"}`))
	}))
	defer srv.Close()

	p, err := New(transcription.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	resp, err := p.Execute(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.Text != "we agreed to ship on friday" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestProvider_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperrors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrCodeRateLimited},
		{"server", http.StatusInternalServerError, apperrors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			}))
			defer srv.Close()

			p, err := New(transcription.Config{APIKey: "sk", BaseURL: srv.URL + "/v1"})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			_, err = p.Execute(context.Background(), transcription.Request{AudioPath: writeAudio(t)})
			if apperrors.CodeOf(err) != tt.want {
				t.Errorf("code = %s, want %s (err %v)", apperrors.CodeOf(err), tt.want, err)
			}
		})
	}
}

func TestProvider_Execute_MissingFile(t *testing.T) {
	p, err := New(transcription.Config{APIKey: "sk"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = p.Execute(context.Background(), transcription.Request{AudioPath: filepath.Join(t.TempDir(), "x.mp3")})
	if apperrors.CodeOf(err) != apperrors.ErrCodeInternal {
		t.Errorf("code = %s, want INTERNAL_ERROR", apperrors.CodeOf(err))
	}
}

func TestRegister(t *testing.T) {
	r := transcription.NewRegistry()
	Register(r)
	if !r.Has(ProviderName) {
		t.Fatalf("registry = %v", r.List())
	}
	p, err := r.Create(ProviderName, transcription.Config{Provider: ProviderName, APIKey: "sk"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Name() != ProviderName || !p.IsAvailable(context.Background()) {
		t.Errorf("unexpected provider %q", p.Name())
	}
}
