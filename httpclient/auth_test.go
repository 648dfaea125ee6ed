package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "http://example.com/v1/audio/transcriptions", nil)
	BearerAuth("sk-test").apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("got %q, want %q", got, "Bearer sk-test")
	}
}

func TestHeaderAuth(t *testing.T) {
	tests := []struct {
		name, header, want string
	}{
		{"custom", "X-Gateway-Key", "X-Gateway-Key"},
		{"default", "", "X-API-Key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			HeaderAuth(tt.header, "secret").apply(req)
			if got := req.Header.Get(tt.want); got != "secret" {
				t.Errorf("%s = %q, want %q", tt.want, got, "secret")
			}
		})
	}
}

func TestNilAuth(t *testing.T) {
	var a *AuthConfig
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	a.apply(req)
	if len(req.Header) != 0 {
		t.Errorf("headers = %v, want none", req.Header)
	}
}
