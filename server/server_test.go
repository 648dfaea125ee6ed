package server_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/server"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg server.Config
	cfg.ApplyDefaults()
	if cfg.Host != "0.0.0.0" || cfg.Port != 5000 {
		t.Errorf("unexpected listen defaults %+v", cfg)
	}
	if cfg.ReadTimeout != 0 || cfg.WriteTimeout != 0 {
		t.Errorf("read/write timeouts should stay disabled, got %+v", cfg)
	}
	if cfg.MaxBodySize != "" {
		t.Errorf("body size should be unlimited by default, got %q", cfg.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr bool
	}{
		{"valid", server.Config{Port: 8080, MaxBodySize: "2GB"}, false},
		{"bad port", server.Config{Port: 70000}, true},
		{"negative read timeout", server.Config{ReadTimeout: -1}, true},
		{"negative write timeout", server.Config{WriteTimeout: -1}, true},
		{"negative idle timeout", server.Config{IdleTimeout: -1}, true},
		{"bad body size", server.Config{MaxBodySize: "lots"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newServer(t *testing.T) *server.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := server.Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	srv := server.New(cfg, logger.NewWriter(io.Discard, "test"))
	srv.ApplyMiddleware(nil)
	srv.RegisterDefaultEndpoints("meetingnotes")
	return srv
}

func TestServer_DefaultEndpoints(t *testing.T) {
	srv := newServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/health", "/info"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
		if resp.Header.Get("X-Request-Id") == "" {
			t.Errorf("GET %s: expected request ID header", path)
		}
	}

	want := []string{"GET /health", "GET /info"}
	if got := srv.Routes(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
