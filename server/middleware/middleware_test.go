package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	return rr
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_NoPanic(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.Recovery(logger.NewDefault("test")))
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRecovery_Panic(t *testing.T) {
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(middleware.Recovery(logger.NewWriter(&buf, "test")))
	engine.GET("/boom", func(*gin.Context) { panic("test panic") })

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" || body.Error.Message != "Internal server error" {
		t.Errorf("unexpected body %+v", body)
	}
	if !strings.Contains(buf.String(), "test panic") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratesID(t *testing.T) {
	var seen string
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	got := rr.Header().Get(middleware.HeaderRequestID)
	if got == "" {
		t.Fatal("expected X-Request-Id in response headers")
	}
	if seen != got {
		t.Errorf("context request ID %q != header %q", seen, got)
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "existing-id-123")
	rr := serve(engine, req)

	if got := rr.Header().Get(middleware.HeaderRequestID); got != "existing-id-123" {
		t.Errorf("expected existing-id-123, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		status  int
		wantLog bool
		level   string
	}{
		{"ok", "/upload", http.StatusFound, true, "info"},
		{"client error", "/missing", http.StatusNotFound, true, "warn"},
		{"server error", "/fail", http.StatusInternalServerError, true, "error"},
		{"health skipped", "/health", http.StatusOK, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			engine := gin.New()
			engine.Use(middleware.RequestLogger(logger.NewWriter(&buf, "test")))
			engine.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			serve(engine, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			if !tt.wantLog {
				if buf.Len() != 0 {
					t.Errorf("expected no log, got %q", buf.String())
				}
				return
			}
			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["path"] != tt.path {
				t.Errorf("path = %v, want %s", entry["path"], tt.path)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.BodySizeLimit("10B"))
	engine.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	small := serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny")))
	if small.Code != http.StatusOK {
		t.Errorf("small body: expected 200, got %d", small.Code)
	}
	large := serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	if large.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: expected 413, got %d", large.Code)
	}
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

func TestMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	for _, m := range []*observability.Metrics{metrics, nil} {
		engine := gin.New()
		engine.Use(middleware.Metrics(m))
		engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		if rr := serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody)); rr.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rr.Code)
		}
	}
}

// ---------------------------------------------------------------------------
// Tracing
// ---------------------------------------------------------------------------

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Tracing())
	engine.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/fail", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	serve(engine, req)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != observability.SpanHTTPRequest {
		t.Errorf("span name = %s", span.Name())
	}
	attrs := map[string]string{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[observability.AttrRequestID] != "req-42" || attrs["http.route"] != "/fail" || attrs["http.status_code"] != "502" {
		t.Errorf("attributes = %v", attrs)
	}
	if span.Status().Code != codes.Error {
		t.Errorf("status = %v", span.Status())
	}
}
