package endpoint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/server/endpoint"
)

type staticCheck observability.Health

func (s staticCheck) CheckHealth(context.Context) observability.Health {
	return observability.Health(s)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checkers   []observability.HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checkers", nil, http.StatusOK, "up"},
		{
			"degraded stays 200",
			[]observability.HealthChecker{
				staticCheck{Name: "ffmpeg", Status: observability.HealthStatusUp},
				staticCheck{Name: "discord", Status: observability.HealthStatusDegraded},
			},
			http.StatusOK, "degraded",
		},
		{
			"down is 503",
			[]observability.HealthChecker{
				staticCheck{Name: "ffmpeg", Status: observability.HealthStatusDown},
			},
			http.StatusServiceUnavailable, "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", endpoint.Health("meetingnotes", tt.checkers...))

			rr := httptest.NewRecorder()
			engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rr.Code)
			}

			var body struct {
				Status     string                 `json:"status"`
				Service    string                 `json:"service"`
				Components []observability.Health `json:"components"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Status != tt.wantStatus || body.Service != "meetingnotes" {
				t.Errorf("unexpected body %+v", body)
			}
			if len(body.Components) != len(tt.checkers) {
				t.Errorf("expected %d components, got %d", len(tt.checkers), len(body.Components))
			}
		})
	}
}

func TestInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/info", endpoint.Info("meetingnotes"))

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/info", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["service"] != "meetingnotes" {
		t.Errorf("service = %v", body["service"])
	}
	if v, _ := body["version"].(string); v == "" {
		t.Error("expected a version")
	}
}
