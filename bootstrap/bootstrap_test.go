package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/meetingnotes/config"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
)

type testConfig struct {
	config.ServiceConfig
}

type staticCheck observability.Health

func (s staticCheck) CheckHealth(context.Context) observability.Health {
	return observability.Health(s)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close(context.Context) error {
	c.closed = true
	return c.err
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(newTestConfig("meetingnotes", "1.0.0"),
		WithLogger(logger.NewWriter(io.Discard, "test")),
		WithSummaryOutput(&out),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, &out
}

// canceledCtx makes Run return right after startup.
func canceledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "meetingnotes" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Logger == nil || app.Summary == nil {
		t.Error("expected logger and summary")
	}
	if app.gracefulTimeout != defaultGracefulTimeout {
		t.Errorf("expected default graceful timeout, got %v", app.gracefulTimeout)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected typed config, got %+v", app.Cfg)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}
	if _, err := NewApp(cfg, WithLogger(logger.NewWriter(io.Discard, "test"))); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewAppVersionFallback(t *testing.T) {
	app, err := NewApp(newTestConfig("meetingnotes", ""), WithLogger(logger.NewWriter(io.Discard, "test")))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Version == "" {
		t.Error("expected build version when config has none")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", "1"),
		WithLogger(logger.NewWriter(io.Discard, "test")),
		WithGracefulTimeout(30*time.Second),
	)
	if err != nil {
		t.Fatal(err)
	}
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", app.gracefulTimeout)
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	app, _ := newTestApp(t)
	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start"))
	app.OnConfigure(func(context.Context, *App[*testConfig]) error {
		order = append(order, "configure")
		return nil
	})
	app.OnReady(record("ready"))
	app.OnStop(record("stop"))

	if err := app.Run(canceledCtx()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := "start,configure,ready,stop"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestRunHookErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		want  string
	}{
		{"start", func(a *App[*testConfig]) {
			a.OnStart(func(context.Context) error { return boom })
		}, "onStart"},
		{"configure", func(a *App[*testConfig]) {
			a.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
		}, "configuration failed"},
		{"ready", func(a *App[*testConfig]) {
			a.OnReady(func(context.Context) error { return boom })
		}, "onReady"},
		{"stop", func(a *App[*testConfig]) {
			a.OnStop(func(context.Context) error { return boom })
		}, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			tt.setup(app)
			err := app.Run(canceledCtx())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected wrapped boom, got %v", err)
			}
		})
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	app, _ := newTestApp(t)
	secondRan := false
	app.OnStart(
		func(context.Context) error { return errors.New("first") },
		func(context.Context) error { secondRan = true; return nil },
	)
	_ = app.Run(canceledCtx())
	if secondRan {
		t.Error("second hook should not run after the first fails")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name     string
		checks   []observability.HealthChecker
		wantErr  bool
		wantStat observability.HealthStatus
	}{
		{"empty", nil, false, observability.HealthStatusUp},
		{"degraded passes", []observability.HealthChecker{
			staticCheck{Name: "discord", Status: observability.HealthStatusDegraded},
		}, false, observability.HealthStatusDegraded},
		{"down fails", []observability.HealthChecker{
			staticCheck{Name: "ffmpeg", Status: observability.HealthStatusDown, Message: "not on PATH"},
		}, true, observability.HealthStatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			app.AddHealthCheck(tt.checks...)
			sh, err := app.ReadyCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
			if sh.Status != tt.wantStat {
				t.Errorf("status = %s, want %s", sh.Status, tt.wantStat)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "not on PATH") {
				t.Errorf("expected message in error, got %v", err)
			}
		})
	}
}

func TestRunReadyCheckDoesNotAbort(t *testing.T) {
	app, out := newTestApp(t)
	app.AddHealthCheck(staticCheck{Name: "ffmpeg", Status: observability.HealthStatusDown})
	if err := app.Run(canceledCtx()); err != nil {
		t.Fatalf("a failing ready check should only warn, got %v", err)
	}
	if !strings.Contains(out.String(), "ffmpeg") {
		t.Errorf("expected health in summary, got %q", out.String())
	}
}

func TestRunClosesResources(t *testing.T) {
	app, _ := newTestApp(t)
	ok := &closer{}
	failing := &closer{err: errors.New("close failed")}
	app.AddResource(ok, "not closeable", failing)

	err := app.Run(canceledCtx())
	if !ok.closed || !failing.closed {
		t.Error("expected every resource to be closed")
	}
	if err == nil || !strings.Contains(err.Error(), "close failed") {
		t.Errorf("expected close error, got %v", err)
	}
}

func TestRunClosesResourcesAfterFailedStart(t *testing.T) {
	app, _ := newTestApp(t)
	res := &closer{}
	app.AddResource(res)
	app.OnStart(func(context.Context) error { return errors.New("bind failed") })

	if err := app.Run(canceledCtx()); err == nil {
		t.Fatal("expected start error")
	}
	if !res.closed {
		t.Error("expected resources closed after failed startup")
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal on context cancel, got %v", sig)
	}
}

func TestSummaryDisplay(t *testing.T) {
	var out bytes.Buffer
	s := NewSummary("meetingnotes", "1.0.0")
	s.SetOutput(&out)
	s.SetStartupDuration(1500 * time.Millisecond)
	s.Track(SectionDirectories, "uploads", "/data/uploads")
	s.Track(SectionProviders, "llm", "openai (gpt-4)")
	s.TrackRoutes([]string{"GET /", "POST /upload"})

	health := observability.NewServiceHealth("meetingnotes", "1.0.0")
	health.AddComponent(observability.Health{Name: "discord", Status: observability.HealthStatusDegraded, Message: "no webhook"})
	s.Display(health)

	got := out.String()
	for _, want := range []string{
		"meetingnotes 1.0.0 started in 1.50s",
		"Directories", "/data/uploads",
		"openai (gpt-4)",
		"POST", "/upload",
		"discord: degraded - no webhook",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if len(s.Entries(SectionRoutes)) != 2 {
		t.Errorf("expected 2 routes, got %v", s.Entries(SectionRoutes))
	}
}

func TestSummaryEmptySections(t *testing.T) {
	var out bytes.Buffer
	s := NewSummary("svc", "dev")
	s.SetOutput(&out)
	s.Display(nil)
	if strings.Contains(out.String(), "Routes") {
		t.Error("empty sections should be omitted")
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" || treePrefix(1, 2) != "└──" {
		t.Error("unexpected tree prefixes")
	}
}
