package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("meetingnotes")
	if tc.ServiceName != "meetingnotes" || tc.Endpoint != "localhost:4318" || tc.SampleRate != 1.0 || !tc.Insecure {
		t.Errorf("unexpected tracer defaults %+v", tc)
	}
	mc := DefaultMeterConfig("meetingnotes")
	if mc.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", mc.Interval)
	}
}

func TestSectionDefaultsAndValidate(t *testing.T) {
	var tr TracingConfig
	tr.ApplyDefaults()
	if tr.Endpoint != "localhost:4318" || tr.SampleRate != 1.0 {
		t.Errorf("unexpected tracing defaults %+v", tr)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&TracingConfig{SampleRate: 1.5}).Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}

	var m MetricsConfig
	m.ApplyDefaults()
	if m.Interval != 15*time.Second {
		t.Errorf("unexpected metrics interval %v", m.Interval)
	}

	built := tr.TracerConfig("svc", "1.2.3", "staging")
	if built.ServiceVersion != "1.2.3" || built.Environment != "staging" || built.Endpoint != tr.Endpoint {
		t.Errorf("unexpected tracer config %+v", built)
	}
	if mc := m.MeterConfig("svc", "1.2.3", "staging"); mc.Interval != m.Interval {
		t.Errorf("unexpected meter config %+v", mc)
	}
}

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "svc", "POST /upload", "302", 100*time.Millisecond)
	metrics.RecordOperation(ctx, "svc", "transcribe", "ok", 50*time.Millisecond)
	metrics.RecordError(ctx, "stage", "summarize")
	metrics.RecordStage(ctx, "transcode", "failed", time.Second)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordRequestStart(ctx)
	m.RecordRequestEnd(ctx, "svc", "GET /", "200", time.Millisecond)
	m.RecordOperation(ctx, "svc", "op", "ok", time.Millisecond)
	m.RecordError(ctx, "type", "component")
	m.RecordStage(ctx, "layout", "done", time.Millisecond)
}

func TestOperationRecordsSpan(t *testing.T) {
	exporter := withRecorder(t)

	ctx, op := StartOperation(context.Background(), nil, "workflow", "transcode",
		attribute.String(AttrFolder, "20240105_Team_Sync"))
	if op.Name != "transcode" || op.Service != "workflow" {
		t.Errorf("unexpected operation %+v", op)
	}
	op.End(ctx, "failed", fmt.Errorf("ffmpeg exited"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "workflow.transcode" {
		t.Errorf("span name = %q", spans[0].Name)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrStatus].AsString() != "failed" {
		t.Errorf("status attribute = %v", attrs[AttrStatus])
	}
	if attrs[AttrFolder].AsString() != "20240105_Team_Sync" {
		t.Errorf("folder attribute = %v", attrs[AttrFolder])
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected the error to be recorded as a span event")
	}
}

func TestServiceHealth(t *testing.T) {
	sh := NewServiceHealth("meetingnotes", "1.0.0")
	if sh.Status != HealthStatusUp {
		t.Errorf("expected 'up', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "ffmpeg", Status: HealthStatusUp})
	sh.AddComponent(Health{Name: "openai", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected 'degraded', got %s", sh.Status)
	}
	sh.AddComponent(Health{Name: "disk", Status: HealthStatusDown})
	sh.AddComponent(Health{Name: "webhook", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down' not overridden by 'degraded', got %s", sh.Status)
	}
	if len(sh.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(sh.Components))
	}
}

type staticChecker Health

func (s staticChecker) CheckHealth(context.Context) Health { return Health(s) }

func TestCheckAll(t *testing.T) {
	sh := CheckAll(context.Background(), "meetingnotes", "dev",
		staticChecker{Name: "ffmpeg", Status: HealthStatusUp},
		staticChecker{Name: "openai", Status: HealthStatusDown},
	)
	if sh.Status != HealthStatusDown || len(sh.Components) != 2 {
		t.Errorf("unexpected health %+v", sh)
	}
}

func TestStartSpanAndAttributes(t *testing.T) {
	exporter := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := len(spans[0].Attributes); got != 6 {
		t.Errorf("expected 6 attributes, got %d", got)
	}
	if spans[0].Status.Description != "test error" {
		t.Errorf("unexpected status %+v", spans[0].Status)
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span error"))
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected non-nil noop span")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); got != tc.want {
			t.Errorf("sampler(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
	if sampler(0.5) == nil {
		t.Error("expected ratio sampler")
	}
}

func TestInitTracerAndMeter(t *testing.T) {
	ctx := context.Background()
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := InitTracer(ctx, &TracerConfig{
		ServiceName: "test", ServiceVersion: "dev", Environment: "test",
		Endpoint: "localhost:4318", Insecure: true, SampleRate: 0.5,
	})
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(shutdownCtx)

	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName: "test", ServiceVersion: "dev", Environment: "test",
		Endpoint: "localhost:4318", Insecure: true, Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	_ = mp.Shutdown(shutdownCtx)
}
