// Package observability wires OpenTelemetry tracing and metrics.
//
// Both are optional. Without InitTracer the global noop provider is used and
// spans cost nothing; a nil *Metrics ignores every Record call.
//
//	tp, err := observability.InitTracer(ctx, cfg.Tracing.TracerConfig(name, version, env))
//	defer tp.Shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, metrics, "workflow", "transcode")
//	op.End(ctx, "done", nil)
package observability
