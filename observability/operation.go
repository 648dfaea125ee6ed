package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation tracks one traced, timed unit of work such as a workflow stage.
type Operation struct {
	Service string
	Name    string
	start   time.Time
	span    trace.Span
	metrics *Metrics
}

// StartOperation opens a span named "<service>.<name>" and starts the clock.
// metrics may be nil.
func StartOperation(ctx context.Context, metrics *Metrics, service, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, service+"."+name)
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	)
	span.SetAttributes(attrs...)
	return ctx, &Operation{
		Service: service,
		Name:    name,
		start:   time.Now(),
		span:    span,
		metrics: metrics,
	}
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.start)
}

// End closes the span and records the operation with the given status.
func (o *Operation) End(ctx context.Context, status string, err error) time.Duration {
	d := o.Duration()
	if err != nil {
		o.span.RecordError(err)
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, d.Milliseconds()),
	)
	o.span.End()
	o.metrics.RecordOperation(ctx, o.Service, o.Name, status, d)
	if err != nil {
		o.metrics.RecordError(ctx, status, o.Name)
	}
	return d
}
