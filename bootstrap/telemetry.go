package bootstrap

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/appkit/component"
)

const instrumentationName = "github.com/kbukum/appkit/bootstrap"

// telemetry holds the lifecycle spans and metrics of a run. Instruments
// come from the global providers unless options set them; the global
// providers delegate, so an observability component initialized during
// the run still receives the later spans.
type telemetry struct {
	tracer           trace.Tracer
	initDuration     metric.Float64Histogram
	shutdownDuration metric.Float64Histogram
}

func newTelemetry(o *appOptions) *telemetry {
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	return &telemetry{
		tracer: tp.Tracer(instrumentationName),
		initDuration: histogram(meter, "appkit.component.init.duration",
			"Time to construct and initialize a component."),
		shutdownDuration: histogram(meter, "appkit.component.shutdown.duration",
			"Time to shut a component down."),
	}
}

func histogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	h, err := meter.Float64Histogram(name, metric.WithUnit("s"), metric.WithDescription(desc))
	if err != nil {
		h, _ = noop.NewMeterProvider().Meter(instrumentationName).Float64Histogram(name)
	}
	return h
}

func keyAttributes(key component.Key) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("appkit.component", key.TypeName()),
		attribute.String("appkit.label", key.Label),
	}
}

func (t *telemetry) startComponent(ctx context.Context, op string, key component.Key) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "appkit.component."+op, trace.WithAttributes(keyAttributes(key)...))
}

func (t *telemetry) record(ctx context.Context, h metric.Float64Histogram, key component.Key, d time.Duration, err error) {
	attrs := append(keyAttributes(key), attribute.Bool("appkit.success", err == nil))
	h.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
