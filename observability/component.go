package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
)

// Option configures a Component.
type Option func(*Component)

// WithSection reads the configuration from section instead of `tracing`.
func WithSection(section string) Option {
	return func(c *Component) { c.section = section }
}

// WithLogger overrides the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Component) { c.log = l }
}

// WithSpanProcessor attaches p to the tracer provider next to the exporter.
func WithSpanProcessor(p sdktrace.SpanProcessor) Option {
	return func(c *Component) { c.processors = append(c.processors, p) }
}

// WithMetricReader attaches r to the meter provider next to the exporter.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(c *Component) { c.readers = append(c.readers, r) }
}

// Component installs OpenTelemetry providers as the process globals for
// the lifetime of the application. The section is optional.
type Component struct {
	section    string
	log        *logger.Logger
	processors []sdktrace.SpanProcessor
	readers    []sdkmetric.Reader

	cfg     Config
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
	stopped atomic.Bool
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.HealthChecker = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
)

// Factory returns a factory for the telemetry component.
func Factory(label string, opts ...Option) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (*Component, error) {
		return NewComponent(bc.Config(), opts...)
	})
}

// NewComponent reads and validates the section. Providers are created at
// Init.
func NewComponent(cfg *config.Config, opts ...Option) (*Component, error) {
	c := &Component{section: Section}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("observability")
	}

	oc := DefaultConfig()
	if _, err := cfg.SectionOrDefault(c.section, &oc); err != nil {
		return nil, err
	}
	oc.ApplyDefaults()
	if err := oc.Validate(c.section); err != nil {
		return nil, err
	}
	c.cfg = oc
	return c, nil
}

// Init builds the providers and installs them globally.
func (c *Component) Init(ctx context.Context, _ *config.Config, _ string) error {
	tp, err := NewTracerProvider(ctx, c.cfg, c.processors...)
	if err != nil {
		return errors.InvalidConfig(c.section, err)
	}

	var mp *sdkmetric.MeterProvider
	if c.cfg.Metrics {
		mp, err = NewMeterProvider(ctx, c.cfg, c.readers...)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return errors.InvalidConfig(c.section, err)
		}
		c.metrics, err = NewMetrics(mp.Meter(defaultTracerName))
		if err != nil {
			_ = tp.Shutdown(ctx)
			_ = mp.Shutdown(ctx)
			return err
		}
		otel.SetMeterProvider(mp)
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	c.tp, c.mp = tp, mp

	c.log.Info("Telemetry initialized", map[string]interface{}{
		"service":     c.cfg.ServiceName,
		"endpoint":    c.cfg.Endpoint,
		"sample_rate": c.cfg.SampleRate,
		"metrics":     c.cfg.Metrics,
	})
	return nil
}

// Shutdown flushes pending telemetry and stops both providers. Both are
// attempted even when the first fails.
func (c *Component) Shutdown(ctx context.Context) error {
	if c.tp == nil || !c.stopped.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	if err := c.tp.ForceFlush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	if err := c.tp.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return stderrors.Join(errs...)
}

// TracerProvider returns the provider installed at Init.
func (c *Component) TracerProvider() *sdktrace.TracerProvider { return c.tp }

// MeterProvider returns the provider installed at Init, nil when metrics
// are disabled.
func (c *Component) MeterProvider() *sdkmetric.MeterProvider { return c.mp }

// Metrics returns the application instruments, nil when metrics are
// disabled.
func (c *Component) Metrics() *Metrics { return c.metrics }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

// Health reports whether the providers are installed and running.
func (c *Component) Health(context.Context) component.Health {
	switch {
	case c.tp == nil:
		return component.Health{Name: "observability", Status: component.StatusUnhealthy, Message: "not initialized"}
	case c.stopped.Load():
		return component.Health{Name: "observability", Status: component.StatusUnhealthy, Message: "shut down"}
	}
	return component.Health{Name: "observability", Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	target := c.cfg.Endpoint
	if target == "" {
		target = "in-process"
	}
	return component.Description{
		Name:    "OpenTelemetry",
		Type:    "observability",
		Details: fmt.Sprintf("%s sample=%g metrics=%t", target, c.cfg.SampleRate, c.cfg.Metrics),
	}
}
