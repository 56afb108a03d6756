package bootstrap

import (
	"io"
	"os"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/version"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any command type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	name            string
	logger          *logger.Logger
	signals         []os.Signal
	shutdownTimeout time.Duration
	versionPrinter  version.Printer
	output          io.Writer
	summary         bool
	tracerProvider  trace.TracerProvider
	meterProvider   metric.MeterProvider
	configOptions   []config.LoaderOption
}

// resolveOptions applies all options over the defaults.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{
		name:           "app",
		signals:        []os.Signal{os.Interrupt, syscall.SIGTERM},
		versionPrinter: version.Print,
		output:         os.Stdout,
		summary:        true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName sets the application name shown in logs and the summary.
func WithName(name string) Option {
	return func(o *appOptions) { o.name = name }
}

// WithLogger sets a fixed logger for the orchestrator. Without it the
// orchestrator logs through the global logger, so a `log` component
// registered first takes effect for the rest of startup.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithSignals replaces the OS signals that end the wait phase.
func WithSignals(signals ...os.Signal) Option {
	return func(o *appOptions) { o.signals = signals }
}

// WithShutdownTimeout bounds each component's Shutdown call. Zero, the
// default, leaves deadlines to the components.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.shutdownTimeout = d }
}

// WithVersionPrinter replaces version.Print on the version path.
func WithVersionPrinter(p version.Printer) Option {
	return func(o *appOptions) { o.versionPrinter = p }
}

// WithOutput sets where the version path and the startup summary write.
func WithOutput(w io.Writer) Option {
	return func(o *appOptions) { o.output = w }
}

// WithSummary toggles the startup summary.
func WithSummary(enabled bool) Option {
	return func(o *appOptions) { o.summary = enabled }
}

// WithTracerProvider sets the provider for lifecycle spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *appOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider for lifecycle metrics. The global
// provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *appOptions) { o.meterProvider = mp }
}

// WithConfigOptions adds loader options (env prefix, .env file, file
// system) applied when Run loads configuration.
func WithConfigOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) { o.configOptions = append(o.configOptions, opts...) }
}
