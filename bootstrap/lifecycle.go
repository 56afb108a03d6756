package bootstrap

import (
	"context"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
)

// Run drives one full lifecycle:
// load config → resolve strategy → construct+init each selected entry in
// registration order → publish Store → OnStart/OnReady hooks → task →
// wait for signal → OnStop hooks → shutdown in reverse order.
//
// A startup failure shuts down the components already initialized in this
// run, in reverse order, and returns the startup error; the Store is never
// published. Shutdown failures do not stop the pass: every component is
// shut down and the failures are returned joined.
func (a *App[Cmd]) Run(ctx context.Context, inv Invocation[Cmd]) (err error) {
	if !a.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeInternal, "app has already been run")
	}
	defer a.stop.Acknowledge()
	defer a.setPhase(PhaseTerminated)

	tel := newTelemetry(a.opts)
	ctx, span := tel.tracer.Start(ctx, "appkit.run", trace.WithAttributes(attribute.String("appkit.app", a.Name)))
	defer func() { endSpan(span, err) }()

	start := time.Now()

	cfg, err := a.loadConfig(inv.ConfigPath)
	if err != nil {
		a.log().Error("Failed to load configuration", logger.ErrorFields("load_config", err))
		return err
	}
	a.cfg.Store(cfg)
	a.setPhase(PhaseConfigLoaded)

	strategy, task, err := a.resolve(inv)
	if err != nil {
		a.log().Error("Failed to resolve command", logger.ErrorFields("resolve", err))
		return err
	}
	span.SetAttributes(attribute.String("appkit.strategy", strategy.String()))
	a.setPhase(PhaseStrategyResolved)

	store, err := a.startup(ctx, tel, cfg, strategy)
	if err != nil {
		return err
	}
	a.store.Store(store)
	a.setPhase(PhaseRunning)

	a.mu.Lock()
	onStart, onReady, onStop := a.onStart, a.onReady, a.onStop
	a.mu.Unlock()

	if err := runHooks(ctx, "on_start", onStart); err != nil {
		return a.abort(ctx, tel, onStop, err)
	}
	if err := runHooks(ctx, "on_ready", onReady); err != nil {
		return a.abort(ctx, tel, onStop, err)
	}

	if a.opts.summary && strategy.Kind() != StrategyNone {
		a.Summary.SetStrategy(strategy.String())
		a.Summary.SetStartupDuration(time.Since(start))
		a.Summary.Display(ctx, a.opts.output, store)
	}

	if task != nil {
		if err := task(ctx); err != nil {
			a.log().Error("Task failed", logger.ErrorFields("task", err))
			return a.abort(ctx, tel, onStop, errors.TaskFailed(err))
		}
	}

	if a.WaitSignal() {
		a.waitForSignal(ctx)
	}

	return a.shutdown(ctx, tel, onStop)
}

// abort shuts down after a failure in the running phase and returns the
// failure first.
func (a *App[Cmd]) abort(ctx context.Context, tel *telemetry, onStop []Hook, cause error) error {
	return errors.Join(cause, a.shutdown(ctx, tel, onStop))
}

func (a *App[Cmd]) loadConfig(path string) (*config.Config, error) {
	opts := append([]config.LoaderOption{}, a.opts.configOptions...)
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	return config.Load(opts...)
}

// startup constructs and initializes each selected entry before moving to
// the next, so a later factory only ever sees initialized predecessors.
func (a *App[Cmd]) startup(ctx context.Context, tel *telemetry, cfg *config.Config, strategy InitStrategy) (*component.Store, error) {
	entries, _ := a.registry.TakeAll()
	selected := strategy.Select(entries)

	a.log().Info("Initializing components", map[string]interface{}{
		logger.FieldStrategy: strategy.String(),
		logger.FieldCount:    len(selected),
		"registered":         len(entries),
	})

	store := component.NewStore()
	for _, f := range selected {
		if err := a.startEntry(ctx, tel, cfg, store, f); err != nil {
			a.log().Error("Startup failed, shutting down initialized components", map[string]interface{}{
				logger.FieldComponent: f.Key.TypeName(),
				logger.FieldLabel:     f.Key.Label,
				logger.FieldError:     err.Error(),
			})
			if rbErr := a.shutdownStore(ctx, tel, store); rbErr != nil {
				return nil, errors.Join(err, rbErr)
			}
			return nil, err
		}
	}
	return store, nil
}

func (a *App[Cmd]) startEntry(ctx context.Context, tel *telemetry, cfg *config.Config, store *component.Store, f component.Factory) (err error) {
	key := f.Key
	begin := time.Now()
	ctx, span := tel.startComponent(ctx, "init", key)
	defer func() {
		tel.record(ctx, tel.initDuration, key, time.Since(begin), err)
		endSpan(span, err)
	}()

	a.setPhase(PhaseConstructing)
	h, err := f.Build(component.NewBuildContext(ctx, cfg, store))
	if err != nil {
		return err
	}

	a.setPhase(PhaseInitializing)
	if err := h.Component().Init(ctx, cfg, key.Label); err != nil {
		return errors.InitFailed(key.String(), err)
	}
	if err := store.Insert(h); err != nil {
		return err
	}

	a.log().Info("Component initialized", map[string]interface{}{
		logger.FieldComponent: key.TypeName(),
		logger.FieldLabel:     key.Label,
		logger.FieldDuration:  time.Since(begin).Milliseconds(),
	})
	return nil
}

func (a *App[Cmd]) shutdown(ctx context.Context, tel *telemetry, onStop []Hook) error {
	a.setPhase(PhaseShuttingDown)
	ctx = context.WithoutCancel(ctx)

	var errs []error
	if err := runHooks(ctx, "on_stop", onStop); err != nil {
		a.log().Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		errs = append(errs, err)
	}
	if err := a.shutdownStore(ctx, tel, a.Store()); err != nil {
		errs = append(errs, err)
	}

	a.log().Info("Application shutdown complete")
	return errors.Join(errs...)
}

// shutdownStore shuts every component down in reverse insertion order,
// continuing past failures, then clears the store.
func (a *App[Cmd]) shutdownStore(ctx context.Context, tel *telemetry, store *component.Store) error {
	ctx = context.WithoutCancel(ctx)
	handles := store.Handles()

	var errs []error
	for i := len(handles) - 1; i >= 0; i-- {
		if err := a.shutdownOne(ctx, tel, handles[i]); err != nil {
			errs = append(errs, err)
		}
	}
	store.Clear()
	return errors.Join(errs...)
}

func (a *App[Cmd]) shutdownOne(ctx context.Context, tel *telemetry, h *component.Handle) (err error) {
	key := h.Key()
	begin := time.Now()
	ctx, span := tel.startComponent(ctx, "shutdown", key)
	defer func() {
		tel.record(ctx, tel.shutdownDuration, key, time.Since(begin), err)
		endSpan(span, err)
	}()

	if a.opts.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.shutdownTimeout)
		defer cancel()
	}

	fields := map[string]interface{}{
		logger.FieldComponent: key.TypeName(),
		logger.FieldLabel:     key.Label,
	}
	if err := h.Component().Shutdown(ctx); err != nil {
		fields[logger.FieldError] = err.Error()
		a.log().Error("Component shutdown failed", fields)
		return errors.ShutdownFailed(key.String(), err)
	}
	a.log().Info("Component shut down", fields)
	return nil
}

// waitForSignal blocks until an OS signal, RequestShutdown, or ctx ends.
func (a *App[Cmd]) waitForSignal(ctx context.Context) {
	sigCtx := ctx
	if len(a.opts.signals) > 0 {
		var stop context.CancelFunc
		sigCtx, stop = signal.NotifyContext(ctx, a.opts.signals...)
		defer stop()
	}

	a.log().Info("Application ready, waiting for shutdown signal")
	select {
	case <-sigCtx.Done():
		if ctx.Err() != nil {
			a.log().Info("Context canceled, shutting down")
		} else {
			a.log().Info("Received shutdown signal, graceful shutdown starting")
		}
	case <-a.stop.Requested():
		a.log().Info("Shutdown requested")
	}
}
