package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/shutdown"
)

// App is the orchestrator. Cmd is the parsed subcommand type; use
// NoCommand for applications without subcommands.
//
// An App runs once. Registration and handler setup happen before Run;
// during Run the Store is published only after every selected component
// is both constructed and initialized.
type App[Cmd any] struct {
	Name    string
	Summary *Summary

	opts     *appOptions
	registry *component.Registry
	stop     *shutdown.Token

	mu             sync.Mutex
	commandHandler CommandHandler[Cmd]
	defaultHandler DefaultHandler[Cmd]
	waitSignal     bool
	onStart        []Hook
	onReady        []Hook
	onStop         []Hook

	started atomic.Bool
	phase   atomic.Int32
	cfg     atomic.Pointer[config.Config]
	store   atomic.Pointer[component.Store]
}

// New creates an orchestrator for command type Cmd.
func New[Cmd any](opts ...Option) *App[Cmd] {
	o := resolveOptions(opts)
	a := &App[Cmd]{
		Name:       o.name,
		Summary:    NewSummary(o.name),
		opts:       o,
		registry:   component.NewRegistry(),
		stop:       shutdown.New(),
		waitSignal: true,
	}
	a.cfg.Store(config.New())
	a.store.Store(component.NewStore())
	return a
}

// NewDefault creates an orchestrator without subcommands.
func NewDefault(opts ...Option) *App[NoCommand] {
	return New[NoCommand](opts...)
}

// Register appends a factory. A key registered twice panics: it is a
// programming error, caught before any factory runs.
func (a *App[Cmd]) Register(f component.Factory) *App[Cmd] {
	a.registry.MustAdd(f)
	return a
}

// IsRegistered reports whether key has a factory waiting to run.
func (a *App[Cmd]) IsRegistered(key component.Key) bool {
	return a.registry.IsRegistered(key)
}

// RegisterCommandHandler sets the handler for parsed commands.
func (a *App[Cmd]) RegisterCommandHandler(h CommandHandler[Cmd]) *App[Cmd] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.commandHandler = h
	return a
}

// SetDefaultHandler sets the handler used when no command is given.
func (a *App[Cmd]) SetDefaultHandler(h DefaultHandler[Cmd]) *App[Cmd] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.defaultHandler = h
	return a
}

// SetWaitSignal controls whether Run waits for a shutdown signal after the
// task. Handlers of one-shot commands turn it off.
func (a *App[Cmd]) SetWaitSignal(wait bool) *App[Cmd] {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.waitSignal = wait
	return a
}

// WaitSignal reports the current wait flag.
func (a *App[Cmd]) WaitSignal() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.waitSignal
}

// Phase returns the current lifecycle phase.
func (a *App[Cmd]) Phase() Phase { return Phase(a.phase.Load()) }

// Config returns the loaded configuration; empty before Run loads it.
func (a *App[Cmd]) Config() *config.Config { return a.cfg.Load() }

// Store returns the published Store. Before publication and after
// shutdown it is empty.
func (a *App[Cmd]) Store() *component.Store { return a.store.Load() }

// Handle makes the App a component.Reader over the published Store:
//
//	db, err := component.MustLookup[*database.Component](app, "")
func (a *App[Cmd]) Handle(key component.Key) (*component.Handle, bool) {
	return a.Store().Handle(key)
}

// ComponentKeys returns the published keys in construction order.
func (a *App[Cmd]) ComponentKeys() []component.Key { return a.Store().Keys() }

// RequestShutdown ends the wait phase as a signal would.
func (a *App[Cmd]) RequestShutdown() { a.stop.Request() }

// Done is closed when Run has finished.
func (a *App[Cmd]) Done() <-chan struct{} { return a.stop.Done() }

func (a *App[Cmd]) log() *logger.Logger {
	if a.opts.logger != nil {
		return a.opts.logger
	}
	return logger.WithComponent("bootstrap")
}

func (a *App[Cmd]) setPhase(p Phase) {
	a.phase.Store(int32(p))
	a.log().Debug("Phase changed", map[string]interface{}{logger.FieldPhase: p.String()})
}

// resolve dispatches to the command handler, the version path, the
// default handler or the built-in default, in that order.
func (a *App[Cmd]) resolve(inv Invocation[Cmd]) (InitStrategy, Task, error) {
	a.mu.Lock()
	commandHandler, defaultHandler := a.commandHandler, a.defaultHandler
	a.mu.Unlock()

	switch {
	case inv.Command != nil:
		if commandHandler == nil {
			return InitStrategy{}, nil, errors.HandlerNotRegistered(fmt.Sprintf("%+v", *inv.Command))
		}
		s, task := commandHandler(*inv.Command, a)
		return s, task, nil
	case inv.PrintVersion:
		a.SetWaitSignal(false)
		return None(), func(context.Context) error {
			a.opts.versionPrinter(a.opts.output, a.opts.name)
			return nil
		}, nil
	case defaultHandler != nil:
		s, task := defaultHandler(a)
		return s, task, nil
	default:
		return All(), nil, nil
	}
}
