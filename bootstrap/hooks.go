package bootstrap

import (
	"context"

	"github.com/kbukum/appkit/errors"
)

// Hook is a lifecycle callback that runs during application startup or
// shutdown.
type Hook func(ctx context.Context) error

// OnStart registers a hook that runs after the Store is published and
// before the OnReady hooks.
func (a *App[Cmd]) OnStart(hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers a hook that runs right before the task.
func (a *App[Cmd]) OnReady(hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers a hook that runs during shutdown before any component
// is shut down.
func (a *App[Cmd]) OnStop(hooks ...Hook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks in order and stops at the first error.
func runHooks(ctx context.Context, stage string, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return errors.HookFailed(stage, i, err)
		}
	}
	return nil
}
