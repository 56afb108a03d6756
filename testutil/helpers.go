package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
)

// CleanupFunc shuts a component down.
type CleanupFunc func() error

// Setup initializes c outside an orchestrator and returns its shutdown.
//
//	cleanup, err := testutil.Setup(ctx, redisComponent, cfg, "")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer cleanup()
func Setup(ctx context.Context, c component.Component, cfg *config.Config, label string) (CleanupFunc, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if label == "" {
		label = component.DefaultLabel
	}
	if err := c.Init(ctx, cfg, label); err != nil {
		return nil, err
	}
	return func() error { return c.Shutdown(ctx) }, nil
}

// THelper provides testing.T integration for component setup.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T.
func T(t *testing.T) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to Init and Shutdown.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup initializes c and registers its shutdown with t.Cleanup. Failure
// to initialize fails the test immediately.
func (h *THelper) Setup(c component.Component, cfg *config.Config) {
	h.t.Helper()
	cleanup, err := Setup(h.ctx, c, cfg, "")
	if err != nil {
		h.t.Fatalf("failed to init component: %v", err)
	}
	h.t.Cleanup(func() {
		if err := cleanup(); err != nil {
			h.t.Errorf("failed to shut down component: %v", err)
		}
	})
}
