package component

import (
	"context"

	"github.com/kbukum/appkit/config"
)

// BuildContext is the read-only view a factory receives while it builds
// its component: the loaded configuration and every component constructed
// and initialized before it in registration order.
type BuildContext struct {
	ctx   context.Context
	cfg   *config.Config
	built Reader
}

// NewBuildContext returns a view over cfg and the partially built store.
func NewBuildContext(ctx context.Context, cfg *config.Config, built Reader) *BuildContext {
	if cfg == nil {
		cfg = config.New()
	}
	if built == nil {
		built = NewStore()
	}
	return &BuildContext{ctx: ctx, cfg: cfg, built: built}
}

// Context returns the startup context.
func (b *BuildContext) Context() context.Context { return b.ctx }

// Config returns the loaded configuration.
func (b *BuildContext) Config() *config.Config { return b.cfg }

// Handle looks up an earlier component by key.
func (b *BuildContext) Handle(key Key) (*Handle, bool) { return b.built.Handle(key) }

// Handles returns the components built so far in construction order. The
// view is live: a caller that keeps the BuildContext sees components that
// were added after it returned.
func (b *BuildContext) Handles() []*Handle {
	if l, ok := b.built.(interface{ Handles() []*Handle }); ok {
		return l.Handles()
	}
	return nil
}
