package component

import (
	"context"

	"github.com/kbukum/appkit/config"
)

// Component is a lifecycle-managed unit. Init runs exactly once after
// construction, before the component becomes visible in the Store.
// Shutdown runs at most once, in reverse registration order.
type Component interface {
	Init(ctx context.Context, cfg *config.Config, label string) error
	Shutdown(ctx context.Context) error
}

// Base supplies no-op Init and Shutdown. Embed it in components that need
// only one of the two.
type Base struct{}

func (Base) Init(context.Context, *config.Config, string) error { return nil }

func (Base) Shutdown(context.Context) error { return nil }
