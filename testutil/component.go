package testutil

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
)

// Probe is a component that records its lifecycle calls. Tests embed it
// by pointer in small named types so each gets its own component key:
//
//	type cacheProbe struct{ *testutil.Probe }
type Probe struct {
	Name        string
	InitErr     error
	ShutdownErr error

	rec       *Recorder
	label     atomic.Value
	inits     atomic.Int32
	shutdowns atomic.Int32
}

// NewProbe returns a probe that records into rec under name.
func NewProbe(name string, rec *Recorder) *Probe {
	return &Probe{Name: name, rec: rec}
}

// Init records "init:<name>".
func (p *Probe) Init(_ context.Context, _ *config.Config, label string) error {
	p.inits.Add(1)
	p.label.Store(label)
	if p.rec != nil {
		p.rec.Record("init:" + p.Name)
	}
	return p.InitErr
}

// Shutdown records "shutdown:<name>".
func (p *Probe) Shutdown(context.Context) error {
	p.shutdowns.Add(1)
	if p.rec != nil {
		p.rec.Record("shutdown:" + p.Name)
	}
	return p.ShutdownErr
}

// Label returns the label Init was called with.
func (p *Probe) Label() string {
	l, _ := p.label.Load().(string)
	return l
}

// Inits returns how many times Init ran.
func (p *Probe) Inits() int { return int(p.inits.Load()) }

// Shutdowns returns how many times Shutdown ran.
func (p *Probe) Shutdowns() int { return int(p.shutdowns.Load()) }

// Health reports healthy once initialized and not shut down.
func (p *Probe) Health(context.Context) component.Health {
	h := component.Health{Name: p.Name, Status: component.StatusHealthy}
	if p.Inits() == 0 || p.Shutdowns() > 0 {
		h.Status = component.StatusUnhealthy
	}
	return h
}
