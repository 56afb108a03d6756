package bootstrap

import (
	"fmt"
	"io"
	"testing"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/testutil"
)

type probeA struct{ *testutil.Probe }
type probeB struct{ *testutil.Probe }
type probeC struct{ *testutil.Probe }

func newA(p *testutil.Probe) *probeA { return &probeA{p} }
func newB(p *testutil.Probe) *probeB { return &probeB{p} }
func newC(p *testutil.Probe) *probeC { return &probeC{p} }

// probeFactory builds a recording factory. needs runs first, inside the
// constructor, so it can look up earlier components.
func probeFactory[T component.Component](rec *testutil.Recorder, name, label string,
	wrap func(*testutil.Probe) T, needs func(*component.BuildContext) error) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (T, error) {
		var zero T
		if needs != nil {
			if err := needs(bc); err != nil {
				return zero, err
			}
		}
		rec.Record("construct:" + name)
		return wrap(testutil.NewProbe(name, rec)), nil
	})
}

func needsA(bc *component.BuildContext) error {
	a, err := component.MustLookup[*probeA](bc, "")
	if err != nil {
		return err
	}
	if a.Inits() != 1 {
		return fmt.Errorf("probeA seen before init")
	}
	return nil
}

func newTestApp(opts ...Option) *App[NoCommand] {
	base := []Option{
		WithName("test"),
		WithLogger(logger.Nop()),
		WithSummary(false),
		WithOutput(io.Discard),
		WithSignals(),
	}
	app := NewDefault(append(base, opts...)...)
	app.SetWaitSignal(false)
	return app
}

func assertEqual(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", what, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", what, want, got)
		}
	}
}

func labelsOf(keys []component.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Label
	}
	return out
}
