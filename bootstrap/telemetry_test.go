package bootstrap

import (
	"context"
	"fmt"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/appkit/testutil"
)

func TestLifecycleSpansAndMetrics(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec := testutil.NewRecorder()
	app := newTestApp(WithTracerProvider(tp), WithMeterProvider(mp))
	app.Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "b", "", func(p *testutil.Probe) *probeB {
			p.ShutdownErr = fmt.Errorf("close failed")
			return newB(p)
		}, nil))

	_ = app.Run(context.Background(), Invocation[NoCommand]{})

	counts := map[string]int{}
	var failedShutdowns int
	for _, s := range sr.Ended() {
		counts[s.Name()]++
		if s.Name() == "appkit.component.shutdown" && len(s.Events()) > 0 {
			failedShutdowns++
		}
	}
	if counts["appkit.run"] != 1 {
		t.Errorf("expected one run span, got %d", counts["appkit.run"])
	}
	if counts["appkit.component.init"] != 2 || counts["appkit.component.shutdown"] != 2 {
		t.Errorf("expected 2 init and 2 shutdown spans, got %v", counts)
	}
	if failedShutdowns != 1 {
		t.Errorf("expected one shutdown span with a recorded error, got %d", failedShutdowns)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "appkit.component.init.duration" {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("unexpected data type %T", m.Data)
			}
			var total uint64
			for _, dp := range hist.DataPoints {
				total += dp.Count
			}
			found = total == 2
		}
	}
	if !found {
		t.Error("expected two init duration observations")
	}
}
