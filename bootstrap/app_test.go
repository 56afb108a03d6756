package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/testutil"
)

func TestRunAllInitsInOrderAndShutsDownInReverse(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "b", "", newB, needsA)).
		Register(probeFactory(rec, "c", "", newC, nil))

	var keysDuringTask []component.Key
	app.SetDefaultHandler(func(a *App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error {
			keysDuringTask = a.ComponentKeys()
			return nil
		}
	})

	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	assertEqual(t, "events", rec.Events(), []string{
		"construct:a", "init:a",
		"construct:b", "init:b",
		"construct:c", "init:c",
		"shutdown:c", "shutdown:b", "shutdown:a",
	})
	if len(keysDuringTask) != 3 {
		t.Fatalf("expected 3 published keys during task, got %v", keysDuringTask)
	}
	if keysDuringTask[0] != component.KeyOf[*probeA]("") || keysDuringTask[2] != component.KeyOf[*probeC]("") {
		t.Errorf("expected construction order in keys, got %v", keysDuringTask)
	}
	if app.Store().Len() != 0 {
		t.Errorf("expected store cleared after shutdown, got %d", app.Store().Len())
	}
	if app.Phase() != PhaseTerminated {
		t.Errorf("expected terminated phase, got %s", app.Phase())
	}
}

func TestRegistrationOrderIsDependencyOrder(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "b", "", newB, needsA)).
		Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "c", "", newC, nil))

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeConstructFailed) {
		t.Fatalf("expected CONSTRUCT_FAILED, got %v", err)
	}
	if !errors.IsCode(err, errors.ErrCodeComponentNotFound) {
		t.Errorf("expected COMPONENT_NOT_FOUND cause, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected nothing constructed, got %v", rec.Events())
	}
}

func TestStrategyFiltering(t *testing.T) {
	tests := []struct {
		name     string
		strategy InitStrategy
		want     []string
	}{
		{"all", All(), []string{"a", "b", "c"}},
		{"only b", Only(component.KeyOf[*probeB]("")), []string{"b"}},
		{"deny b", Deny(component.KeyOf[*probeB]("")), []string{"a", "c"}},
		{"none", None(), nil},
		{"only labels", OnlyLabels("blue"), []string{"c"}},
		{"deny labels", DenyLabels("blue"), []string{"a", "b"}},
		{"zero value is all", InitStrategy{}, []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			app := newTestApp()
			app.Register(probeFactory(rec, "a", "", newA, nil)).
				Register(probeFactory(rec, "b", "", newB, nil)).
				Register(probeFactory(rec, "c", "blue", newC, nil))

			var published int
			app.SetDefaultHandler(func(a *App[NoCommand]) (InitStrategy, Task) {
				return tc.strategy, func(context.Context) error {
					published = a.Store().Len()
					return nil
				}
			})

			if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			assertEqual(t, "inits", rec.Names("init:"), tc.want)
			if published != len(tc.want) {
				t.Errorf("expected %d published components, got %d", len(tc.want), published)
			}
		})
	}
}

// The canonical Log → Db → Http scenario: Http needs Db at construction.
type logProbe struct{ *testutil.Probe }
type dbProbe struct{ *testutil.Probe }
type httpProbe struct {
	*testutil.Probe
	db *dbProbe
}

func registerLogDbHttp(app *App[NoCommand], rec *testutil.Recorder) {
	app.Register(component.NewFactory("", func(*component.BuildContext, string) (*logProbe, error) {
		return &logProbe{testutil.NewProbe("log", rec)}, nil
	}))
	app.Register(component.NewFactory("", func(*component.BuildContext, string) (*dbProbe, error) {
		return &dbProbe{testutil.NewProbe("db", rec)}, nil
	}))
	app.Register(component.NewFactory("", func(bc *component.BuildContext, _ string) (*httpProbe, error) {
		db, err := component.MustLookup[*dbProbe](bc, "default")
		if err != nil {
			return nil, err
		}
		return &httpProbe{Probe: testutil.NewProbe("http", rec), db: db}, nil
	}))
}

func TestLogDbHttpScenario(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	registerLogDbHttp(app, rec)

	var sameDb bool
	app.SetDefaultHandler(func(a *App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error {
			h, err := component.MustLookup[*httpProbe](a, "")
			if err != nil {
				return err
			}
			db, err := component.MustLookup[*dbProbe](a, "")
			if err != nil {
				return err
			}
			sameDb = h.db == db
			return nil
		}
	})

	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertEqual(t, "inits", rec.Names("init:"), []string{"log", "db", "http"})
	if !sameDb {
		t.Error("expected http to hold the published db instance")
	}
}

func TestLogDbHttpOnlyHttpFails(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	registerLogDbHttp(app, rec)
	app.SetDefaultHandler(func(*App[NoCommand]) (InitStrategy, Task) {
		return Only(component.KeyOf[*httpProbe]("")), nil
	})

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeComponentNotFound) {
		t.Fatalf("expected missing db to fail http construction, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no lifecycle events, got %v", rec.Events())
	}
}

func TestDuplicateRegistrationPanicsBeforeRun(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil))

	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic on duplicate registration")
			}
			err, ok := r.(error)
			if !ok || !errors.IsCode(err, errors.ErrCodeDuplicateComponent) {
				t.Errorf("expected DUPLICATE_COMPONENT panic, got %v", r)
			}
		}()
		app.Register(probeFactory(rec, "a2", "default", newA, nil))
	}()

	if len(rec.Events()) != 0 {
		t.Errorf("expected no factory to run, got %v", rec.Events())
	}

	// The surviving entry is the original one.
	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertEqual(t, "constructed", rec.Names("construct:"), []string{"a"})
}

func TestSameTypeDifferentLabels(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "primary", "", newA, nil)).
		Register(probeFactory(rec, "replica", "replica", newA, nil))

	var labels []string
	app.SetDefaultHandler(func(a *App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error {
			labels = labelsOf(a.ComponentKeys())
			r, ok := component.Lookup[*probeA](a, "replica")
			if !ok || r.Label() != "replica" {
				return fmt.Errorf("replica not initialized with its label")
			}
			return nil
		}
	})

	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertEqual(t, "labels", labels, []string{"default", "replica"})
}

type command struct {
	Name string
}

func TestCommandHandler(t *testing.T) {
	rec := testutil.NewRecorder()
	app := New[command](WithSummary(false), WithSignals(), WithOutput(io.Discard))
	app.Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "b", "", newB, nil))

	var got string
	app.RegisterCommandHandler(func(cmd command, a *App[command]) (InitStrategy, Task) {
		a.SetWaitSignal(false)
		return Only(component.KeyOf[*probeB]("")), func(context.Context) error {
			got = cmd.Name
			return nil
		}
	})

	err := app.Run(context.Background(), Invocation[command]{Command: &command{Name: "migrate"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "migrate" {
		t.Errorf("expected task to see command, got %q", got)
	}
	assertEqual(t, "inits", rec.Names("init:"), []string{"b"})
}

func TestCommandWithoutHandler(t *testing.T) {
	rec := testutil.NewRecorder()
	app := New[command](WithSummary(false), WithSignals())
	app.Register(probeFactory(rec, "a", "", newA, nil))

	err := app.Run(context.Background(), Invocation[command]{Command: &command{Name: "x"}})
	if !errors.IsCode(err, errors.ErrCodeHandlerNotRegistered) {
		t.Fatalf("expected HANDLER_NOT_REGISTERED, got %v", err)
	}
	if !strings.Contains(err.Error(), "no command handler registered for command {Name:x}") {
		t.Errorf("expected the command in the message, got %q", err.Error())
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no components, got %v", rec.Events())
	}
}

func TestVersionPath(t *testing.T) {
	rec := testutil.NewRecorder()
	var out bytes.Buffer
	app := newTestApp(
		WithOutput(&out),
		WithName("billing"),
		WithVersionPrinter(func(w io.Writer, name string) { fmt.Fprint(w, name+" v9.9.9") }),
	)
	app.SetWaitSignal(true)
	app.Register(probeFactory(rec, "a", "", newA, nil))

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), Invocation[NoCommand]{PrintVersion: true}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("version path must not wait for a signal")
	}
	if out.String() != "billing v9.9.9" {
		t.Errorf("expected version output, got %q", out.String())
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no components on version path, got %v", rec.Events())
	}
	if app.WaitSignal() {
		t.Error("expected wait flag cleared")
	}
}

func TestWaitForRequestedShutdown(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.SetWaitSignal(true)
	app.Register(probeFactory(rec, "a", "", newA, nil))
	app.OnReady(func(context.Context) error {
		go app.RequestShutdown()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background(), Invocation[NoCommand]{}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after RequestShutdown")
	}
	<-app.Done()
	assertEqual(t, "shutdowns", rec.Names("shutdown:"), []string{"a"})
}

func TestWaitEndsOnContextCancel(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.SetWaitSignal(true)
	app.Register(probeFactory(rec, "a", "", newA, nil))

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})

	if err := app.Run(ctx, Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertEqual(t, "shutdowns", rec.Names("shutdown:"), []string{"a"})
}

func TestInitFailureRollsBack(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "b", "", newB, nil)).
		Register(probeFactory(rec, "c", "", func(p *testutil.Probe) *probeC {
			p.InitErr = fmt.Errorf("port in use")
			return newC(p)
		}, nil))

	taskRan := false
	app.SetDefaultHandler(func(*App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error { taskRan = true; return nil }
	})

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeInitFailed) {
		t.Fatalf("expected INIT_FAILED, got %v", err)
	}
	if taskRan {
		t.Error("task must not run after a failed startup")
	}
	assertEqual(t, "shutdowns", rec.Names("shutdown:"), []string{"b", "a"})
	if app.Store().Len() != 0 {
		t.Error("expected store never published")
	}
	if app.Phase() != PhaseTerminated {
		t.Errorf("expected terminated, got %s", app.Phase())
	}
}

func TestShutdownContinuesOnError(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil)).
		Register(probeFactory(rec, "b", "", func(p *testutil.Probe) *probeB {
			p.ShutdownErr = fmt.Errorf("flush failed")
			return newB(p)
		}, nil)).
		Register(probeFactory(rec, "c", "", newC, nil))

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeShutdownFailed) {
		t.Fatalf("expected SHUTDOWN_FAILED, got %v", err)
	}
	if !strings.Contains(err.Error(), "flush failed") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
	assertEqual(t, "shutdowns", rec.Names("shutdown:"), []string{"c", "b", "a"})
}

type slowShutdown struct{ component.Base }

func (slowShutdown) Shutdown(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestShutdownTimeout(t *testing.T) {
	app := newTestApp(WithShutdownTimeout(20 * time.Millisecond))
	app.Register(component.Instance("", &slowShutdown{}))

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeShutdownFailed) {
		t.Fatalf("expected SHUTDOWN_FAILED from timeout, got %v", err)
	}
}

func TestConfigLoadFailureStopsBeforeComponents(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil))

	err := app.Run(context.Background(), Invocation[NoCommand]{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yml"),
	})
	if !errors.IsCode(err, errors.ErrCodeConfigLoad) {
		t.Fatalf("expected CONFIG_LOAD, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("expected no components, got %v", rec.Events())
	}
}

type sectionReader struct {
	component.Base
	Port int `mapstructure:"port"`
}

func (s *sectionReader) Init(_ context.Context, cfg *config.Config, _ string) error {
	return cfg.Section("server", s)
}

func TestConfigReachesInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := &sectionReader{}
	app := newTestApp()
	app.Register(component.Instance("", reader))

	if err := app.Run(context.Background(), Invocation[NoCommand]{ConfigPath: path}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reader.Port != 9090 {
		t.Errorf("expected port 9090, got %d", reader.Port)
	}
	if app.Config().GetInt("server.port") != 9090 {
		t.Error("expected loaded config exposed by the app")
	}
}

func TestRunOnlyOnce(t *testing.T) {
	app := newTestApp()
	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err == nil {
		t.Error("expected second Run to fail")
	}
}

func TestHooksOrder(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil))
	app.OnStart(func(context.Context) error { rec.Record("hook:start"); return nil })
	app.OnReady(func(context.Context) error { rec.Record("hook:ready"); return nil })
	app.OnStop(func(context.Context) error { rec.Record("hook:stop"); return nil })
	app.SetDefaultHandler(func(*App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error { rec.Record("task"); return nil }
	})

	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assertEqual(t, "events", rec.Events(), []string{
		"construct:a", "init:a", "hook:start", "hook:ready", "task", "hook:stop", "shutdown:a",
	})
}

func TestHookFailureIsNotTaskFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(app *App[NoCommand], fail Hook)
		stage string
	}{
		{"on start", func(app *App[NoCommand], fail Hook) { app.OnStart(fail) }, "on_start hook 0"},
		{"on ready", func(app *App[NoCommand], fail Hook) {
			app.OnReady(func(context.Context) error { return nil }, fail)
		}, "on_ready hook 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			app := newTestApp()
			app.Register(probeFactory(rec, "a", "", newA, nil))
			tt.setup(app, func(context.Context) error { return fmt.Errorf("warmup failed") })
			app.SetDefaultHandler(func(*App[NoCommand]) (InitStrategy, Task) {
				return All(), func(context.Context) error { rec.Record("task"); return nil }
			})

			err := app.Run(context.Background(), Invocation[NoCommand]{})
			if !errors.IsCode(err, errors.ErrCodeHookFailed) {
				t.Fatalf("expected HOOK_FAILED, got %v", err)
			}
			if errors.IsCode(err, errors.ErrCodeTaskFailed) {
				t.Errorf("hook failure reported as TASK_FAILED: %v", err)
			}
			if !strings.Contains(err.Error(), tt.stage) || !strings.Contains(err.Error(), "warmup failed") {
				t.Errorf("expected %q and the cause in %q", tt.stage, err.Error())
			}
			assertEqual(t, "events", rec.Events(), []string{"construct:a", "init:a", "shutdown:a"})
		})
	}
}

func TestTaskFailureStillShutsDown(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.SetWaitSignal(true)
	app.Register(probeFactory(rec, "a", "", newA, nil))
	app.SetDefaultHandler(func(*App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error { return fmt.Errorf("bad input") }
	})

	err := app.Run(context.Background(), Invocation[NoCommand]{})
	if !errors.IsCode(err, errors.ErrCodeTaskFailed) {
		t.Fatalf("expected TASK_FAILED, got %v", err)
	}
	assertEqual(t, "shutdowns", rec.Names("shutdown:"), []string{"a"})
}

func TestStoreEmptyBeforeRun(t *testing.T) {
	app := newTestApp()
	app.Register(component.Instance("", &sectionReader{}))
	if app.Store().Len() != 0 {
		t.Error("expected empty store before run")
	}
	if _, err := component.MustLookup[*sectionReader](app, ""); !errors.IsCode(err, errors.ErrCodeComponentNotFound) {
		t.Errorf("expected COMPONENT_NOT_FOUND before run, got %v", err)
	}
	if !app.IsRegistered(component.KeyOf[*sectionReader]("")) {
		t.Error("expected factory registered")
	}
	if app.Phase() != PhaseIdle {
		t.Errorf("expected idle, got %s", app.Phase())
	}
}

func TestConcurrentLookupsWhileRunning(t *testing.T) {
	rec := testutil.NewRecorder()
	app := newTestApp()
	app.Register(probeFactory(rec, "a", "", newA, nil))
	app.SetDefaultHandler(func(a *App[NoCommand]) (InitStrategy, Task) {
		return All(), func(context.Context) error {
			var wg sync.WaitGroup
			errs := make(chan error, 32)
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := component.MustLookup[*probeA](a, ""); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)
			return <-errs
		}
	})

	if err := app.Run(context.Background(), Invocation[NoCommand]{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}
