package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/server/endpoint"
	"github.com/kbukum/appkit/shutdown"
)

// Service is a group of routes mounted under Path.
type Service struct {
	Path     string
	Register func(*gin.RouterGroup)
}

type mount struct {
	pattern string
	handler http.Handler
}

// Option configures a Component.
type Option func(*Component)

// WithSection reads the configuration from section instead of `server`.
func WithSection(section string) Option {
	return func(c *Component) { c.section = section }
}

// WithLogger overrides the logger. The default is the global logger
// tagged with the component name.
func WithLogger(l *logger.Logger) Option {
	return func(c *Component) { c.log = l }
}

// WithServiceName sets the name reported by /health and /info.
func WithServiceName(name string) Option {
	return func(c *Component) { c.name = name }
}

// WithHandler mounts a plain http.Handler on the root mux next to Gin.
func WithHandler(pattern string, h http.Handler) Option {
	return func(c *Component) { c.mounts = append(c.mounts, mount{pattern, h}) }
}

// WithHealthChecker replaces the component health source of /health and
// /ready.
func WithHealthChecker(hc endpoint.HealthChecker) Option {
	return func(c *Component) { c.health = hc }
}

// Component serves HTTP for the lifetime of the application. Init binds the
// port and starts a serve goroutine. Shutdown stops it gracefully and waits
// for the goroutine to confirm.
type Component struct {
	section  string
	name     string
	log      *logger.Logger
	services []Service
	mounts   []mount
	health   endpoint.HealthChecker

	cfg  Config
	srv  *Server
	stop *shutdown.Token
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.HealthChecker = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Factory returns a factory for a server mounting services. Unless
// WithHealthChecker is given, /health reports every component built so far
// by the same startup pass.
func Factory(label string, services []Service, opts ...Option) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (*Component, error) {
		return Build(bc, services, opts...)
	})
}

// Build constructs the component inside a factory. Wrapping factories use
// it after looking up the components their services depend on.
func Build(bc *component.BuildContext, services []Service, opts ...Option) (*Component, error) {
	c, err := newComponent(bc.Config(), services, opts)
	if err != nil {
		return nil, err
	}
	if c.health == nil {
		c.health = endpoint.FromHandles(bc.Handles, c)
	}
	c.routes()
	return c, nil
}

// NewComponent reads the section and registers services and probes.
func NewComponent(cfg *config.Config, services []Service, opts ...Option) (*Component, error) {
	c, err := newComponent(cfg, services, opts)
	if err != nil {
		return nil, err
	}
	c.routes()
	return c, nil
}

func newComponent(cfg *config.Config, services []Service, opts []Option) (*Component, error) {
	c := &Component{section: Section, name: "app", services: services}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("http")
	}

	sc := Config{Port: DefaultPort}
	if err := cfg.Section(c.section, &sc); err != nil {
		return nil, err
	}
	sc.ApplyDefaults()
	if err := sc.Validate(c.section); err != nil {
		return nil, err
	}
	for _, svc := range services {
		if svc.Register == nil {
			return nil, errors.InvalidConfig(c.section, fmt.Errorf("service %q has no Register func", svc.Path))
		}
	}
	c.cfg = sc
	c.srv = New(sc, c.log)
	return c, nil
}

func (c *Component) routes() {
	engine := c.srv.Engine()
	engine.GET("/health", endpoint.Health(c.name, c.health))
	engine.GET("/ready", endpoint.Readiness(c.name, c.health))
	engine.GET("/alive", endpoint.Liveness(c.name))
	engine.GET("/info", endpoint.Info(c.name))
	for _, svc := range c.services {
		svc.Register(engine.Group(svc.Path))
	}
	for _, m := range c.mounts {
		c.srv.Handle(m.pattern, m.handler)
	}
}

// Init binds the listener and starts serving in the background.
func (c *Component) Init(_ context.Context, _ *config.Config, _ string) error {
	if err := c.srv.Listen(); err != nil {
		return errors.Unavailable("http "+c.cfg.Addr(), err)
	}
	c.logRoutes()

	c.stop = shutdown.New()
	go c.serve(c.stop)

	c.log.Info("HTTP server started", map[string]interface{}{"addr": c.srv.Addr()})
	return nil
}

// serve runs until the token is requested or the listener fails, then
// acknowledges.
func (c *Component) serve(tok *shutdown.Token) {
	defer tok.Acknowledge()

	served := make(chan error, 1)
	go func() { served <- c.srv.Serve() }()

	select {
	case <-tok.Requested():
		ctx, cancel := shutdownContext(seconds(c.cfg.ShutdownTimeout))
		defer cancel()
		if err := c.srv.Shutdown(ctx); err != nil {
			c.log.Warn("Graceful shutdown incomplete, closing connections", logger.ErrorFields("shutdown", err))
			_ = c.srv.Close()
		}
		<-served
		c.log.Info("HTTP server stopped", map[string]interface{}{"addr": c.srv.Addr()})
	case err := <-served:
		if err != nil {
			c.log.Error("HTTP server failed", logger.ErrorFields("serve", err))
		}
	}
}

// Shutdown requests the serve goroutine to stop and waits for it. When ctx
// ends first every connection is closed.
func (c *Component) Shutdown(ctx context.Context) error {
	if c.stop == nil {
		return nil
	}
	if err := c.stop.RequestAndWait(ctx); err != nil {
		_ = c.srv.Close()
		return err
	}
	return nil
}

func (c *Component) logRoutes() {
	var b strings.Builder
	for _, r := range c.Routes() {
		fmt.Fprintf(&b, "\n  %-7s %-30s %s", r.Method, r.Path, r.Handler)
	}
	c.log.Info("Routes registered"+b.String(), map[string]interface{}{"count": len(c.srv.Engine().Routes())})
}

// Server returns the underlying server.
func (c *Component) Server() *Server { return c.srv }

// Config returns the effective configuration.
func (c *Component) Config() Config { return c.cfg }

// Addr returns the bound address once Init has run.
func (c *Component) Addr() string { return c.srv.Addr() }

// Port returns the bound port once Init has run.
func (c *Component) Port() int { return c.srv.Port() }

// Health reports whether the serve goroutine is running.
func (c *Component) Health(context.Context) component.Health {
	if c.stop == nil || c.stop.IsDone() {
		return component.Health{Name: "http", Status: component.StatusUnhealthy, Message: "not serving"}
	}
	return component.Health{Name: "http", Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: c.srv.Addr() + " h2c",
		Port:    c.srv.Port(),
	}
}

// Routes returns the Gin routes for the startup summary.
func (c *Component) Routes() []component.Route {
	return routeTable(c.srv.Engine().Routes())
}
