package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
)

// Option configures a Component.
type Option func(*Component)

// WithSection reads the configuration from section instead of `redis`.
func WithSection(section string) Option {
	return func(c *Component) { c.section = section }
}

// WithLogger overrides the logger. The default is the global logger
// tagged with the component name.
func WithLogger(l *logger.Logger) Option {
	return func(c *Component) { c.log = l }
}

// Component owns a Client for the lifetime of the application.
type Component struct {
	section string
	client  *Client
	log     *logger.Logger
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.HealthChecker = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
)

// Factory returns a factory that builds the client from configuration.
func Factory(label string, opts ...Option) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (*Component, error) {
		return NewComponent(bc.Config(), opts...)
	})
}

// NewComponent reads and validates the section and creates the client.
func NewComponent(cfg *config.Config, opts ...Option) (*Component, error) {
	c := &Component{section: Section}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("redis")
	}

	var rc Config
	if err := cfg.Section(c.section, &rc); err != nil {
		return nil, err
	}
	rc.ApplyDefaults()
	if err := rc.Validate(c.section); err != nil {
		return nil, err
	}
	client, err := New(rc, c.log)
	if err != nil {
		return nil, errors.InvalidConfig(c.section, err)
	}
	c.client = client
	return c, nil
}

// Client returns the managed client.
func (c *Component) Client() *Client { return c.client }

// Init pings the server. The client is closed when the ping fails.
func (c *Component) Init(ctx context.Context, _ *config.Config, _ string) error {
	if err := c.client.Ping(ctx); err != nil {
		_ = c.client.Close()
		return errors.Unavailable("redis "+c.client.cfg.Addr, err)
	}
	c.log.Info("Redis connection verified", map[string]interface{}{"addr": c.client.cfg.Addr})
	return nil
}

// Shutdown closes the client.
func (c *Component) Shutdown(context.Context) error {
	return c.client.Close()
}

// Health returns the current health status of the Redis connection.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client.Closed() {
		return component.Health{Name: "redis", Status: component.StatusUnhealthy, Message: "client closed"}
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    "redis",
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: "redis", Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	cfg := c.client.cfg
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d", cfg.Addr, cfg.DB, cfg.PoolSize),
	}
}
