package logger

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
)

// Section is the configuration section read by Component.
const Section = "log"

// Component configures the global logger from the `log` section. Register
// it first so that every later component logs with the configured level
// and format.
type Component struct {
	component.Base
	writer io.Writer
	cfg    Config
}

// ComponentOption configures a Component.
type ComponentOption func(*Component)

// WithWriter sends log output to w instead of the configured output.
func WithWriter(w io.Writer) ComponentOption {
	return func(c *Component) { c.writer = w }
}

// NewComponent creates the log component.
func NewComponent(opts ...ComponentOption) *Component {
	c := &Component{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory returns a factory for the log component under the default label.
func Factory(opts ...ComponentOption) component.Factory {
	return component.NewFactory("", func(*component.BuildContext, string) (*Component, error) {
		return NewComponent(opts...), nil
	})
}

// Init reads the `log` section, falling back to defaults when it is absent,
// and installs the resulting global logger.
func (c *Component) Init(_ context.Context, cfg *config.Config, _ string) error {
	var lc Config
	if _, err := cfg.SectionOrDefault(Section, &lc); err != nil {
		return err
	}
	lc.ApplyDefaults()
	if err := lc.Validate(); err != nil {
		return errors.InvalidConfig(Section, err)
	}
	c.cfg = lc

	if c.writer != nil {
		install(NewWithWriter(&lc, "default", c.writer))
	} else {
		install(New(&lc, "default"))
	}
	return nil
}

// Config returns the configuration applied at Init.
func (c *Component) Config() Config { return c.cfg }

// Describe returns a summary for the bootstrap display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Logger",
		Type:    "log",
		Details: fmt.Sprintf("level=%s format=%s output=%s", c.cfg.Level, c.cfg.Format, c.cfg.Output),
	}
}
