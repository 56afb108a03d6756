package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/database/migration"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
)

// DialectorFunc builds the GORM dialector for a DSN.
type DialectorFunc func(dsn string) gorm.Dialector

// Option configures a Component.
type Option func(*options)

type options struct {
	dialector  DialectorFunc
	driver     migration.DriverFunc
	migrations fs.FS
	dir        string
	models     []interface{}
	log        *logger.Logger
}

// WithDialector selects the GORM driver. The default is SQLite.
func WithDialector(fn DialectorFunc) Option {
	return func(o *options) { o.dialector = fn }
}

// WithMigrations applies the SQL files in dir of fsys to the primary
// connection at Init, using driver (SQLite when nil).
func WithMigrations(fsys fs.FS, dir string, driver ...migration.DriverFunc) Option {
	return func(o *options) {
		o.migrations = fsys
		o.dir = dir
		if len(driver) > 0 && driver[0] != nil {
			o.driver = driver[0]
		}
	}
}

// WithModels registers models for GORM auto-migration when auto_migrate is set.
func WithModels(models ...interface{}) Option {
	return func(o *options) { o.models = append(o.models, models...) }
}

// WithLogger overrides the logger. The default is the global logger
// tagged with the component name.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Component owns the primary pool and any labelled pools.
type Component struct {
	opts        options
	log         *logger.Logger
	primary     *DB
	connections map[string]*DB
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.HealthChecker = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
)

// Factory returns a factory that opens every configured connection while
// the component is built.
func Factory(label string, opts ...Option) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (*Component, error) {
		return New(bc.Context(), bc.Config(), opts...)
	})
}

// New reads the `db` section and the optional `dbs` map and opens a pool
// for each. Pools opened before a failure are closed again.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Component, error) {
	o := options{dialector: sqlite.Open, driver: migration.SQLite}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = logger.WithComponent("database")
	}
	c := &Component{opts: o, log: log, connections: make(map[string]*DB)}

	var primary Config
	if err := cfg.Section(Section, &primary); err != nil {
		return nil, err
	}
	db, err := c.open(ctx, Section, primary)
	if err != nil {
		return nil, err
	}
	c.primary = db

	var labelled map[string]Config
	if _, err := cfg.SectionOrDefault(MultiSection, &labelled); err != nil {
		_ = c.closeAll()
		return nil, err
	}
	for _, label := range sortedLabels(labelled) {
		db, err := c.open(ctx, MultiSection+"."+label, labelled[label])
		if err != nil {
			_ = c.closeAll()
			return nil, err
		}
		c.connections[label] = db
	}
	return c, nil
}

func (c *Component) open(ctx context.Context, section string, cfg Config) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(section); err != nil {
		return nil, err
	}
	db, err := Open(ctx, c.opts.dialector(cfg.DSN), cfg, c.log.WithFields(map[string]interface{}{"section": section}))
	if err != nil {
		return nil, errors.Unavailable("database "+section, err)
	}
	return db, nil
}

// Init applies migrations to the primary pool and pings every pool. On
// failure all pools are closed, since a component whose Init failed is
// never shut down.
func (c *Component) Init(ctx context.Context, _ *config.Config, _ string) error {
	if err := c.init(ctx); err != nil {
		_ = c.closeAll()
		return err
	}
	return nil
}

func (c *Component) init(ctx context.Context) error {
	if c.opts.migrations != nil {
		c.log.Info("Applying migrations", map[string]interface{}{"dir": c.opts.dir})
		if err := migration.Up(c.primary.GormDB, c.opts.migrations, c.opts.dir, c.opts.driver); err != nil {
			return err
		}
	}
	if c.primary.cfg.AutoMigrate && len(c.opts.models) > 0 {
		if err := c.primary.AutoMigrate(c.opts.models...); err != nil {
			return err
		}
	}
	for _, label := range c.labels() {
		db, _ := c.Connection(label)
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping %s: %w", label, err)
		}
	}
	return nil
}

// Shutdown closes every pool, reporting all close failures.
func (c *Component) Shutdown(context.Context) error {
	return c.closeAll()
}

func (c *Component) closeAll() error {
	var errs []error
	if c.primary != nil {
		if err := c.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, label := range sortedLabels(c.connections) {
		if err := c.connections[label].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", label, err))
		}
	}
	return errors.Join(errs...)
}

// Default returns the primary pool from the `db` section.
func (c *Component) Default() *DB { return c.primary }

// Connection returns the pool for label. The empty label and the default
// label name the primary pool.
func (c *Component) Connection(label string) (*DB, bool) {
	if label == "" || label == component.DefaultLabel {
		return c.primary, c.primary != nil
	}
	db, ok := c.connections[label]
	return db, ok
}

// labels returns the default label followed by the sorted labelled pools.
func (c *Component) labels() []string {
	return append([]string{component.DefaultLabel}, sortedLabels(c.connections)...)
}

// Health pings every pool.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: "database", Status: component.StatusHealthy}
	var failed []string
	for _, label := range c.labels() {
		db, _ := c.Connection(label)
		if status := db.CheckHealth(ctx); !status.Connected {
			failed = append(failed, label+": "+status.Error)
		}
	}
	if len(failed) > 0 {
		h.Status = component.StatusUnhealthy
		h.Message = strings.Join(failed, "; ")
	}
	return h
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	cfg := c.primary.cfg
	details := fmt.Sprintf("%s pool=%d/%d", c.primary.GormDB.Dialector.Name(), cfg.MaxOpenConns, cfg.MaxIdleConns)
	if n := len(c.connections); n > 0 {
		details += fmt.Sprintf(" labelled=%s", strings.Join(sortedLabels(c.connections), ","))
	}
	if c.opts.migrations != nil {
		details += " migrations=" + c.opts.dir
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}

func sortedLabels[V any](m map[string]V) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
