package main

import (
	"context"
	"embed"
	"fmt"
	"io"

	"github.com/kbukum/appkit/bootstrap"
	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/database"
	"github.com/kbukum/appkit/database/migration"
	"github.com/kbukum/appkit/kafka"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
	"github.com/kbukum/appkit/redis"
	"github.com/kbukum/appkit/server"
)

type command string

const (
	cmdServe     command = "serve"
	cmdPrintPort command = "print-port"
	cmdMigrate   command = "migrate"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	logKey       = component.KeyOf[*logger.Component]("")
	telemetryKey = component.KeyOf[*observability.Component]("")
	dbKey        = component.KeyOf[*database.Component]("")
	redisKey     = component.KeyOf[*redis.Component]("")
	kafkaKey     = component.KeyOf[*kafka.Producer]("")
	httpKey      = component.KeyOf[*server.Component]("")
)

// newApp registers every component in dependency order: the HTTP factory
// looks up the database and the optional cache and producer.
func newApp(out io.Writer, envFile string, opts ...bootstrap.Option) *bootstrap.App[command] {
	base := []bootstrap.Option{
		bootstrap.WithName("appkit-demo"),
		bootstrap.WithOutput(out),
		bootstrap.WithConfigOptions(config.WithEnvPrefix("APPKIT"), config.WithEnvFile(envFile)),
	}
	app := bootstrap.New[command](append(base, opts...)...)

	app.Register(logger.Factory())
	app.Register(observability.Factory(""))
	app.Register(database.Factory("", database.WithMigrations(migrationsFS, migrationsDir)))
	app.Register(redis.Factory(""))
	app.Register(kafka.Factory(""))
	app.Register(httpFactory())

	app.RegisterCommandHandler(commandHandler(out))
	app.SetDefaultHandler(func(a *bootstrap.App[command]) (bootstrap.InitStrategy, bootstrap.Task) {
		a.SetWaitSignal(false)
		return bootstrap.Only(logKey), func(context.Context) error {
			logger.Info("No command given, run with --help to list commands")
			return nil
		}
	})
	return app
}

func commandHandler(out io.Writer) bootstrap.CommandHandler[command] {
	return func(cmd command, app *bootstrap.App[command]) (bootstrap.InitStrategy, bootstrap.Task) {
		switch cmd {
		case cmdServe:
			return bootstrap.Deny(absentOptional(app.Config())...), func(context.Context) error {
				srv, err := component.MustLookup[*server.Component](app.Store(), "")
				if err != nil {
					return err
				}
				logger.Info("Serving notes API", map[string]interface{}{"addr": srv.Addr()})
				return nil
			}

		case cmdPrintPort:
			app.SetWaitSignal(false)
			return bootstrap.Deny(absentOptional(app.Config())...), func(context.Context) error {
				srv, err := component.MustLookup[*server.Component](app.Store(), "")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "port: %d\n", srv.Port())
				return err
			}

		case cmdMigrate:
			app.SetWaitSignal(false)
			return bootstrap.Only(logKey, dbKey), func(context.Context) error {
				db, err := component.MustLookup[*database.Component](app.Store(), "")
				if err != nil {
					return err
				}
				v, dirty, err := migration.Version(db.Default().GormDB, migrationsFS, migrationsDir, migration.SQLite)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "schema version: %d dirty: %t\n", v, dirty)
				return err
			}
		}

		app.SetWaitSignal(false)
		return bootstrap.None(), func(context.Context) error {
			return fmt.Errorf("unknown command %q", cmd)
		}
	}
}

// absentOptional returns the keys of components whose section is missing,
// so commands start without them.
func absentOptional(cfg *config.Config) []component.Key {
	var deny []component.Key
	if !cfg.IsSet(redis.Section) {
		deny = append(deny, redisKey)
	}
	if !cfg.IsSet(kafka.Section) {
		deny = append(deny, kafkaKey)
	}
	return deny
}

// httpFactory builds the server after resolving its dependencies from the
// components constructed before it.
func httpFactory() component.Factory {
	return component.NewFactory("", func(bc *component.BuildContext, _ string) (*server.Component, error) {
		db, err := component.MustLookup[*database.Component](bc, "")
		if err != nil {
			return nil, err
		}

		api := &notesAPI{db: db.Default(), log: logger.WithComponent("notes")}
		if rc, ok := component.Lookup[*redis.Component](bc, ""); ok {
			api.cache = redis.NewTypedStore[Note](rc.Client(), "notes")
		}
		if p, ok := component.Lookup[*kafka.Producer](bc, ""); ok {
			api.events = p
		}
		if tc, ok := component.Lookup[*observability.Component](bc, ""); ok {
			api.metrics = tc.Metrics()
		}

		return server.Build(bc, []server.Service{{Path: "/api/notes", Register: api.routes}},
			server.WithServiceName("appkit-demo"))
	})
}
