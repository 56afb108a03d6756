// Package bootstrap is the application orchestrator. It owns the factory
// registry, loads configuration, resolves an initialization strategy from
// the invoked command, constructs and initializes components in
// registration order, runs the caller's task, waits for a shutdown signal
// and shuts components down in reverse order.
//
// # Quick Start
//
//	app := bootstrap.NewDefault(bootstrap.WithName("orders"))
//	app.Register(logger.Factory()).
//		Register(database.Factory("")).
//		Register(server.Factory("", ordersService))
//
//	if err := app.Run(ctx, bootstrap.Invocation[bootstrap.NoCommand]{
//		ConfigPath: "config.yml",
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// Registration order is dependency order: a factory may look up, through
// its BuildContext, any component registered before it and selected by the
// strategy.
//
// # Commands
//
// An App parameterized with a command type dispatches a parsed command to
// its command handler, which picks the strategy and the task:
//
//	app.RegisterCommandHandler(func(cmd Cmd, a *bootstrap.App[Cmd]) (bootstrap.InitStrategy, bootstrap.Task) {
//		if cmd.Migrate {
//			a.SetWaitSignal(false)
//			return bootstrap.Only(component.KeyOf[*database.Component]("")), nil
//		}
//		return bootstrap.All(), nil
//	})
package bootstrap
