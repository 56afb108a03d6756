package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/appkit/bootstrap"
)

type rootFlags struct {
	configPath string
	envFile    string
	version    bool
}

func newRootCmd(ctx context.Context, out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "appkit-demo",
		Short: "Notes service built from appkit components",
		Long: `appkit-demo starts a notes HTTP API backed by SQLite, with optional
Redis caching, Kafka events and OpenTelemetry export.

Without a subcommand only the logger starts.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(ctx, cmd.OutOrStdout(), flags, nil)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "path to a .env file loaded before APPKIT_* overrides")
	root.Flags().BoolVarP(&flags.version, "version", "v", false, "print version information and exit")

	for _, c := range []struct {
		cmd   command
		short string
	}{
		{cmdServe, "Run the HTTP API until interrupted"},
		{cmdPrintPort, "Start the HTTP server, print its port and exit"},
		{cmdMigrate, "Apply database migrations and print the schema version"},
	} {
		c := c
		root.AddCommand(&cobra.Command{
			Use:   string(c.cmd),
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return execute(ctx, cmd.OutOrStdout(), flags, &c.cmd)
			},
		})
	}
	return root
}

// invocation maps parsed flags onto the orchestrator's input.
func invocation(flags *rootFlags, cmd *command) bootstrap.Invocation[command] {
	return bootstrap.Invocation[command]{
		ConfigPath:   flags.configPath,
		Command:      cmd,
		PrintVersion: flags.version,
	}
}

func execute(ctx context.Context, out io.Writer, flags *rootFlags, cmd *command) error {
	app := newApp(out, flags.envFile)
	return app.Run(ctx, invocation(flags, cmd))
}
