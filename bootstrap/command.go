package bootstrap

import "context"

// Task is the work run once components are initialized. A nil Task does
// nothing.
type Task func(ctx context.Context) error

// NoCommand is the command type of an App that takes no subcommands.
type NoCommand struct{}

// CommandHandler maps a parsed command to a strategy and a task.
type CommandHandler[Cmd any] func(cmd Cmd, app *App[Cmd]) (InitStrategy, Task)

// DefaultHandler picks the strategy and task when no command is given.
type DefaultHandler[Cmd any] func(app *App[Cmd]) (InitStrategy, Task)

// Invocation describes one run: where configuration lives and what the
// command line asked for. Argument parsing belongs to the caller.
type Invocation[Cmd any] struct {
	// ConfigPath is an optional configuration file. When set it must exist.
	ConfigPath string
	// Command is the parsed subcommand, nil when none was given.
	Command *Cmd
	// PrintVersion selects the version path when no command is given.
	PrintVersion bool
}
