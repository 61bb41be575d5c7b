package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/CopilotCreations/negative-space-puzzler/pkg"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/commands"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/gradle"
)

// Dispatcher resolves a command token and runs the matching wrapper task
type Dispatcher struct {
	Table  *commands.Table
	Runner gradle.Runner
	// Out receives the help text and the "Running:" line
	Out io.Writer
	// Program is shown in the usage line of the help text
	Program string
	// Wrapper overrides gradle.DefaultWrapper() if set
	Wrapper string
	// Dir is the working directory for the wrapper
	Dir    string
	DryRun bool
	Color  bool
}

// New returns a dispatcher for the built-in table writing to stdout. Color is only enabled if
// stdout is a terminal.
func New(runner gradle.Runner) *Dispatcher {
	return &Dispatcher{
		Table:   commands.Default(),
		Runner:  runner,
		Out:     os.Stdout,
		Program: "devrun",
		Color:   pkg.IsTerminal(os.Stdout),
	}
}

func (d *Dispatcher) colorize() *colorstring.Colorize {
	return &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !d.Color,
		Reset:   true,
	}
}

func (d *Dispatcher) printHelp() {
	io.WriteString(d.Out, commands.Help(d.Table, d.Program)+"\n")
}

// ArgSeparator marks the start of arguments passed on to Gradle
const ArgSeparator = "--"

// gradleArgs returns the tokens following ArgSeparator. Anything else after the command is ignored.
func gradleArgs(ctx context.Context, rest []string) []string {
	if len(rest) > 0 && rest[0] == ArgSeparator {
		return rest[1:]
	}

	if len(rest) > 0 {
		log(ctx).Warn().Strs("args", rest).Msgf("ignoring extra arguments, pass them after %s to forward them to Gradle", ArgSeparator)
	}
	return nil
}

// Invocation builds the wrapper call for entry with the user's extra arguments appended
func (d *Dispatcher) Invocation(entry commands.Entry, args []string) gradle.Invocation {
	forwarded := make([]string, 0, len(entry.Args)+len(args))
	forwarded = append(forwarded, entry.Args...)
	forwarded = append(forwarded, args...)

	inv := gradle.NewInvocation(entry.Task, forwarded...)
	if d.Wrapper != "" {
		inv.Wrapper = d.Wrapper
	}
	inv.Dir = d.Dir
	return inv
}

// Dispatch handles args (without the program name) and returns the exit code for the process.
// The error is only set if the wrapper could not be run at all.
func (d *Dispatcher) Dispatch(ctx context.Context, args []string) (int, error) {
	if len(args) < 1 {
		d.printHelp()
		return 0, nil
	}

	color := d.colorize()
	entry, found := d.Table.Lookup(args[0])
	if !found {
		log(ctx).Debug().Str("command", args[0]).Msg("unknown command")
		fmt.Fprintf(d.Out, "%s %s\n", color.Color("[red]Unknown command:"), strings.ToLower(args[0]))
		d.printHelp()
		return 1, nil
	}

	switch entry.Kind {
	case commands.ShowHelp:
		d.printHelp()
		return 0, nil
	case commands.RunTask:
		inv := d.Invocation(entry, gradleArgs(ctx, args[1:]))

		fmt.Fprintf(d.Out, "%s %s\n", color.Color("[bold]Running:"), inv.String())
		log(ctx).Debug().
			Str("command", entry.Name).
			Str("task", entry.Task).
			Strs("argv", inv.Argv()).
			Bool("dry", d.DryRun).
			Msg("dispatching")

		if d.DryRun {
			return 0, nil
		}

		code, err := d.Runner.Run(ctx, inv)
		if err != nil {
			return 1, err
		}

		log(ctx).Debug().Str("command", entry.Name).Int("code", code).Msg("wrapper finished")
		return code, nil
	}

	return 1, nil
}
