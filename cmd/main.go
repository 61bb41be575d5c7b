package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CopilotCreations/negative-space-puzzler/pkg"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/commands"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/config"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/dispatch"
	"github.com/CopilotCreations/negative-space-puzzler/pkg/gradle"
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	runner gradle.Runner
	logger zerolog.Logger
	// color is false if --no-color was passed; terminals are checked separately
	color    bool
	args     []string
	exitCode int
}

// flagError is returned by the root command if the flags in front of the command can't be parsed
type flagError struct {
	err error
}

func (e *flagError) Error() string {
	return e.err.Error()
}

func newApp(stdout, stderr io.Writer, runner gradle.Runner) *app {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		runner: runner,
		color:  true,
	}
	a.logger = a.consoleLogger()
	return a
}

func (a *app) consoleLogger() zerolog.Logger {
	writer := NewConsoleWriter(a.stderr, a.color && pkg.IsTerminal(a.stderr))
	return zerolog.New(writer).Level(zerolog.WarnLevel)
}

// plainDispatcher serves the paths which run before the configuration is loaded
func (a *app) plainDispatcher() *dispatch.Dispatcher {
	d := dispatch.New(a.runner)
	d.Out = a.stdout
	d.Color = a.color && pkg.IsTerminal(a.stdout)
	return d
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devrun [flags] <command> [-- gradle args...]",
		Short: "Development commands for Negative Space Puzzler",
		Long: `Runs common Gradle tasks (build, test, coverage, lint, apk, clean, install) through the
project's Gradle wrapper and exits with the wrapper's exit code.

Run "devrun help" for the list of available commands. Arguments after "--" are passed on to
Gradle, i.e. "devrun build -- --info".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}

	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolP("dry", "n", false, "dry run; only print the command, don't execute anything")
	rootCmd.Flags().StringP("config", "c", "", "config file (default: "+config.DefaultFile+")")
	rootCmd.Flags().StringP("dir", "C", "", "directory containing the Gradle wrapper")
	rootCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &flagError{err: err}
	})
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		// -h and --help show the same text as the help command
		_, _ = a.plainDispatcher().Dispatch(ctx, nil)
	})
	return rootCmd
}

// leadingFlags splits the flags in front of the command token. It returns the recognized flag
// tokens and the first token which isn't a known flag of fs ("" if there is none).
func leadingFlags(fs *pflag.FlagSet, args []string) ([]string, string) {
	known := []string{}
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		if strings.HasPrefix(arg, "--") {
			name := strings.SplitN(arg[2:], "=", 2)[0]
			flag := fs.Lookup(name)
			if flag == nil {
				return known, arg
			}

			known = append(known, arg)
			if !strings.Contains(arg, "=") && flag.NoOptDefVal == "" {
				// the value is the next token
				idx++
			}
			continue
		}

		shorthands := arg[1:]
		for pos, char := range shorthands {
			if char >= utf8.RuneSelf {
				return known, arg
			}

			flag := fs.ShorthandLookup(string(char))
			if flag == nil {
				return known, arg
			}

			if flag.NoOptDefVal == "" {
				// the rest of the token or the next one is the value
				if pos == len(shorthands)-1 {
					idx++
				}
				break
			}
		}
		known = append(known, arg)
	}

	return known, ""
}

func noColorRequested(known []string) bool {
	for _, arg := range known {
		if arg == "--no-color" || arg == "--no-color=true" {
			return true
		}
	}

	return false
}

// handleFlagError treats an unknown flag like an unknown command
func (a *app) handleFlagError(ctx context.Context, fs *pflag.FlagSet, err *flagError) int {
	_, token := leadingFlags(fs, a.args)
	d := a.plainDispatcher()
	if token != "" {
		code, _ := d.Dispatch(ctx, []string{token})
		return code
	}

	// a known flag with a missing or invalid value
	a.logger.Error().Err(err.err).Msg("invalid flags")
	_, _ = d.Dispatch(ctx, nil)
	return 1
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry")
	if err != nil {
		return err
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}

	files := []string{}
	if configPath != "" {
		files = append(files, configPath)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}

	if dir != "" {
		cfg.Dir = dir
	}
	if noColor {
		cfg.Color = false
	}

	var writer io.Writer = NewConsoleWriter(a.stderr, cfg.Color && pkg.IsTerminal(a.stderr))
	if cfg.Log.JSON {
		writer = a.stderr
	}
	a.logger = zerolog.New(writer).Level(cfg.LogLevel()).With().
		Timestamp().
		Str("run", nanoid.New()).
		Logger()

	ctx := dispatch.WithLogger(cmd.Context(), &a.logger)

	table := commands.Default()
	if cfg.Commands != "" {
		extra, err := commands.LoadExtra(cfg.Commands)
		if err != nil {
			return err
		}

		table, err = table.With(extra...)
		if err != nil {
			return eris.Wrapf(err, "invalid commands in %s", cfg.Commands)
		}
	}

	wrapper := cfg.Wrapper
	if wrapper == "" {
		wrapper = gradle.DefaultWrapper()
	}

	if cfg.Search {
		root, err := pkg.FindProjectRoot(cfg.Dir, filepath.Base(wrapper))
		if err != nil {
			return err
		}

		a.logger.Debug().Str("path", root).Msg("found project root")
		cfg.Dir = root
	}

	d := dispatch.New(a.runner)
	d.Table = table
	d.Out = a.stdout
	d.Wrapper = wrapper
	d.Dir = cfg.Dir
	d.DryRun = dryRun
	d.Color = cfg.Color && pkg.IsTerminal(a.stdout)

	code, err := d.Dispatch(ctx, args)
	if err != nil {
		return err
	}

	a.exitCode = code
	return nil
}

// execute runs the CLI with args and returns the process exit code
func (a *app) execute(ctx context.Context, args []string) int {
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	a.args = args
	known, _ := leadingFlags(rootCmd.Flags(), args)
	if noColorRequested(known) {
		a.color = false
		a.logger = a.consoleLogger()
	}

	err := rootCmd.ExecuteContext(ctx)
	if fe, ok := err.(*flagError); ok {
		return a.handleFlagError(ctx, rootCmd.Flags(), fe)
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("devrun failed")
		return 1
	}

	return a.exitCode
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newApp(os.Stdout, os.Stderr, gradle.NewShellRunner()).execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
