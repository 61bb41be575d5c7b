package gradle

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// Runner executes a wrapper invocation and reports the child's exit status
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// ShellRunner runs invocations through the mvdan.cc/sh interpreter. The child inherits the
// configured standard streams.
type ShellRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is passed to the child; os.Environ() is used if nil
	Env []string
}

// NewShellRunner returns a runner attached to the process' own standard streams
func NewShellRunner() *ShellRunner {
	return &ShellRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

// Run spawns the wrapper and waits for it. A non-zero exit status is returned as the code, not as
// an error. Errors are reserved for failures of the interpreter itself (including cancellation).
func (r *ShellRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	cmd, err := inv.CallExpr()
	if err != nil {
		return 0, err
	}

	env := r.Env
	if env == nil {
		env = os.Environ()
	}

	dir := inv.Dir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return 0, eris.Wrap(err, "failed to retrieve the current working directory")
		}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.ExecHandler(defaultExecHandler),
		interp.StdIO(r.Stdin, r.Stdout, r.Stderr),
	)
	if err != nil {
		return 0, eris.Wrap(err, "failed to initialize runner")
	}

	err = runner.Run(ctx, cmd)
	if err == nil {
		return 0, nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		if ctx.Err() != nil {
			return int(status), ctx.Err()
		}
		return int(status), nil
	}

	return 0, eris.Wrapf(err, "failed to run %s", inv.Task)
}
