package gradle

import (
	"runtime"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/syntax"
)

// NoDaemonFlag is passed to every wrapper call so that no Gradle daemon outlives the invocation.
const NoDaemonFlag = "--no-daemon"

// WrapperName returns the path of the Gradle wrapper script for the given GOOS, relative to the
// working directory.
func WrapperName(goos string) string {
	if goos == "windows" {
		return "./gradlew.bat"
	}

	return "./gradlew"
}

// DefaultWrapper is the wrapper for the OS devrun was built for.
func DefaultWrapper() string {
	return WrapperName(runtime.GOOS)
}

// Invocation describes a single call to the Gradle wrapper
type Invocation struct {
	// Wrapper is the wrapper script; DefaultWrapper() is used if empty
	Wrapper string
	Task    string
	// Flags are appended right after the task, i.e. --no-daemon
	Flags []string
	// Args are passed after Flags unmodified
	Args []string
	// Dir is the working directory for the wrapper, "" means the current one
	Dir string
}

// NewInvocation builds an invocation of task with the fixed --no-daemon flag
func NewInvocation(task string, args ...string) Invocation {
	return Invocation{
		Wrapper: DefaultWrapper(),
		Task:    task,
		Flags:   []string{NoDaemonFlag},
		Args:    args,
	}
}

// Argv returns the full argument vector including the wrapper itself
func (i Invocation) Argv() []string {
	wrapper := i.Wrapper
	if wrapper == "" {
		wrapper = DefaultWrapper()
	}

	argv := make([]string, 0, 2+len(i.Flags)+len(i.Args))
	argv = append(argv, wrapper, i.Task)
	argv = append(argv, i.Flags...)
	argv = append(argv, i.Args...)
	return argv
}

// CallExpr converts the invocation into a shell call which can be printed or run by the interpreter
func (i Invocation) CallExpr() (*syntax.CallExpr, error) {
	if i.Task == "" {
		return nil, eris.New("invocation has no task")
	}

	argv := i.Argv()
	cmd := new(syntax.CallExpr)
	cmd.Args = make([]*syntax.Word, len(argv))
	for idx, arg := range argv {
		var wordPart syntax.WordPart

		if arg == "" || strings.ContainsAny(arg, " \t\n$'\"\\*?[]|&;<>()`#~") {
			if strings.Contains(arg, "'") {
				// single quotes can't be escaped inside a single quoted string
				wordPart = &syntax.DblQuoted{
					Parts: []syntax.WordPart{&syntax.Lit{Value: escapeDouble(arg)}},
				}
			} else {
				wordPart = &syntax.SglQuoted{Value: arg}
			}
		} else {
			wordPart = &syntax.Lit{Value: arg}
		}

		cmd.Args[idx] = &syntax.Word{Parts: []syntax.WordPart{wordPart}}
	}

	return cmd, nil
}

func escapeDouble(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return replacer.Replace(value)
}

// String renders the invocation as a single command line
func (i Invocation) String() string {
	cmd, err := i.CallExpr()
	if err != nil {
		return strings.Join(i.Argv(), " ")
	}

	buffer := strings.Builder{}
	printer := syntax.NewPrinter(syntax.Minify(true))
	err = printer.Print(&buffer, cmd)
	if err != nil {
		return strings.Join(i.Argv(), " ")
	}

	return strings.TrimSpace(buffer.String())
}
