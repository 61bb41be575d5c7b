package gradle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStubWrapper creates a gradlew script in dir which records its arguments and exits with code
func writeStubWrapper(t *testing.T, dir string, code int) {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > args.txt\necho stub output\nexit %d\n", code)
	err := os.WriteFile(filepath.Join(dir, "gradlew"), []byte(script), 0o755)
	require.NoError(t, err)
}

func TestShellRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub wrapper is a POSIX shell script")
	}

	for _, code := range []int{0, 1, 42} {
		code := code
		t.Run(fmt.Sprintf("ExitCode%d", code), func(t *testing.T) {
			dir := t.TempDir()
			writeStubWrapper(t, dir, code)

			stdout := bytes.Buffer{}
			runner := &ShellRunner{Stdout: &stdout, Stderr: &bytes.Buffer{}}

			inv := NewInvocation("assembleDebug")
			inv.Wrapper = "./gradlew"
			inv.Dir = dir

			result, err := runner.Run(context.Background(), inv)
			require.NoError(t, err)
			require.Equal(t, code, result)
			require.Equal(t, "stub output\n", stdout.String())

			args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
			require.NoError(t, err)
			require.Equal(t, "assembleDebug\n--no-daemon\n", string(args))
		})
	}

	t.Run("ForwardedArgs", func(t *testing.T) {
		dir := t.TempDir()
		writeStubWrapper(t, dir, 0)

		inv := NewInvocation("build", "--info", "-Pname=with space")
		inv.Wrapper = "./gradlew"
		inv.Dir = dir

		runner := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
		result, err := runner.Run(context.Background(), inv)
		require.NoError(t, err)
		require.Equal(t, 0, result)

		args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
		require.NoError(t, err)
		require.Equal(t, "build\n--no-daemon\n--info\n-Pname=with space\n", string(args))
	})

	t.Run("MissingWrapper", func(t *testing.T) {
		stderr := bytes.Buffer{}
		runner := &ShellRunner{Stdout: &bytes.Buffer{}, Stderr: &stderr}

		inv := NewInvocation("build")
		inv.Wrapper = "./gradlew"
		inv.Dir = t.TempDir()

		result, err := runner.Run(context.Background(), inv)
		require.NoError(t, err)
		require.Equal(t, 127, result)
		require.NotEmpty(t, stderr.String())
	})
}
