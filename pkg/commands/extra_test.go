package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExtra(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		entries, err := ParseExtra([]byte(`
commands:
  - name: release
    task: assembleRelease
    description: Build release APK
    args: [--stacktrace]
  - name: deps
    task: dependencies
`))
		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.Equal(t, Entry{
			Name: "release",
			Kind: RunTask,
			Task: "assembleRelease",
			Args: []string{"--stacktrace"},
			Desc: "Build release APK",
		}, entries[0])
		require.Equal(t, "Run the Gradle task dependencies", entries[1].Desc)
	})

	t.Run("Empty", func(t *testing.T) {
		entries, err := ParseExtra(nil)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := ParseExtra([]byte("commands:\n  - name: x\n    tasks: y\n"))
		require.Error(t, err)
	})
}

func TestLoadExtra(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.yaml")
	err := os.WriteFile(path, []byte("commands:\n  - name: release\n    task: assembleRelease\n"), 0o644)
	require.NoError(t, err)

	entries, err := LoadExtra(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "assembleRelease", entries[0].Task)

	_, err = LoadExtra(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
