package commands

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind selects what the dispatcher does for an entry
type Kind int

const (
	// RunTask invokes the Gradle wrapper with the entry's task
	RunTask Kind = iota
	// ShowHelp prints the usage text
	ShowHelp
)

// Entry is a single row of the command table
type Entry struct {
	Name string
	Kind Kind
	Task string
	// Args are fixed arguments passed after --no-daemon, only used by extra commands
	Args []string
	Desc string
}

// Table maps lower-case command names to entries. It is never modified after construction.
type Table struct {
	entries map[string]Entry
	// order keeps the built-ins in their documented order for the help text
	order []string
}

var builtins = []Entry{
	{Name: "build", Kind: RunTask, Task: "build", Desc: "Build the project"},
	{Name: "test", Kind: RunTask, Task: "testDebugUnitTest", Desc: "Run unit tests"},
	{Name: "coverage", Kind: RunTask, Task: "jacocoTestReport", Desc: "Generate test coverage report"},
	{Name: "lint", Kind: RunTask, Task: "lint", Desc: "Run lint checks"},
	{Name: "apk", Kind: RunTask, Task: "assembleDebug", Desc: "Build debug APK"},
	{Name: "clean", Kind: RunTask, Task: "clean", Desc: "Clean build artifacts"},
	{Name: "install", Kind: RunTask, Task: "installDebug", Desc: "Install on connected device"},
	{Name: "help", Kind: ShowHelp, Desc: "Show this help message"},
}

// Default returns the built-in command table
func Default() *Table {
	table, err := newTable(builtins)
	if err != nil {
		// the built-ins are static
		panic(err)
	}

	return table
}

func newTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}

	for _, entry := range entries {
		err := t.add(entry)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) add(entry Entry) error {
	entry.Name = strings.ToLower(strings.TrimSpace(entry.Name))
	if entry.Name == "" {
		return eris.New("command name must not be empty")
	}

	if _, exists := t.entries[entry.Name]; exists {
		return eris.Errorf("command %s is already defined", entry.Name)
	}

	if entry.Kind == RunTask && strings.TrimSpace(entry.Task) == "" {
		return eris.Errorf("command %s has no Gradle task", entry.Name)
	}

	t.entries[entry.Name] = entry
	t.order = append(t.order, entry.Name)
	return nil
}

// With returns a new table containing t's entries followed by extra. Names are matched
// case-insensitively; a collision with an existing entry is an error.
func (t *Table) With(extra ...Entry) (*Table, error) {
	all := make([]Entry, 0, len(t.order)+len(extra))
	for _, name := range t.order {
		all = append(all, t.entries[name])
	}

	all = append(all, extra...)
	return newTable(all)
}

// Lookup finds the entry for name, ignoring case
func (t *Table) Lookup(name string) (Entry, bool) {
	entry, ok := t.entries[strings.ToLower(name)]
	return entry, ok
}

// Len returns the number of commands in the table
func (t *Table) Len() int {
	return len(t.order)
}

// Entries returns all entries: built-ins in their documented order, then extra commands sorted by name.
func (t *Table) Entries() []Entry {
	result := make([]Entry, 0, len(t.order))
	extra := make([]Entry, 0)
	for _, name := range t.order {
		if isBuiltin(name) {
			result = append(result, t.entries[name])
		} else {
			extra = append(extra, t.entries[name])
		}
	}

	sort.Slice(extra, func(a, b int) bool {
		return extra[a].Name < extra[b].Name
	})

	// help stays at the bottom of the listing
	if len(result) > 0 && result[len(result)-1].Kind == ShowHelp && len(extra) > 0 {
		help := result[len(result)-1]
		result = append(result[:len(result)-1], extra...)
		return append(result, help)
	}

	return append(result, extra...)
}

func isBuiltin(name string) bool {
	for _, entry := range builtins {
		if entry.Name == name {
			return true
		}
	}

	return false
}
