package commands

import (
	"fmt"
	"strings"
)

// Title is the first line of the usage text
const Title = "Negative Space Puzzler - Development Scripts"

// Help renders the usage text for the given table. The program name is used in the usage line and
// the examples.
func Help(t *Table, program string) string {
	entries := t.Entries()
	width := 0
	for _, entry := range entries {
		if len(entry.Name) > width {
			width = len(entry.Name)
		}
	}

	buffer := strings.Builder{}
	buffer.WriteString("\n")
	buffer.WriteString(Title + "\n")
	buffer.WriteString(strings.Repeat("=", len(Title)+1) + "\n")
	buffer.WriteString("\nAvailable commands:\n")

	lineFmt := fmt.Sprintf("  %%-%ds - %%s\n", width)
	for _, entry := range entries {
		buffer.WriteString(fmt.Sprintf(lineFmt, entry.Name, entry.Desc))
	}

	buffer.WriteString(fmt.Sprintf("\nUsage: %s <command>\n", program))
	buffer.WriteString("\nExamples:\n")
	for _, example := range []string{"build", "test", "apk"} {
		buffer.WriteString(fmt.Sprintf("  %s %s\n", program, example))
	}

	return buffer.String()
}
