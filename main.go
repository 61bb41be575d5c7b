package main

import "github.com/CopilotCreations/negative-space-puzzler/cmd"

func main() {
	cmd.Execute()
}
