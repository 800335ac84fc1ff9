package main

import (
	"os"

	"cmdl/cmd/cli"
	"cmdl/cmd/tui"
)

func main() {
	// No arguments opens the picker; anything else is a CLI invocation.
	if len(os.Args) <= 1 {
		tui.RunTUI()
	} else {
		cli.RunCLI()
	}
}
