package main

import (
	"os"

	"formd/cmd/formctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
