package main

import (
	"os"

	"hushpost/cmd/hushpost/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
