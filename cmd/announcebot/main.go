package main

import (
	"fmt"
	"os"

	"announcebot/cmd/announcebot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
