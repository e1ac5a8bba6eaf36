package main

import (
	"fmt"
	"os"

	"github.com/homewall/wallsense/cmd/wallsense/commands"
)

// Version information - set by ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
