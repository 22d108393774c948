// Package main is the entry point for the langkit command line tool.
package main

import (
	"os"

	"github.com/dshills/langkit/internal/cli"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
