// Package main is the entry point for the memsafe CLI binary.
package main

import (
	"os"

	"github.com/irahardianto/memsafe/cmd/memsafe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
