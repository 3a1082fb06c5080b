// Package main is the entry point for the billboard-pricing CLI.
package main

import (
	"os"

	"billboard-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
