// Package main is the entry point for the cargo-quote CLI.
package main

import (
	"os"

	"cargo-quote/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
