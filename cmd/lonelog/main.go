// Package main is the entry point for the lonelog CLI.
package main

import (
	"os"

	"github.com/aidanlsb/lonelog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
