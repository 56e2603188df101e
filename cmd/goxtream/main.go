// Package main is the entry point for the goxtream application.
package main

import (
	"os"

	"github.com/jmylchreest/goxtream/cmd/goxtream/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
