// Package main is the entry point for the swipe-solver CLI.
package main

import (
	"os"

	"github.com/ironsheep/swipe-solver/cmd/swipe-solver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
