// Package main provides the seedtaxa CLI application.
// seedtaxa manages the reference taxonomy of a personal seed-collection
// database: compatibility checks, upgrades, species-list matching and
// maintenance.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
