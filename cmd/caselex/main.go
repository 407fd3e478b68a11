// Package main provides the entry point for the caselex CLI.
package main

import (
	"os"

	"github.com/caselex/caselex/cmd/caselex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
