// Package main is the entry point for the tfglib CLI.
//
// Usage:
//
//	tfglib [flags] <command> [subcommand] [args]
//
// Commands:
//
//	datatable  - Seq2seq datatable operations (build, inspect)
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/tfglib/tfglib/cmd/tfglib/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
