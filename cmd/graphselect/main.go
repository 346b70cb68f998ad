// Package main is the entry point for the graphselect CLI.
package main

import (
	"fmt"
	"os"

	"github.com/imyousuf/graphselect/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
