// Package main provides the CLI for the LeapQuery ad-hoc SQL query builder.
package main

import (
	"os"

	"github.com/leapstack-labs/leapquery/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
