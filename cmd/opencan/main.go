// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Command opencan is the CLI entrypoint: it loads configuration from the
// environment, builds the cobra command tree, and runs it (spec.md §6,
// grounded on absmach-magistrala's cmd/*/main.go entrypoint shape).
package main

import (
	"fmt"
	"os"

	"github.com/opencan/opencan/cli"
	"github.com/opencan/opencan/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %s\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cfg)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
