// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the opencan command-line driver (spec.md §6):
// a cobra root command with compose and codegen subcommands, grounded on
// absmach-magistrala/cli's cobra command style and colorized the way
// github.com/ivanpirog/coloredcobra is meant to be used.
package cli

import (
	"fmt"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"

	"github.com/opencan/opencan/can/errors"
	"github.com/opencan/opencan/can/logger"
	"github.com/opencan/opencan/config"
)

// NewRootCommand builds the opencan root command with every subcommand
// attached, wired to cfg's defaults.
func NewRootCommand(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "opencan",
		Short: "Generate C CAN bus message-handling code from a network description",
	}

	root.AddCommand(newComposeCommand(cfg))
	root.AddCommand(newCodegenCommand(cfg))

	cc.Init(&cc.Config{
		RootCmd:       root,
		Headings:      cc.HiCyan + cc.Bold,
		Commands:      cc.HiBlue + cc.Bold,
		CmdShortDescr: cc.Blue,
		Flags:         cc.HiGreen,
	})

	return root
}

// run executes fn, logging its phases at Info and, on failure, rendering
// the full error chain at Error before returning a nonzero-exit signal to
// the caller (spec.md §10.1/§10.2).
func run(log logger.Logger, phase string, fn func() error) bool {
	log.Info(fmt.Sprintf("starting %s", phase))

	err := fn()
	if err == nil {
		log.Info(fmt.Sprintf("%s complete", phase))
		return true
	}

	if ce, ok := err.(errors.Error); ok {
		for i, line := range errors.Chain(ce) {
			log.Error(fmt.Sprintf("[%d] %s", i, line))
		}
	} else {
		log.Error(err.Error())
	}

	return false
}

func exitCode(ok bool) {
	if !ok {
		os.Exit(1)
	}
}
