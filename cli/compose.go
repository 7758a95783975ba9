// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencan/opencan/can/compose"
	"github.com/opencan/opencan/can/logger"
	"github.com/opencan/opencan/config"
)

func newComposeCommand(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <in_file>",
		Short: "Parse a network description and print a diagnostic summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))

			ok := run(log, "compose", func() error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}

				net, err := compose.Parse(data)
				if err != nil {
					return err
				}

				fmt.Fprint(cmd.OutOrStdout(), net.Describe())
				return nil
			})

			if !ok {
				exitCode(false)
			}
			return nil
		},
	}

	return cmd
}
