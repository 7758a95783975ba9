// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencan/opencan/can/codegen"
	"github.com/opencan/opencan/can/compose"
	"github.com/opencan/opencan/can/logger"
	"github.com/opencan/opencan/config"
)

func newCodegenCommand(cfg config.Config) *cobra.Command {
	var node string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "codegen <in_file>",
		Short: "Generate C CAN bus message-handling code for one node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))

			ok := run(log, "codegen", func() error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}

				net, err := compose.Parse(data)
				if err != nil {
					return err
				}

				files, err := codegen.Generate(net, node, codegen.Options{
					RXCallbackStubs: cfg.RXCallbackStubs,
					TXPopulateStubs: cfg.TXPopulateStubs,
				})
				if err != nil {
					return err
				}

				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return err
				}

				for _, f := range files {
					path := filepath.Join(outputDir, f.Name)
					if err := os.WriteFile(path, []byte(f.Contents), 0o644); err != nil {
						return err
					}
					log.Info(fmt.Sprintf("wrote %s", path))
				}

				return nil
			})

			if !ok {
				exitCode(false)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "target node to generate code for")
	cmd.MarkFlagRequired("node")
	cmd.Flags().StringVar(&outputDir, "output", cfg.OutputDir, "directory to write generated sources into")

	return cmd
}
