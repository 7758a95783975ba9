// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package config carries the CLI's environment-driven configuration
// (SPEC_FULL.md §10.3), grounded on the env-tagged config struct pattern
// absmach-magistrala uses throughout its cmd/ entrypoints (e.g.
// cmd/auth/main.go), adapted to github.com/caarlos0/env/v7.
package config

import (
	"github.com/caarlos0/env/v7"
)

// Config is the CLI's environment-sourced configuration. Values here are
// defaults that cobra flags (cli package) may override at the command
// line.
type Config struct {
	// LogLevel gates which log lines (debug/info/warn/error) reach output.
	LogLevel string `env:"OPENCAN_LOG_LEVEL" envDefault:"info"`

	// OutputDir is the directory generated C sources are written to.
	OutputDir string `env:"OPENCAN_OUTPUT_DIR" envDefault:"."`

	// RXCallbackStubs controls whether generated code includes weak,
	// empty RX callback bodies so a node compiles without user code.
	RXCallbackStubs bool `env:"OPENCAN_RX_CALLBACK_STUBS" envDefault:"true"`

	// TXPopulateStubs controls the same, for TX populate functions.
	TXPopulateStubs bool `env:"OPENCAN_TX_POPULATE_STUBS" envDefault:"true"`
}

// Load reads Config from the process environment, applying envDefault
// values for anything unset.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
