// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bhuisgen/depot/internal/app/depot"
)

// main is the entrypoint.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command.
func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "depot",
		Short:         "Run a depot storage server instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if v, ok := os.LookupEnv("CONFIG_FILE"); ok {
				depot.CONFIG_FILE = v
			}
			if configFile != "" {
				depot.CONFIG_FILE = configFile
			}
			if v, ok := os.LookupEnv("DEBUG"); ok && v != "0" {
				depot.DEBUG = true
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file")

	cmd.AddCommand(
		newInitCommand(),
		newCheckCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return cmd
}
