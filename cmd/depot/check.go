// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhuisgen/depot/internal/app/depot"
)

// newCheckCommand creates a new check command.
func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := depot.LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to load configuration: %v\n", err)
				return fmt.Errorf("load config: %v", err)
			}

			app, err := depot.New(config)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to create instance: %v\n", err)
				return fmt.Errorf("create instance: %v", err)
			}
			if err := app.Check(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration is not valid")
				return fmt.Errorf("check: %v", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")

			return nil
		},
	}
}
