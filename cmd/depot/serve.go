// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhuisgen/depot/internal/app/depot"
)

// newServeCommand creates a new serve command.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the server instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := depot.LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to load configuration: %s\n", err)
				return err
			}

			app, err := depot.New(config)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to create instance: %s\n", err)
				return err
			}
			if err := app.Serve(); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to run instance: %s\n", err)
				return err
			}

			return nil
		},
	}
}
