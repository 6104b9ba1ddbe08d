// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhuisgen/depot/internal/app/depot"
)

// newInitCommand creates a new init command.
func newInitCommand() *cobra.Command {
	var syntax string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a new configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := depot.GenerateConfig(syntax); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to generate configuration: %v\n", err)
				return fmt.Errorf("generate config: %v", err)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&syntax, "syntax", "s", "yaml", "Syntax (yaml,toml,json)")

	return cmd
}
