// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bhuisgen/depot/internal/app/depot"
)

// newVersionCommand creates a new version command.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n", depot.Name)
			fmt.Fprintf(w, " %-19s%s\n", "Version:", depot.Version)
			fmt.Fprintf(w, " %-19s%s\n", "Commit:", depot.Commit)
			fmt.Fprintf(w, " %-19s%s\n", "Built:", depot.Date)
			fmt.Fprintf(w, " %-19s%s\n", "OS/Arch:", strings.Join([]string{runtime.GOOS, runtime.GOARCH}, "/"))
			if buildInfo, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(w, " %-19s%s\n", "Go version:", buildInfo.GoVersion)
			}
		},
	}
}
