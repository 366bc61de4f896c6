// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", rootOpts.build.BuildVersion())
			fmt.Fprintf(out, "Build date: %s\n", rootOpts.build.BuildDate())
			fmt.Fprintf(out, "Build commit: %s\n", rootOpts.build.BuildCommit())
		},
	}
}
