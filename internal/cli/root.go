// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"flag"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/models"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// Config receives the values of the configuration flags once cobra
	// has parsed them.
	Config  *config.StructuredConfig
	NoColor bool

	build models.AppBuildInfo
}

// NewRootCommand creates the root command of the scribe-keeper CLI.
func NewRootCommand(build models.AppBuildInfo) *cobra.Command {
	cmd, _ := newRootCommand(build)
	return cmd
}

func newRootCommand(build models.AppBuildInfo) (*cobra.Command, *RootOptions) {
	fs := flag.NewFlagSet("scribe-keeper", flag.ContinueOnError)
	opts := &RootOptions{
		Config: config.RegisterFlags(fs),
		build:  build,
	}

	cmd := &cobra.Command{
		Use:   "scribe-keeper",
		Short: "Offline-first end-to-end encrypted diary",
		Long: `scribe-keeper keeps an encrypted copy of your diary on this machine and
syncs it with the diary server whenever the server is reachable.

Entries are encrypted with a key derived from your passphrase. The key
is only held in memory for the duration of a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().AddGoFlagSet(fs)
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd, opts
}
