// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/client"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Refresh the local cache from the server",
		Long: `Fetch entries that are newer on the server and drop cached entries the
server no longer has. Entries with unsynced local changes are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				app.Connect(ctx)

				result, err := app.Services.EntryService.Pull(ctx)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Pulled: %d fetched, %d removed, %d unchanged", result.Fetched, result.Removed, result.Skipped)
				return nil
			})
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send pending local changes to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				out := cmd.OutOrStdout()
				if !app.Connect(ctx) {
					pending, err := app.Services.Coordinator.RefreshPendingCount(ctx)
					if err != nil {
						return err
					}
					warn(out, "Server unreachable, %d change(s) waiting", pending)
					return nil
				}

				if _, err := app.Services.Coordinator.SyncNow(ctx); err != nil {
					return err
				}
				status, err := app.Services.Coordinator.Status(ctx)
				if err != nil {
					return err
				}
				if status.PendingCount == 0 {
					success(out, "Everything is synced")
					return nil
				}

				warn(out, "%d change(s) still waiting", status.PendingCount)
				if status.LastError != nil {
					return fmt.Errorf("sync stopped: %s", *status.LastError)
				}
				return nil
			})
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				app.Connect(ctx)

				status, err := app.Services.Coordinator.Status(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if user, ok := app.Session.User(); ok {
					fmt.Fprintf(out, "User:     %s\n", color.CyanString(user.Username))
				}
				if info, err := app.Services.AuthService.TokenInfo(); err == nil && !info.ExpiresAt.IsZero() {
					expiry := info.ExpiresAt.Local().Format(time.DateTime)
					if info.Expired(time.Now()) {
						expiry = color.RedString("expired at %s", expiry)
					}
					fmt.Fprintf(out, "Token:    %s\n", expiry)
				}

				server := color.GreenString("online")
				if status.Offline {
					server = color.YellowString("offline")
				}
				fmt.Fprintf(out, "Server:   %s\n", server)
				fmt.Fprintf(out, "Pending:  %d\n", status.PendingCount)
				fmt.Fprintf(out, "Unsynced: %d\n", status.DirtyEntries)
				if status.LastError != nil {
					fmt.Fprintf(out, "Last err: %s\n", color.RedString(*status.LastError))
				}
				return nil
			})
		},
	}
}

type watchFlags struct {
	autoSync    bool
	metricsAddr string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow connectivity and, optionally, sync in the background",
		Long: `Probe the server until interrupted and report online/offline transitions.

With --auto-sync pending changes are sent on every reconnect and on the
sync interval. With --metrics-addr sync metrics are served in the
Prometheus format on GET /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				return runWatch(ctx, cmd, app, flags)
			})
		},
	}

	cmd.Flags().BoolVar(&flags.autoSync, "auto-sync", false, "sync on reconnect and periodically")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, app *client.App, flags *watchFlags) error {
	out := cmd.OutOrStdout()
	coordinator := app.Services.Coordinator

	report := func(online bool) {
		pending := coordinator.PendingCount()
		if online {
			success(out, "Online (%s)", pendingNote(pending, false))
		} else {
			warn(out, "Offline (%s)", pendingNote(pending, true))
		}
	}

	online := app.Connect(ctx)
	if _, err := coordinator.RefreshPendingCount(ctx); err != nil {
		return err
	}
	unsubscribe := app.Prober.Subscribe(report)
	defer unsubscribe()

	if flags.autoSync {
		stopSync := app.SyncOnReconnect(ctx)
		defer stopSync()

		if online {
			if _, err := coordinator.SyncNow(ctx); err != nil {
				warn(out, "Sync failed: %v", err)
			}
		}
	}
	report(online)

	ws, err := app.Workers(flags.autoSync, flags.metricsAddr)
	if err != nil {
		return err
	}
	return ws.Run(ctx)
}
