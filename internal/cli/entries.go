// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/client"
	"github.com/MKhiriev/scribe-keeper/models"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, unlockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				items, err := app.Services.EntryService.List(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No entries yet. Create one with `scribe-keeper write`.")
					return nil
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PATH\tUPDATED\tTITLE")
				for _, item := range items {
					title := item.Title
					if item.DecryptFailed {
						title = color.RedString(title)
					}
					if item.Dirty {
						title += " " + color.YellowString("*")
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", item.StoragePath, item.UpdatedAt.Or(item.CreatedAt), title)
				}
				return tw.Flush()
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Decrypt and print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, unlockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				app.Connect(ctx)

				entry, err := app.Services.EntryService.Get(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, color.New(color.Bold).Sprint(entry.Title))
				fmt.Fprintf(out, "%s  created %s  updated %s\n", entry.StoragePath, entry.CreatedAt, entry.UpdatedAt)
				if entry.Dirty {
					fmt.Fprintln(out, color.YellowString("not synced yet"))
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, entry.Body)
				return nil
			})
		},
	}
}

type writeFlags struct {
	path      string
	title     string
	body      string
	createdAt string
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &writeFlags{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Create or overwrite an entry",
		Long: `Create a new entry, or overwrite the one at --path.

Missing --title and --body are read from the input after the passphrase.
The entry is saved locally first and synced right away when the server
is reachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			createdAt := models.LocalDateTime(flags.createdAt)
			if _, err := createdAt.Time(); err != nil {
				return err
			}

			return rootOpts.withApp(cmd, unlockedSession, func(ctx context.Context, app *client.App, p *prompter) error {
				title, err := p.ask(flags.title, "Title")
				if err != nil {
					return fmt.Errorf("read title: %w", err)
				}
				body := flags.body
				if body == "" {
					if body, err = p.Multiline("Body"); err != nil {
						return fmt.Errorf("read body: %w", err)
					}
				}

				app.Connect(ctx)

				path, err := app.Services.EntryService.Save(ctx, models.EntryDraft{
					StoragePath: flags.path,
					Title:       title,
					Body:        body,
					CreatedAt:   createdAt,
				})
				if err != nil {
					return err
				}

				coordinator := app.Services.Coordinator
				success(cmd.OutOrStdout(), "Saved %s (%s)", color.CyanString(path), pendingNote(coordinator.PendingCount(), coordinator.IsOffline()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "storage path of the entry to overwrite")
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "entry title")
	cmd.Flags().StringVarP(&flags.body, "body", "b", "", "entry body")
	cmd.Flags().StringVar(&flags.createdAt, "created-at", "", "creation time, "+models.LocalDateTimeLayout)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				app.Connect(ctx)

				if err := app.Services.EntryService.Delete(ctx, args[0]); err != nil {
					return err
				}

				coordinator := app.Services.Coordinator
				success(cmd.OutOrStdout(), "Deleted %s (%s)", color.CyanString(args[0]), pendingNote(coordinator.PendingCount(), coordinator.IsOffline()))
				return nil
			})
		},
	}
}
