// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/client"
	"github.com/MKhiriev/scribe-keeper/models"
)

type credentialsFlags struct {
	username string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the diary server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, noSession, func(ctx context.Context, app *client.App, p *prompter) error {
				creds, err := readCredentials(p, flags.username)
				if err != nil {
					return err
				}
				user, err := app.Services.AuthService.Register(ctx, creds)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Registered as %s", color.CyanString(user.Username))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "account username")
	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, noSession, func(ctx context.Context, app *client.App, p *prompter) error {
				creds, err := readCredentials(p, flags.username)
				if err != nil {
					return err
				}
				user, err := app.Services.AuthService.Login(ctx, creds)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				success(out, "Logged in as %s", color.CyanString(user.Username))

				if pending, err := app.Services.Coordinator.RefreshPendingCount(ctx); err == nil && pending > 0 {
					warn(out, "%d change(s) from a previous session are waiting, run `scribe-keeper sync`", pending)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "account username")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session; local entries are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, lockedSession, func(ctx context.Context, app *client.App, _ *prompter) error {
				if err := app.Services.AuthService.Logout(ctx); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func readCredentials(p *prompter, username string) (models.Credentials, error) {
	username, err := p.ask(username, "Username")
	if err != nil {
		return models.Credentials{}, fmt.Errorf("read username: %w", err)
	}
	password, err := p.Secret("Password")
	if err != nil {
		return models.Credentials{}, fmt.Errorf("read password: %w", err)
	}
	return models.Credentials{Username: username, Password: password}, nil
}
