// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/client"
	"github.com/MKhiriev/scribe-keeper/internal/config"
	"github.com/MKhiriev/scribe-keeper/internal/logger"
	"github.com/MKhiriev/scribe-keeper/internal/service"
)

// sessionMode tells withApp how much of the stored session a command needs.
type sessionMode int

const (
	// noSession: the command starts a session itself (register, login).
	noSession sessionMode = iota
	// lockedSession: the stored session is restored without a key.
	lockedSession
	// unlockedSession: the passphrase is prompted for and the key derived.
	unlockedSession
)

type runFunc func(ctx context.Context, app *client.App, p *prompter) error

// withApp builds the runtime for one command, restores the session as mode
// asks and runs fn. The app is closed afterwards.
func (o *RootOptions) withApp(cmd *cobra.Command, mode sessionMode, fn runFunc) error {
	cfg, err := config.GetClientConfig(o.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewClientLogger(cfg.App.LogRole, cfg.App.LogFile, cfg.App.LogLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.WithContext(ctx)

	app, err := client.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Err(err).Msg("close app")
		}
	}()

	p := newPrompter(cmd)

	switch mode {
	case lockedSession:
		err = app.Resume(ctx, nil)
	case unlockedSession:
		err = app.Resume(ctx, func() (string, error) { return p.Secret("Passphrase") })
	}
	if err != nil {
		return describe(err)
	}

	if err = fn(ctx, app, p); err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			if logoutErr := app.Services.AuthService.Logout(ctx); logoutErr != nil {
				log.Err(logoutErr).Msg("clear expired session")
			}
		}
		return describe(err)
	}
	return nil
}

// describe turns service errors into messages for the terminal. The original
// error stays in the chain.
func describe(err error) error {
	switch {
	case errors.Is(err, service.ErrNoStoredSession), errors.Is(err, service.ErrNoActiveUser):
		return fmt.Errorf("not logged in, run `scribe-keeper login` first: %w", err)
	case errors.Is(err, service.ErrSessionExpired):
		return fmt.Errorf("session expired, log in again: %w", err)
	case errors.Is(err, service.ErrOffline):
		return fmt.Errorf("server is unreachable: %w", err)
	case errors.Is(err, service.ErrUsernameTaken):
		return fmt.Errorf("username is already taken: %w", err)
	case errors.Is(err, service.ErrWrongPassword):
		return fmt.Errorf("wrong username or password: %w", err)
	case errors.Is(err, service.ErrEntryNotFound):
		return fmt.Errorf("entry not found: %w", err)
	default:
		return err
	}
}
