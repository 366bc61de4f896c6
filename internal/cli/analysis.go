// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/scribe-keeper/internal/client"
	"github.com/MKhiriev/scribe-keeper/models"
)

var errNoText = errors.New("nothing to analyze: pass text or --path")

type analysisFlags struct {
	path string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Extract keywords from text or from an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, analysisMode(flags), func(ctx context.Context, app *client.App, _ *prompter) error {
				text, err := analysisText(ctx, app, flags, args)
				if err != nil {
					return err
				}

				app.Connect(ctx)
				resp, err := app.Services.EntryService.Analyze(ctx, text)
				if err != nil {
					return err
				}

				printKeywords(cmd.OutOrStdout(), resp.Keywords)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "analyze the body of this entry")
	return cmd
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "recommend [text...]",
		Short: "Suggest songs and movies matching text or an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, analysisMode(flags), func(ctx context.Context, app *client.App, _ *prompter) error {
				text, err := analysisText(ctx, app, flags, args)
				if err != nil {
					return err
				}

				app.Connect(ctx)
				resp, err := app.Services.EntryService.Recommend(ctx, text)
				if err != nil {
					return err
				}

				printRecommendations(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "use the body of this entry")
	return cmd
}

// analysisMode asks for the passphrase only when an entry has to be
// decrypted.
func analysisMode(flags *analysisFlags) sessionMode {
	if flags.path != "" {
		return unlockedSession
	}
	return lockedSession
}

func analysisText(ctx context.Context, app *client.App, flags *analysisFlags, args []string) (string, error) {
	if flags.path != "" {
		entry, err := app.Services.EntryService.Get(ctx, flags.path)
		if err != nil {
			return "", err
		}
		return entry.Body, nil
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

func printKeywords(w io.Writer, keywords []string) {
	if len(keywords) == 0 {
		fmt.Fprintln(w, "No keywords found")
		return
	}
	fmt.Fprintf(w, "Keywords: %s\n", color.CyanString(strings.Join(keywords, ", ")))
}

func printRecommendations(w io.Writer, resp models.RecommendationResponse) {
	printKeywords(w, resp.Keywords)

	if len(resp.Songs) > 0 {
		fmt.Fprintln(w, color.New(color.Bold).Sprint("\nSongs"))
		for _, s := range resp.Songs {
			fmt.Fprintf(w, "  %s - %s", s.ArtistName, s.SongName)
			if s.ReleaseYear != "" {
				fmt.Fprintf(w, " (%s)", s.ReleaseYear)
			}
			fmt.Fprintln(w)
		}
	}

	if len(resp.Movies) > 0 {
		fmt.Fprintln(w, color.New(color.Bold).Sprint("\nMovies"))
		for _, m := range resp.Movies {
			fmt.Fprintf(w, "  %s", m.MovieTitle)
			if m.ReleaseYear != "" {
				fmt.Fprintf(w, " (%s)", m.ReleaseYear)
			}
			if m.MovieRating != "" {
				fmt.Fprintf(w, " %s", color.YellowString("★ %s", m.MovieRating))
			}
			fmt.Fprintln(w)
		}
	}
}
