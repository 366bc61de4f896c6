// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.YellowString("!")+" "+fmt.Sprintf(format, args...))
}

// FormatError renders a command error for stderr.
func FormatError(err error) string {
	return color.RedString("✗") + " " + err.Error()
}

func pendingNote(pending int, offline bool) string {
	switch {
	case pending == 0:
		return "everything is synced"
	case offline:
		return fmt.Sprintf("%d change(s) waiting, server unreachable", pending)
	default:
		return fmt.Sprintf("%d change(s) waiting to sync", pending)
	}
}
