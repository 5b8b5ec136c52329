// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates a structured logger for command diagnostics on
// stderr. verbose is the -v count: zero keeps the logger at warning
// level so normal runs stay quiet, one enables debug, two or more
// lowers the floor further so library-level chatter shows too.
//
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected (scripts, CI), uses
// slog.JSONHandler for machine-parseable output.
func NewLogger(verbose int) *slog.Logger {
	var level slog.Level
	switch {
	case verbose <= 0:
		level = slog.LevelWarn
	case verbose == 1:
		level = slog.LevelDebug
	default:
		level = slog.LevelDebug - 4
	}
	return newStderrLogger(level)
}

// NewRepoLogger creates the logger for the repository subsystem.
// Disabled unless --ostree-verbose was given; repository internals
// are noisy enough to warrant their own switch.
func NewRepoLogger(enabled bool) *slog.Logger {
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return newStderrLogger(slog.LevelDebug)
}

func newStderrLogger(level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
