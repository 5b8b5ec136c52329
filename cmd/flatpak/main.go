// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"

	"github.com/matthiasclasen/flatpak/cmd/flatpak/cli"
	"github.com/matthiasclasen/flatpak/cmd/flatpak/commands"
	"github.com/matthiasclasen/flatpak/lib/dir"
)

func main() {
	if err := run(); err != nil {
		// Commands that have already said everything there is to say
		// (like a failed shell completion) return an exitError with the
		// desired exit code. Don't print a redundant "error:" line for
		// those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		out := termenv.NewOutput(os.Stderr)
		fmt.Fprintf(os.Stderr, "%s %v\n", out.String("error:").Bold().Foreground(termenv.ANSIRed), err)
		os.Exit(1)
	}
}

func run() error {
	registry := commands.Registry(dir.NewLocator(), os.Stdout, os.Stderr)

	// The shell integration invokes "flatpak complete <cur> <prev>
	// <line>" to ask for completion candidates. The reserved token only
	// takes effect in first position with both words present, so it
	// cannot shadow a user-named argument elsewhere on the line.
	if len(os.Args) >= 4 && os.Args[1] == cli.CompleteArg {
		line := ""
		if len(os.Args) > 4 {
			line = os.Args[4]
		}
		return registry.Complete(os.Args[2], os.Args[3], line)
	}

	return registry.Dispatch(context.Background(), os.Args[1:])
}
